package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	"HospitalCare/cache"
	"HospitalCare/config"
	"HospitalCare/models"
	"HospitalCare/notify"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/store/memstore"
)

// recordingDispatcher runs notifications inline and remembers their names.
type recordingDispatcher struct {
	mu    sync.Mutex
	names []string
}

func (d *recordingDispatcher) Go(name string, send func(ctx context.Context, n notify.Notifier) error) {
	d.mu.Lock()
	d.names = append(d.names, name)
	d.mu.Unlock()
}

func (d *recordingDispatcher) sent() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.names...)
}

type countingRecorder struct {
	mu        sync.Mutex
	booked    map[string]int
	conflicts int
	failures  map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{booked: map[string]int{}, failures: map[string]int{}}
}

func (r *countingRecorder) AppointmentBooked(dept string) {
	r.mu.Lock()
	r.booked[dept]++
	r.mu.Unlock()
}

func (r *countingRecorder) SlotConflict() {
	r.mu.Lock()
	r.conflicts++
	r.mu.Unlock()
}

func (r *countingRecorder) LoginFailed(reason string) {
	r.mu.Lock()
	r.failures[reason]++
	r.mu.Unlock()
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID primitive.ObjectID) (string, time.Time, error) {
	return "token-" + userID.Hex(), time.Now().Add(time.Hour), nil
}

// memCache is a map-backed cache.Store used to observe cache hits.
type memCache struct {
	mu   sync.Mutex
	vals map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{vals: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, out interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.vals[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.vals, k)
	}
	return nil
}

func (c *memCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.vals {
		if strings.HasPrefix(k, prefix) {
			delete(c.vals, k)
		}
	}
	return nil
}

func (c *memCache) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	if raw, ok := c.vals[key]; ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, err
		}
	}
	n++
	raw, err := json.Marshal(n)
	if err != nil {
		return 0, err
	}
	c.vals[key] = raw
	return n, nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.vals[key]
	return ok
}

type fixture struct {
	db         *memstore.Store
	dispatcher *recordingDispatcher
	recorder   *countingRecorder
	kv         *memCache

	auth           *AuthService
	appointments   *AppointmentService
	doctors        *DoctorService
	patients       *PatientService
	departments    *DepartmentService
	prescriptions  *PrescriptionService
	medicalRecords *MedicalRecordService
	invoices       *InvoiceService
	messages       *MessageService
	admin          *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	db := memstore.New()
	f := &fixture{db: db, dispatcher: &recordingDispatcher{}, recorder: newCountingRecorder(), kv: newMemCache()}

	guard := NewLoginGuard(f.kv, config.AuthConfig{MaxFailedLogins: 3, LockoutWindow: time.Minute}, log)
	f.auth = NewAuthService(db.Users, db.Doctors, db.Patients, fakeTokens{}, guard, f.kv, f.dispatcher, f.recorder, log).WithHashCost(4)
	f.appointments = NewAppointmentService(db.Appointments, db.Doctors, db.Patients, db.Users, f.dispatcher, f.recorder, log)
	f.doctors = NewDoctorService(db.Doctors, db.Users, f.kv, time.Minute, log)
	f.patients = NewPatientService(db.Patients, db.Users, db.Appointments, log)
	f.departments = NewDepartmentService(db.Departments, db.Doctors, f.kv, time.Minute, log)
	f.prescriptions = NewPrescriptionService(db.Prescriptions, db.Patients, db.Appointments, log)
	f.medicalRecords = NewMedicalRecordService(db.MedicalRecords, db.Patients, db.Appointments, log)
	f.invoices = NewInvoiceService(db.Invoices, db.Counters, db.Patients, log)
	f.messages = NewMessageService(db.Messages, db.Users, log)
	f.admin = NewAdminService(db.Users, db.Appointments, db.Invoices, f.kv, log)
	return f
}

func (f *fixture) user(t *testing.T, name string, r role.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@hospital.test", Role: r}
	u.SetStatus(models.UserActive)
	require.NoError(t, f.db.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) staff(t *testing.T, name string, r role.Role) *policy.Principal {
	return &policy.Principal{User: f.user(t, name, r)}
}

func (f *fixture) doctor(t *testing.T, name, department string) *policy.Principal {
	t.Helper()
	u := f.user(t, name, role.Doctor)
	d := &models.Doctor{
		UserID:          u.ID,
		Specialization:  "General",
		LicenseNumber:   "LIC-" + name,
		ExperienceYears: 5,
		Department:      department,
	}
	require.NoError(t, f.db.Doctors.Create(context.Background(), d))
	return &policy.Principal{User: u, DoctorID: &d.ID}
}

func (f *fixture) patient(t *testing.T, name string) *policy.Principal {
	t.Helper()
	u := f.user(t, name, role.Patient)
	p := &models.Patient{UserID: u.ID}
	require.NoError(t, f.db.Patients.Create(context.Background(), p))
	return &policy.Principal{User: u, PatientID: &p.ID}
}

func (f *fixture) book(t *testing.T, p *policy.Principal, doctor *policy.Principal, date, hhmm string) *models.AppointmentView {
	t.Helper()
	v, err := f.appointments.Create(context.Background(), p, CreateAppointmentInput{
		DoctorID: doctor.DoctorID.Hex(),
		Date:     date,
		Time:     hhmm,
		Reason:   "checkup",
	})
	require.NoError(t, err)
	return v
}

func statusPtr(s models.AppointmentStatus) *models.AppointmentStatus {
	return &s
}

func strPtr(s string) *string {
	return &s
}

var _ cache.Store = (*memCache)(nil)
