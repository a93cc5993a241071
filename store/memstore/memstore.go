// Package memstore holds in-memory repositories with the same contracts as
// the Mongo stores, including the unique slot and email rules.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"HospitalCare/models"
	"HospitalCare/role"
	"HospitalCare/util"
)

var now = func() time.Time { return time.Now().UTC() }

// Store bundles one fake per collection. The zero value is not usable; call
// New.
type Store struct {
	Users          *Users
	Doctors        *Doctors
	Patients       *Patients
	Appointments   *Appointments
	Prescriptions  *Prescriptions
	MedicalRecords *MedicalRecords
	Invoices       *Invoices
	Messages       *Messages
	Departments    *Departments
	Counters       *Counters
}

func New() *Store {
	s := &Store{
		Doctors:        &Doctors{rows: newTable[models.Doctor]()},
		Patients:       &Patients{rows: newTable[models.Patient]()},
		Appointments:   &Appointments{rows: newTable[models.Appointment]()},
		Prescriptions:  &Prescriptions{rows: newTable[models.Prescription]()},
		MedicalRecords: &MedicalRecords{rows: newTable[models.MedicalRecord]()},
		Invoices:       &Invoices{rows: newTable[models.Invoice]()},
		Messages:       &Messages{rows: newTable[models.Message]()},
		Departments:    &Departments{rows: newTable[models.Department]()},
		Counters:       &Counters{seq: map[string]int64{}},
	}
	s.Users = &Users{rows: newTable[models.User](), doctors: s.Doctors, patients: s.Patients}
	return s
}

type table[T any] struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[primitive.ObjectID]T{}}
}

func (t *table[T]) get(id primitive.ObjectID, notFound string) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, util.NotFound(notFound)
	}
	return &v, nil
}

func (t *table[T]) put(id primitive.ObjectID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = v
}

func (t *table[T]) replace(id primitive.ObjectID, v T, notFound string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return util.NotFound(notFound)
	}
	t.rows[id] = v
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID, notFound string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return util.NotFound(notFound)
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) filter(keep func(*T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0)
	for _, v := range t.rows {
		if keep(&v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) byIDs(ids []primitive.ObjectID) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := t.rows[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func stamp(created, updated *time.Time) {
	t := now()
	if created != nil && created.IsZero() {
		*created = t
	}
	*updated = t
}

func newestFirst[T any](list []T, created func(*T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool {
		return created(&list[i]).After(created(&list[j]))
	})
}

func paginate[T any](list []T, p models.Page) []T {
	p = p.Normalize()
	start := int(p.Skip())
	if start >= len(list) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func sameID(want *primitive.ObjectID, got primitive.ObjectID) bool {
	return want == nil || *want == got
}

type Users struct {
	rows     *table[models.User]
	doctors  *Doctors
	patients *Patients
}

func (s *Users) emailTaken(email string, except primitive.ObjectID) bool {
	return len(s.rows.filter(func(u *models.User) bool { return u.Email == email && u.ID != except })) > 0
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	ensureID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if s.emailTaken(u.Email, u.ID) {
		return util.DuplicateKey(util.EMAIL_ALREADY_REGISTERED)
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	s.rows.put(u.ID, *u)
	return nil
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.rows.get(id, util.USER_NOT_FOUND)
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	list := s.rows.filter(func(u *models.User) bool { return u.Email == email })
	if len(list) == 0 {
		return nil, util.NotFound(util.USER_NOT_FOUND)
	}
	return &list[0], nil
}

func (s *Users) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return s.rows.byIDs(ids), nil
}

func (s *Users) List(_ context.Context, f models.UserFilter) ([]models.User, int64, error) {
	list := s.rows.filter(func(u *models.User) bool {
		return (f.Role == "" || string(u.Role) == f.Role) && (f.Status == "" || u.Status == f.Status)
	})
	newestFirst(list, func(u *models.User) time.Time { return u.CreatedAt })
	return paginate(list, f.Page), int64(len(list)), nil
}

func (s *Users) Update(_ context.Context, u *models.User) error {
	if s.emailTaken(u.Email, u.ID) {
		return util.DuplicateKey(util.EMAIL_ALREADY_REGISTERED)
	}
	stamp(nil, &u.UpdatedAt)
	return s.rows.replace(u.ID, *u, util.USER_NOT_FOUND)
}

func (s *Users) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.USER_NOT_FOUND)
}

func (s *Users) DeleteWithProfile(ctx context.Context, u *models.User) error {
	switch u.Role {
	case role.Doctor:
		for _, d := range s.doctors.rows.filter(func(d *models.Doctor) bool { return d.UserID == u.ID }) {
			_ = s.doctors.rows.remove(d.ID, util.DOCTOR_NOT_FOUND)
		}
	case role.Patient:
		for _, p := range s.patients.rows.filter(func(p *models.Patient) bool { return p.UserID == u.ID }) {
			_ = s.patients.rows.remove(p.ID, util.PATIENT_NOT_FOUND)
		}
	}
	return s.Delete(ctx, u.ID)
}

func (s *Users) ExistsWithRole(_ context.Context, r role.Role) (bool, error) {
	return len(s.rows.filter(func(u *models.User) bool { return u.Role == r })) > 0, nil
}

func (s *Users) CountByRole(_ context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	for _, u := range s.rows.filter(func(*models.User) bool { return true }) {
		out[string(u.Role)]++
	}
	return out, nil
}

type Doctors struct {
	rows *table[models.Doctor]
}

func (s *Doctors) licenseTaken(license string, except primitive.ObjectID) bool {
	return len(s.rows.filter(func(d *models.Doctor) bool { return d.LicenseNumber == license && d.ID != except })) > 0
}

func (s *Doctors) Create(_ context.Context, d *models.Doctor) error {
	ensureID(&d.ID)
	if s.licenseTaken(d.LicenseNumber, d.ID) {
		return util.DuplicateKey(util.LICENSE_ALREADY_REGISTERED)
	}
	if len(d.Availability) == 0 {
		d.Availability = models.DefaultAvailability()
	}
	stamp(&d.CreatedAt, &d.UpdatedAt)
	s.rows.put(d.ID, *d)
	return nil
}

func (s *Doctors) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	return s.rows.get(id, util.DOCTOR_NOT_FOUND)
}

func (s *Doctors) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	list := s.rows.filter(func(d *models.Doctor) bool { return d.UserID == userID })
	if len(list) == 0 {
		return nil, util.NotFound(util.DOCTOR_PROFILE_MISSING)
	}
	return &list[0], nil
}

func (s *Doctors) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Doctor, error) {
	return s.rows.byIDs(ids), nil
}

func (s *Doctors) ExistsByLicense(_ context.Context, license string) (bool, error) {
	return s.licenseTaken(license, primitive.NilObjectID), nil
}

func (s *Doctors) List(_ context.Context, f models.DoctorFilter) ([]models.Doctor, error) {
	list := s.rows.filter(func(d *models.Doctor) bool {
		return (f.Specialization == "" || d.Specialization == f.Specialization) &&
			(f.Department == "" || d.Department == f.Department)
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Department != list[j].Department {
			return list[i].Department < list[j].Department
		}
		return list[i].Specialization < list[j].Specialization
	})
	return list, nil
}

func (s *Doctors) Update(_ context.Context, d *models.Doctor) error {
	if s.licenseTaken(d.LicenseNumber, d.ID) {
		return util.DuplicateKey(util.LICENSE_ALREADY_REGISTERED)
	}
	stamp(nil, &d.UpdatedAt)
	return s.rows.replace(d.ID, *d, util.DOCTOR_NOT_FOUND)
}

type Patients struct {
	rows *table[models.Patient]
}

func (s *Patients) Create(_ context.Context, p *models.Patient) error {
	ensureID(&p.ID)
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.CurrentMedications == nil {
		p.CurrentMedications = []string{}
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []models.MedicalHistoryEntry{}
	}
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.rows.put(p.ID, *p)
	return nil
}

func (s *Patients) FindByID(_ context.Context, id primitive.ObjectID) (*models.Patient, error) {
	return s.rows.get(id, util.PATIENT_NOT_FOUND)
}

func (s *Patients) FindByUserID(_ context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	list := s.rows.filter(func(p *models.Patient) bool { return p.UserID == userID })
	if len(list) == 0 {
		return nil, util.NotFound(util.PATIENT_PROFILE_MISSING)
	}
	return &list[0], nil
}

func (s *Patients) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Patient, error) {
	return s.rows.byIDs(ids), nil
}

func (s *Patients) List(_ context.Context, f models.PatientFilter) ([]models.Patient, int64, error) {
	var list []models.Patient
	if f.IDs != nil {
		list = s.rows.byIDs(f.IDs)
	} else {
		list = s.rows.filter(func(*models.Patient) bool { return true })
	}
	newestFirst(list, func(p *models.Patient) time.Time { return p.CreatedAt })
	return paginate(list, f.Page), int64(len(list)), nil
}

func (s *Patients) Update(_ context.Context, p *models.Patient) error {
	stamp(nil, &p.UpdatedAt)
	return s.rows.replace(p.ID, *p, util.PATIENT_NOT_FOUND)
}

// Appointments enforces one slot-holding appointment per doctor, date and
// time under a single lock, like the partial unique index does in Mongo.
type Appointments struct {
	rows *table[models.Appointment]
}

func (s *Appointments) write(a *models.Appointment, mustExist bool) error {
	s.rows.mu.Lock()
	defer s.rows.mu.Unlock()
	if _, ok := s.rows.rows[a.ID]; mustExist && !ok {
		return util.NotFound(util.APPOINTMENT_NOT_FOUND)
	}
	a.SlotHeld = a.Status.HoldsSlot()
	if a.SlotHeld {
		for id, other := range s.rows.rows {
			if id != a.ID && other.SlotHeld && other.DoctorID == a.DoctorID && other.Date == a.Date && other.Time == a.Time {
				return util.SlotConflict(util.SLOT_ALREADY_BOOKED)
			}
		}
	}
	s.rows.rows[a.ID] = *a
	return nil
}

func (s *Appointments) Create(_ context.Context, a *models.Appointment) error {
	ensureID(&a.ID)
	if a.Symptoms == nil {
		a.Symptoms = []string{}
	}
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return s.write(a, false)
}

func (s *Appointments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return s.rows.get(id, util.APPOINTMENT_NOT_FOUND)
}

func (s *Appointments) FindActive(_ context.Context, doctorID primitive.ObjectID, date, hhmm string) (*models.Appointment, error) {
	list := s.rows.filter(func(a *models.Appointment) bool {
		return a.DoctorID == doctorID && a.Date == date && a.Time == hhmm && a.Status.HoldsSlot()
	})
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (s *Appointments) List(_ context.Context, f models.AppointmentFilter) ([]models.Appointment, int64, error) {
	list := s.rows.filter(func(a *models.Appointment) bool {
		return sameID(f.PatientID, a.PatientID) && sameID(f.DoctorID, a.DoctorID) &&
			(f.Status == "" || a.Status == f.Status) && (f.Date == "" || a.Date == f.Date)
	})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].Time > list[j].Time
	})
	return paginate(list, f.Page), int64(len(list)), nil
}

func (s *Appointments) Update(_ context.Context, a *models.Appointment) error {
	stamp(nil, &a.UpdatedAt)
	return s.write(a, true)
}

func (s *Appointments) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.APPOINTMENT_NOT_FOUND)
}

func (s *Appointments) HasPatientWithDoctor(_ context.Context, patientID, doctorID primitive.ObjectID) (bool, error) {
	list := s.rows.filter(func(a *models.Appointment) bool { return a.PatientID == patientID && a.DoctorID == doctorID })
	return len(list) > 0, nil
}

func (s *Appointments) PatientIDsForDoctor(_ context.Context, doctorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := make([]primitive.ObjectID, 0)
	for _, a := range s.rows.filter(func(a *models.Appointment) bool { return a.DoctorID == doctorID }) {
		if !seen[a.PatientID] {
			seen[a.PatientID] = true
			ids = append(ids, a.PatientID)
		}
	}
	return ids, nil
}

func (s *Appointments) BookedTimes(_ context.Context, doctorID primitive.ObjectID, date string) ([]string, error) {
	times := make([]string, 0)
	for _, a := range s.rows.filter(func(a *models.Appointment) bool {
		return a.DoctorID == doctorID && a.Date == date && a.SlotHeld
	}) {
		times = append(times, a.Time)
	}
	return times, nil
}

func (s *Appointments) FindHeldOn(_ context.Context, date string) ([]models.Appointment, error) {
	return s.rows.filter(func(a *models.Appointment) bool { return a.Date == date && a.SlotHeld }), nil
}

func (s *Appointments) MarkNoShow(_ context.Context, before string) (int64, error) {
	s.rows.mu.Lock()
	defer s.rows.mu.Unlock()
	var n int64
	for id, a := range s.rows.rows {
		if a.SlotHeld && a.Date < before {
			a.SetStatus(models.AppointmentNoShow)
			a.UpdatedAt = now()
			s.rows.rows[id] = a
			n++
		}
	}
	return n, nil
}

func inRange(date, from, to string) bool {
	return (from == "" || date >= from) && (to == "" || date <= to)
}

func (s *Appointments) CountByStatus(_ context.Context, from, to string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, a := range s.rows.filter(func(a *models.Appointment) bool { return inRange(a.Date, from, to) }) {
		out[string(a.Status)]++
	}
	return out, nil
}

func (s *Appointments) CountByDepartment(_ context.Context, from, to string) ([]models.DepartmentCount, error) {
	counts := map[string]int64{}
	for _, a := range s.rows.filter(func(a *models.Appointment) bool { return inRange(a.Date, from, to) }) {
		counts[a.Department]++
	}
	out := make([]models.DepartmentCount, 0, len(counts))
	for dept, n := range counts {
		out = append(out, models.DepartmentCount{Department: dept, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Department < out[j].Department
	})
	return out, nil
}

func (s *Appointments) CountOn(_ context.Context, date string) (int64, error) {
	return int64(len(s.rows.filter(func(a *models.Appointment) bool { return a.Date == date }))), nil
}

type Prescriptions struct {
	rows *table[models.Prescription]
}

func (s *Prescriptions) Create(_ context.Context, p *models.Prescription) error {
	ensureID(&p.ID)
	stamp(&p.CreatedAt, &p.UpdatedAt)
	s.rows.put(p.ID, *p)
	return nil
}

func (s *Prescriptions) FindByID(_ context.Context, id primitive.ObjectID) (*models.Prescription, error) {
	return s.rows.get(id, util.PRESCRIPTION_NOT_FOUND)
}

func (s *Prescriptions) List(_ context.Context, f models.PrescriptionFilter) ([]models.Prescription, int64, error) {
	list := s.rows.filter(func(p *models.Prescription) bool {
		return sameID(f.PatientID, p.PatientID) && sameID(f.DoctorID, p.DoctorID) && (f.Status == "" || p.Status == f.Status)
	})
	newestFirst(list, func(p *models.Prescription) time.Time { return p.CreatedAt })
	return paginate(list, f.Page), int64(len(list)), nil
}

func (s *Prescriptions) Update(_ context.Context, p *models.Prescription) error {
	stamp(nil, &p.UpdatedAt)
	return s.rows.replace(p.ID, *p, util.PRESCRIPTION_NOT_FOUND)
}

func (s *Prescriptions) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.PRESCRIPTION_NOT_FOUND)
}

type MedicalRecords struct {
	rows *table[models.MedicalRecord]
}

func (s *MedicalRecords) Create(_ context.Context, r *models.MedicalRecord) error {
	ensureID(&r.ID)
	stamp(&r.CreatedAt, &r.UpdatedAt)
	s.rows.put(r.ID, *r)
	return nil
}

func (s *MedicalRecords) FindByID(_ context.Context, id primitive.ObjectID) (*models.MedicalRecord, error) {
	return s.rows.get(id, util.MEDICAL_RECORD_NOT_FOUND)
}

func (s *MedicalRecords) List(_ context.Context, f models.MedicalRecordFilter) ([]models.MedicalRecord, int64, error) {
	list := s.rows.filter(func(r *models.MedicalRecord) bool {
		return sameID(f.PatientID, r.PatientID) && sameID(f.DoctorID, r.DoctorID) && (f.Status == "" || r.Status == f.Status)
	})
	newestFirst(list, func(r *models.MedicalRecord) time.Time { return r.CreatedAt })
	return paginate(list, f.Page), int64(len(list)), nil
}

func (s *MedicalRecords) Update(_ context.Context, r *models.MedicalRecord) error {
	stamp(nil, &r.UpdatedAt)
	return s.rows.replace(r.ID, *r, util.MEDICAL_RECORD_NOT_FOUND)
}

func (s *MedicalRecords) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.MEDICAL_RECORD_NOT_FOUND)
}

type Invoices struct {
	rows *table[models.Invoice]
}

func (s *Invoices) Create(_ context.Context, inv *models.Invoice) error {
	ensureID(&inv.ID)
	if len(s.rows.filter(func(o *models.Invoice) bool { return o.InvoiceNumber == inv.InvoiceNumber })) > 0 {
		return util.DuplicateKey("Invoice number already exists")
	}
	stamp(&inv.CreatedAt, &inv.UpdatedAt)
	s.rows.put(inv.ID, *inv)
	return nil
}

func (s *Invoices) FindByID(_ context.Context, id primitive.ObjectID) (*models.Invoice, error) {
	return s.rows.get(id, util.INVOICE_NOT_FOUND)
}

func (s *Invoices) List(_ context.Context, f models.InvoiceFilter) ([]models.Invoice, int64, error) {
	list := s.rows.filter(func(inv *models.Invoice) bool {
		return sameID(f.PatientID, inv.PatientID) && (f.PaymentStatus == "" || inv.PaymentStatus == f.PaymentStatus)
	})
	newestFirst(list, func(inv *models.Invoice) time.Time { return inv.CreatedAt })
	return paginate(list, f.Page), int64(len(list)), nil
}

func (s *Invoices) Update(_ context.Context, inv *models.Invoice) error {
	stamp(nil, &inv.UpdatedAt)
	return s.rows.replace(inv.ID, *inv, util.INVOICE_NOT_FOUND)
}

func (s *Invoices) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.INVOICE_NOT_FOUND)
}

func (s *Invoices) MarkOverdue(_ context.Context, at time.Time) (int64, error) {
	s.rows.mu.Lock()
	defer s.rows.mu.Unlock()
	var n int64
	for id, inv := range s.rows.rows {
		open := inv.PaymentStatus == models.PaymentPending || inv.PaymentStatus == models.PaymentPartial
		if open && inv.DueDate != nil && inv.DueDate.Before(at) {
			inv.PaymentStatus = models.PaymentOverdue
			inv.UpdatedAt = now()
			s.rows.rows[id] = inv
			n++
		}
	}
	return n, nil
}

func (s *Invoices) Revenue(_ context.Context) (float64, error) {
	total := 0.0
	for _, inv := range s.rows.filter(func(inv *models.Invoice) bool { return inv.PaymentStatus == models.PaymentPaid }) {
		total += inv.TotalAmount
	}
	return total, nil
}

func (s *Invoices) CountOutstanding(_ context.Context) (int64, error) {
	list := s.rows.filter(func(inv *models.Invoice) bool {
		switch inv.PaymentStatus {
		case models.PaymentPending, models.PaymentPartial, models.PaymentOverdue:
			return true
		}
		return false
	})
	return int64(len(list)), nil
}

type Counters struct {
	mu  sync.Mutex
	seq map[string]int64
}

func (s *Counters) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[name]++
	return s.seq[name], nil
}

type Messages struct {
	rows *table[models.Message]
}

func (s *Messages) Create(_ context.Context, m *models.Message) error {
	ensureID(&m.ID)
	stamp(&m.CreatedAt, &m.UpdatedAt)
	s.rows.put(m.ID, *m)
	return nil
}

func (s *Messages) FindByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	return s.rows.get(id, util.MESSAGE_NOT_FOUND)
}

func (s *Messages) page(keep func(*models.Message) bool, p models.Page) ([]models.Message, int64, error) {
	list := s.rows.filter(keep)
	newestFirst(list, func(m *models.Message) time.Time { return m.CreatedAt })
	return paginate(list, p), int64(len(list)), nil
}

func (s *Messages) Inbox(_ context.Context, userID primitive.ObjectID, p models.Page) ([]models.Message, int64, error) {
	return s.page(func(m *models.Message) bool { return m.IsBroadcast() || m.IsRecipient(userID) }, p)
}

func (s *Messages) Sent(_ context.Context, userID primitive.ObjectID, p models.Page) ([]models.Message, int64, error) {
	return s.page(func(m *models.Message) bool { return m.SenderID == userID }, p)
}

func (s *Messages) CountUnread(_ context.Context, userID primitive.ObjectID) (int64, error) {
	list := s.rows.filter(func(m *models.Message) bool {
		return m.IsRecipient(userID) && (m.Status == models.MessageSent || m.Status == models.MessageDelivered)
	})
	return int64(len(list)), nil
}

func (s *Messages) Update(_ context.Context, m *models.Message) error {
	stamp(nil, &m.UpdatedAt)
	return s.rows.replace(m.ID, *m, util.MESSAGE_NOT_FOUND)
}

func (s *Messages) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.MESSAGE_NOT_FOUND)
}

type Departments struct {
	rows *table[models.Department]
}

func (s *Departments) Create(_ context.Context, d *models.Department) error {
	ensureID(&d.ID)
	if len(s.rows.filter(func(o *models.Department) bool { return strings.EqualFold(o.Name, d.Name) })) > 0 {
		return util.DuplicateKey(util.DEPARTMENT_NAME_EXISTS)
	}
	stamp(&d.CreatedAt, &d.UpdatedAt)
	s.rows.put(d.ID, *d)
	return nil
}

func (s *Departments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Department, error) {
	return s.rows.get(id, util.DEPARTMENT_NOT_FOUND)
}

func (s *Departments) List(_ context.Context) ([]models.Department, error) {
	list := s.rows.filter(func(*models.Department) bool { return true })
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (s *Departments) Update(_ context.Context, d *models.Department) error {
	stamp(nil, &d.UpdatedAt)
	return s.rows.replace(d.ID, *d, util.DEPARTMENT_NOT_FOUND)
}

func (s *Departments) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.rows.remove(id, util.DEPARTMENT_NOT_FOUND)
}
