package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"HospitalCare/cache"
	"HospitalCare/config"
	"HospitalCare/controllers"
	"HospitalCare/routes"
	"HospitalCare/services"
	"HospitalCare/store/memstore"
	"HospitalCare/token"
	"HospitalCare/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *util.ErrorBody `json:"error"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T, db controllers.Pinger) *api {
	t.Helper()
	log := zaptest.NewLogger(t)
	s := memstore.New()
	tokens := token.NewManager(config.JWTConfig{Secret: "controller-test-secret-controller-test", TTL: time.Hour, Issuer: "hospitalcare"})
	guard := services.NewLoginGuard(cache.Noop{}, config.AuthConfig{}, log)

	svc := routes.Services{
		Auth:           services.NewAuthService(s.Users, s.Doctors, s.Patients, tokens, guard, cache.Noop{}, nil, nil, log).WithHashCost(4),
		Appointments:   services.NewAppointmentService(s.Appointments, s.Doctors, s.Patients, s.Users, nil, nil, log),
		Doctors:        services.NewDoctorService(s.Doctors, s.Users, cache.Noop{}, time.Minute, log),
		Patients:       services.NewPatientService(s.Patients, s.Users, s.Appointments, log),
		Departments:    services.NewDepartmentService(s.Departments, s.Doctors, cache.Noop{}, time.Minute, log),
		Prescriptions:  services.NewPrescriptionService(s.Prescriptions, s.Patients, s.Appointments, log),
		MedicalRecords: services.NewMedicalRecordService(s.MedicalRecords, s.Patients, s.Appointments, log),
		Invoices:       services.NewInvoiceService(s.Invoices, s.Counters, s.Patients, log),
		Messages:       services.NewMessageService(s.Messages, s.Users, log),
		Admin:          services.NewAdminService(s.Users, s.Appointments, s.Invoices, cache.Noop{}, log),
	}
	router, err := routes.New(svc, routes.Options{Tokens: tokens, Database: db, Log: log})
	require.NoError(t, err)
	return &api{t: t, router: router}
}

func (a *api) do(method, path, bearer string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (a *api) register(body gin.H) session {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/register", "", body)
	require.Equal(a.t, http.StatusCreated, code, env.Error)
	var s session
	require.NoError(a.t, json.Unmarshal(env.Data, &s))
	return s
}

const password = "Secret#42"

func TestBookingOverHTTP(t *testing.T) {
	a := newAPI(t, nil)

	code, env := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Nia", "password": password})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, util.KindValidation, env.Error.Type)
	assert.Equal(t, "email is required", env.Error.Message)

	pat := a.register(gin.H{"name": "Nia", "email": "nia@hospital.test", "password": password})
	assert.Equal(t, "patient", pat.User.Role)
	doc := a.register(gin.H{
		"name": "Dr Lee", "email": "lee@hospital.test", "password": password, "role": "doctor",
		"specialization": "Cardiology", "licenseNumber": "LIC-9", "experience": 8, "department": "Cardiology",
	})

	code, env = a.do(http.MethodGet, "/api/doctors", "", nil)
	require.Equal(t, http.StatusOK, code)
	var doctors []struct {
		ID         string `json:"id"`
		Department string `json:"department"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doctors))
	require.Len(t, doctors, 1)
	doctorID := doctors[0].ID

	code, env = a.do(http.MethodGet, "/api/doctors/"+doctorID+"/slots?date=2024-06-03", "", nil)
	require.Equal(t, http.StatusOK, code)
	var slots []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &slots))
	assert.Len(t, slots, 16)

	booking := gin.H{"doctorId": doctorID, "appointmentDate": "2024-06-03", "appointmentTime": "25:00", "reason": "chest pain"}
	code, env = a.do(http.MethodPost, "/api/appointments", pat.Token, booking)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, util.INVALID_TIME, env.Error.Message)

	booking["appointmentTime"] = "10:00"
	code, _ = a.do(http.MethodPost, "/api/appointments", "", booking)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = a.do(http.MethodPost, "/api/appointments", pat.Token, booking)
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = a.do(http.MethodPost, "/api/appointments", pat.Token, booking)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, util.KindSlotConflict, env.Error.Type)

	code, env = a.do(http.MethodGet, "/api/appointments", doc.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)

	code, env = a.do(http.MethodPost, "/api/invoices", pat.Token, gin.H{"patientId": doctorID})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, util.ROLE_NOT_PERMITTED, env.Error.Message)
}

func TestAdminOverHTTP(t *testing.T) {
	a := newAPI(t, nil)
	pat := a.register(gin.H{"name": "Omar", "email": "omar@hospital.test", "password": password})

	code, _ := a.do(http.MethodGet, "/api/admin/stats", pat.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Eve", "email": "eve@hospital.test", "password": password, "role": "admin"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, util.ADMIN_REGISTRATION_BLOCKED, env.Error.Message)

	admin := gin.H{"name": "Root", "email": "root@hospital.test", "password": password}
	code, _ = a.do(http.MethodPost, "/api/auth/bootstrap-admin", "", admin)
	require.Equal(t, http.StatusCreated, code)
	code, env = a.do(http.MethodPost, "/api/auth/bootstrap-admin", "", admin)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"`+util.ADMIN_ALREADY_EXISTS+`"}`, string(env.Data))

	code, env = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "root@hospital.test", "password": password})
	require.Equal(t, http.StatusOK, code)
	var s session
	require.NoError(t, json.Unmarshal(env.Data, &s))

	code, env = a.do(http.MethodGet, "/api/admin/stats", s.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Contains(t, stats, "usersByRole")

	code, _ = a.do(http.MethodPut, "/api/admin/users/"+pat.User.ID+"/status", s.Token, gin.H{"status": "Suspended"})
	require.Equal(t, http.StatusOK, code)
	code, env = a.do(http.MethodGet, "/api/auth/me", pat.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, util.ACCOUNT_DEACTIVATED, env.Error.Message)

	code, _ = a.do(http.MethodGet, "/api/analytics/appointments?from=2024-01-01", s.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMessagesOverHTTP(t *testing.T) {
	a := newAPI(t, nil)
	alice := a.register(gin.H{"name": "Alice", "email": "alice@hospital.test", "password": password})
	bob := a.register(gin.H{"name": "Bob", "email": "bob@hospital.test", "password": password})

	code, env := a.do(http.MethodPost, "/api/messages", alice.Token, gin.H{"recipientId": bob.User.ID, "subject": "Hi", "content": "Lunch?"})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = a.do(http.MethodGet, "/api/messages/unread-count", bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"unread":1}`, string(env.Data))

	code, env = a.do(http.MethodGet, "/api/messages/not-an-id", bob.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, util.KindValidation, env.Error.Type)
}

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	code, _ := newAPI(t, nil).do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	newAPI(t, downDB{}).router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","database":"down"}`, w.Body.String())
}

func TestPaidInvoiceOverHTTP(t *testing.T) {
	a := newAPI(t, nil)
	pat := a.register(gin.H{"name": "Paz", "email": "paz@hospital.test", "password": password})
	admin := gin.H{"name": "Root", "email": "root@hospital.test", "password": password}
	code, _ := a.do(http.MethodPost, "/api/auth/bootstrap-admin", "", admin)
	require.Equal(t, http.StatusCreated, code)
	code, env := a.do(http.MethodPost, "/api/auth/login", "", admin)
	require.Equal(t, http.StatusOK, code)
	var s session
	require.NoError(t, json.Unmarshal(env.Data, &s))

	code, env = a.do(http.MethodGet, "/api/patients/me", pat.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var profile struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))

	code, env = a.do(http.MethodPost, "/api/invoices", s.Token, gin.H{
		"patientId": profile.ID,
		"items":     []gin.H{{"description": "Consultation", "quantity": 1, "unitPrice": 50}},
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	var inv struct {
		ID          string  `json:"id"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &inv))

	code, env = a.do(http.MethodPost, "/api/invoices/"+inv.ID+"/payments", s.Token, gin.H{"amount": inv.TotalAmount})
	require.Equal(t, http.StatusOK, code, env.Error)

	for name, body := range map[string]gin.H{
		"notes only":      {"notes": "late fee"},
		"malformed items": {"items": []gin.H{{"quantity": 0}}},
	} {
		code, env = a.do(http.MethodPut, "/api/invoices/"+inv.ID, s.Token, body)
		assert.Equal(t, http.StatusBadRequest, code, name)
		require.NotNil(t, env.Error, name)
		assert.Equal(t, util.INVOICE_PAID_UPDATE, env.Error.Message, name)
	}
}
