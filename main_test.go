package main

import (
	"bytes"
	"context"
	"encoding/json"
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
	"HospitalCare/store/memstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func memRepositories(s *memstore.Store) repositories {
	return repositories{
		Users:          s.Users,
		Doctors:        s.Doctors,
		Patients:       s.Patients,
		Appointments:   s.Appointments,
		Prescriptions:  s.Prescriptions,
		MedicalRecords: s.MedicalRecords,
		Invoices:       s.Invoices,
		Messages:       s.Messages,
		Departments:    s.Departments,
		Counters:       s.Counters,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		App:       config.AppConfig{Name: "hospitalcare", Environment: "test"},
		JWT:       config.JWTConfig{Secret: "main-test-secret-main-test-secret", TTL: time.Hour, Issuer: "hospitalcare"},
		Redis:     config.RedisConfig{CacheTTL: time.Minute},
		RateLimit: config.RateLimitConfig{AuthRequestsPerMinute: 600, AuthBurst: 50},
		Auth:      config.AuthConfig{MaxFailedLogins: 5, LockoutWindow: 15 * time.Minute},
		Jobs:      config.JobsConfig{Enabled: true, ReminderSchedule: "0 8 * * *", OverdueSchedule: "15 0 * * *", NoShowSchedule: "5 0 * * *"},
	}
}

func TestRootCommands(t *testing.T) {
	root := rootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["bootstrap-admin"])

	migrate, _, err := root.Find([]string{"migrate", "list"})
	require.NoError(t, err)
	assert.Equal(t, "list", migrate.Name())

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	flag := serve.Flags().Lookup("migrate")
	require.NotNil(t, flag)
	assert.Equal(t, "true", flag.DefValue)
}

func TestApplicationWiring(t *testing.T) {
	cfg := testConfig()
	app, err := newApplication(cfg, memRepositories(memstore.New()), cache.Noop{}, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, app.scheduler.Register(cfg.Jobs))
	app.scheduler.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		app.shutdown(ctx)
	}()

	call := func(method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/healthz", "", nil).Code)

	w := call(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Ada", "email": "ada@hospital.test", "password": "Secret#42"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@hospital.test", "password": "Secret#42"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.Token)

	assert.Equal(t, http.StatusOK, call(http.MethodGet, "/api/auth/me", login.Data.Token, nil).Code)

	metrics := call(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "hospital_")
}
