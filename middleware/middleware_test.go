package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"

	"HospitalCare/metrics"
	"HospitalCare/models"
	"HospitalCare/policy"
	"HospitalCare/role"
	"HospitalCare/token"
	"HospitalCare/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser map[string]primitive.ObjectID

func (s stubParser) Parse(raw string) (primitive.ObjectID, error) {
	if raw == "expired" {
		return primitive.NilObjectID, token.ErrExpired
	}
	id, ok := s[raw]
	if !ok {
		return primitive.NilObjectID, errors.New("bad signature")
	}
	return id, nil
}

type stubResolver map[primitive.ObjectID]*policy.Principal

func (s stubResolver) Resolve(_ context.Context, id primitive.ObjectID) (*policy.Principal, error) {
	p, ok := s[id]
	if !ok {
		return nil, util.Unauthorized(util.USER_NOT_FOUND)
	}
	return p, nil
}

func principal(r role.Role) *policy.Principal {
	return &policy.Principal{User: &models.User{ID: primitive.NewObjectID(), Name: string(r), Role: r, Active: true}}
}

type envelope struct {
	Status string `json:"status"`
	Error  struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	nurse := principal(role.Nurse)
	ghost := primitive.NewObjectID()
	parser := stubParser{"good": nurse.UserID(), "ghost": ghost}
	resolver := stubResolver{nurse.UserID(): nurse}

	r := gin.New()
	r.Use(RequestIDs())
	r.GET("/me", Authenticate(parser, resolver, zaptest.NewLogger(t)), func(c *gin.Context) {
		c.String(http.StatusOK, Principal(c).User.Name)
	})

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, util.AUTHORIZATION_HEADER_MISSING},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, util.AUTHORIZATION_HEADER_MISSING},
		{"bad token", "Bearer forged", http.StatusUnauthorized, util.INVALID_TOKEN},
		{"expired token", "Bearer expired", http.StatusUnauthorized, util.INVALID_TOKEN},
		{"deleted user", "Bearer ghost", http.StatusUnauthorized, util.USER_NOT_FOUND},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			assert.Equal(t, util.StatusFailed, env.Status)
			assert.Equal(t, string(util.KindUnauthorized), env.Error.Type)
			assert.Equal(t, tt.msg, env.Error.Message)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nurse", w.Body.String())
}

func TestAuthorize(t *testing.T) {
	callers := map[string]*policy.Principal{
		"patient":      principal(role.Patient),
		"receptionist": principal(role.Receptionist),
		"admin":        principal(role.Admin),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if p, ok := callers[c.GetHeader("X-Caller")]; ok {
			SetPrincipal(c, p)
		}
		c.Next()
	})
	r.POST("/invoices", Authorize(policy.Invoice, policy.Create), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	tests := []struct {
		caller string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"patient", http.StatusForbidden},
		{"receptionist", http.StatusCreated},
		{"admin", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.caller, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/invoices", nil)
			req.Header.Set("X-Caller", tt.caller)
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, util.ROLE_NOT_PERMITTED, decode(t, w).Error.Message)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(60, 2)
	r := gin.New()
	r.POST("/login", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	open := gin.New()
	open.GET("/", RateLimit(nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(open, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestSweepDropsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(60, 5)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	now = now.Add(9 * time.Minute)
	limiter.Allow("b")
	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, limiter.Sweep())
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "b")
}

func TestRequestIDs(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDs())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

func TestRecoveryAndMetrics(t *testing.T) {
	m := metrics.NewCollector("test")
	r := gin.New()
	r.Use(RequestIDs(), Logger(zaptest.NewLogger(t)), Metrics(m), Recovery(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, string(util.KindServer), decode(t, w).Error.Type)

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/boom", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}
