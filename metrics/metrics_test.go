package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("hospital")
	b := NewCollector("hospital")

	a.SlotConflict()
	a.SlotConflict()
	b.SlotConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.SlotConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.SlotConflicts))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.SlotConflict()
		c.AppointmentBooked("Cardiology")
		c.LoginFailed("password")
		c.JobRan("reminders", nil)
	})
}

func TestRecordingHelpers(t *testing.T) {
	c := NewCollector("hospital")
	c.AppointmentBooked("")
	c.JobRan("overdue", errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.AppointmentsBooked.WithLabelValues("unassigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.JobRuns.WithLabelValues("overdue", "error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	c := NewCollector("hospital")
	c.SlotConflict()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hospital_scheduling_slot_conflicts_total 1")
}
