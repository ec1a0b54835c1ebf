package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NewTwiceDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		New("smc_appointments")
		New("smc_appointments")
	})
}

func TestMetrics_RecordBookingOperation(t *testing.T) {
	m := New("smc_appointments")

	m.RecordBookingOperation("create", "created")
	m.RecordBookingOperation("create", "created")
	m.RecordBookingOperation("create", "slot_unavailable")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOperations.WithLabelValues("create", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOperations.WithLabelValues("create", "slot_unavailable")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordBookingOperation("create", "created")
		m.ObserveSlotsReturned(3)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New("smc_appointments")
	m.ObserveSlotsReturned(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "smc_appointments_available_slots_returned")
}
