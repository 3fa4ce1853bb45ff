package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SalaryCalculated(10 * time.Millisecond)
	m.SalaryCalculated(20 * time.Millisecond)
	m.ConfigurationGap("TRANSPORT")
	m.Transition("salary", "approve")
	m.TransitionRejected("salary", "mark_paid", "draft")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.salariesCalculated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.configurationGaps.WithLabelValues("TRANSPORT")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transitions.WithLabelValues("salary", "approve")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.rejectedTransitions.WithLabelValues("salary", "mark_paid", "draft")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SalaryCalculated(time.Second)
		m.ConfigurationGap("X")
		m.Transition("payroll", "approve")
		m.TransitionRejected("payroll", "approve", "paid")
		m.PayrollCalculated(3)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PayrollCalculated(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "salary_engine_payroll_employees_count 1"))
}
