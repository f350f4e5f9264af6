package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.TokenIssued("USER")
	m.TokenIssued("USER")
	m.TokenRejected("expired")
	m.AccessDecision("user_data", true)
	m.AccessDecision("user_data", false)
	m.AccessDecision("user_data", false)
	m.LoginAttempt("success")

	assert.Equal(t, 2.0, counterValue(t, m, "expense_tracker_tokens_issued_total", "USER"))
	assert.Equal(t, 1.0, counterValue(t, m, "expense_tracker_tokens_rejected_total", "expired"))
	assert.Equal(t, 1.0, counterValue(t, m, "expense_tracker_access_decisions_total", "user_data", "allowed"))
	assert.Equal(t, 2.0, counterValue(t, m, "expense_tracker_access_decisions_total", "user_data", "denied"))
	assert.Equal(t, 1.0, counterValue(t, m, "expense_tracker_login_attempts_total", "success"))
}

// counterValue finds the counter whose label values equal labels, in order.
func counterValue(t *testing.T, m *Metrics, name string, labels ...string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			pairs := metric.GetLabel()
			if len(pairs) != len(labels) {
				continue
			}
			match := true
			for i, pair := range pairs {
				if pair.GetValue() != labels[i] {
					match = false
					break
				}
			}
			if match {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.TokenIssued("USER")
		m.TokenRejected("expired")
		m.AccessDecision("admin", false)
		m.LoginAttempt("failure")
		m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.ObserveHTTPRequest(http.MethodGet, "/.well-known/jwks.json", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `expense_tracker_http_requests_total{method="GET",route="/.well-known/jwks.json",status="200"} 1`)
}
