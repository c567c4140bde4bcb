package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums a gathered counter family, optionally filtered by one label value
func counterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()
	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if label != "" {
				matched := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == label && lp.GetValue() == value {
						matched = true
					}
				}
				if !matched {
					continue
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordAnalysis(t *testing.T) {
	InitRegistry()
	before := counterValue(t, "v75_value_analyses_total", "outcome", "fallback")

	RecordAnalysis("fallback", 1.5)

	assert.Equal(t, before+1, counterValue(t, "v75_value_analyses_total", "outcome", "fallback"))
}

func TestRecordRecovery(t *testing.T) {
	InitRegistry()
	beforeMethod := counterValue(t, "v75_value_recovery_outcomes_total", "method", "fragments")
	beforeNormalized := counterValue(t, "v75_value_recovery_normalizations_total", "", "")

	RecordRecovery("fragments", true, 2)
	RecordRecovery("fragments", false, 0)

	assert.Equal(t, beforeMethod+2, counterValue(t, "v75_value_recovery_outcomes_total", "method", "fragments"))
	assert.Equal(t, beforeNormalized+1, counterValue(t, "v75_value_recovery_normalizations_total", "", ""))
}

func TestRecordGeneratorRequest(t *testing.T) {
	InitRegistry()

	tests := []struct {
		source string
		status string
	}{
		{"api", "ok"},
		{"api", "error"},
		{"cache", "hit"},
	}

	for _, tt := range tests {
		t.Run(tt.source+"_"+tt.status, func(t *testing.T) {
			before := counterValue(t, "v75_value_generator_requests_total", "status", tt.status)
			assert.NotPanics(t, func() {
				RecordGeneratorRequest(tt.source, tt.status, 0.25)
			})
			assert.Equal(t, before+1, counterValue(t, "v75_value_generator_requests_total", "status", tt.status))
		})
	}
}

func TestGaugesDoNotPanic(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateCompositeScore("3", "7", 6.25)
		UpdateGeneratorCacheHitRatio(0.5)
		RecordComparisonRow("Overplayed")
	})
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordAnalysis("success", 0.2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "v75_value_analyses_total"))
	assert.True(t, strings.Contains(body, "v75_value_analysis_duration_seconds"))
}
