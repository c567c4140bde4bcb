package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) HealthCheck(ctx context.Context) error {
	return s.err
}

func serve(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := NewServer(Config{ServiceName: "v75-value", Version: "1.0.0"})
	s.MarkRun(time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC))

	rec := serve(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "v75-value", resp.Service)
	assert.Equal(t, "2026-03-07T12:00:00Z", resp.LastRun)
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		pinger     GeneratorPinger
		wantStatus int
		wantCheck  string
	}{
		{"not ready", false, nil, http.StatusServiceUnavailable, "not_ready"},
		{"ready without generator", true, nil, http.StatusOK, "ok"},
		{"ready with healthy generator", true, stubPinger{}, http.StatusOK, "ok"},
		{"generator down", true, stubPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "v75-value", Generator: tt.pinger})
			s.SetReady(tt.ready)

			rec := serve(t, s, "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCheck, resp.Checks["service"])
			if tt.pinger != nil && tt.wantStatus != http.StatusOK {
				assert.Contains(t, resp.Checks["generator"], "connection refused")
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})

	s := NewServer(Config{MetricsPath: "/custom", MetricsHandler: handler})
	assert.Equal(t, "metrics", serve(t, s, "/custom").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(t, s, "/metrics").Code)

	assert.Equal(t, http.StatusNotFound, serve(t, NewServer(Config{}), "/metrics").Code)
}
