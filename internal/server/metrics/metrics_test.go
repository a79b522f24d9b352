package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Decision(t *testing.T) {
	m := New()
	m.Decision("fetch", "allowed")
	m.Decision("fetch", "allowed")
	m.Decision("fetch", "credential_mismatch")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("fetch", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("fetch", "credential_mismatch")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Decision("x", "y")
		m.StorageError("read")
		m.ObserveRequest("/", "GET", "200", time.Millisecond)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.StorageError("write")
	m.ObserveRequest("/download/{linkId}", "GET", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sharebox_storage_errors_total{op="write"} 1`)
	assert.Contains(t, string(body), `sharebox_http_requests_total{code="200",method="GET",route="/download/{linkId}"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
