package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpload(t *testing.T) {
	m := New()

	m.RecordUpload(OutcomeLoaded, 120)
	m.RecordUpload(OutcomeLoaded, 3)
	m.RecordUpload(OutcomeRejected, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeLoaded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.uploadRows))
}

func TestRecordReportAndSessions(t *testing.T) {
	m := New()

	m.RecordReport(true)
	m.RecordReport(false)
	m.RecordReport(true)
	m.SetActiveSessions(4)
	m.ObserveDashboardBuild(15 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reports.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reports.WithLabelValues("failure")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeSessions))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.RecordUpload(OutcomeLoaded, 10)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `edalens_uploads_total{outcome="loaded"} 1`)
	assert.Contains(t, body, "edalens_active_sessions 0")
	assert.Contains(t, body, "go_goroutines")
}
