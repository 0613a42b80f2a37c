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

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.SourceAttempt("caption-scrape", "success")
	m.SourceAttempt("caption-scrape", "success")
	m.SourceAttempt("official-key", "forbidden")
	m.Summary(true)
	m.WebhookEvent("checkout.session.completed", "replayed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sourceAttempts.WithLabelValues("caption-scrape", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceAttempts.WithLabelValues("official-key", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.summaries.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("checkout.session.completed", "replayed")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodPost, "/api/summarize", http.StatusOK, 120*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `video_digest_http_request_duration_seconds_count{method="POST",route="/api/summarize",status="200"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SourceAttempt("audio", "disabled")
		m.Summary(false)
		m.WebhookEvent("x", "ok")
		m.ObserveHTTP("GET", "/", 200, time.Second)
	})
}
