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

func TestRecordBusinessMetrics(t *testing.T) {
	m := New(DefaultConfig("warehouse-ops"))

	m.RecordPickTaskTransition("in_progress")
	m.RecordPickTaskTransition("in_progress")
	m.RecordScanMismatch("location")
	m.SetPickTasksOverdue(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PickTaskTransitions.WithLabelValues("warehouse-ops", "in_progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScanMismatches.WithLabelValues("warehouse-ops", "location")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PickTasksOverdue))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(DefaultConfig("warehouse-ops"))
	m.RecordHTTPRequest(http.MethodGet, "/api/warehouse/pick-tasks", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "wms_http_requests_total"))
}
