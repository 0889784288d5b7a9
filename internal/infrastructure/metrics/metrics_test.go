package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/products", "200"))
	ObserveRequest("get", "/api/v1/products", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/products", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordMovement(t *testing.T) {
	RecordMovement("out", false)
	assert.GreaterOrEqual(t, testutil.ToFloat64(stockMovements.WithLabelValues("out", "rejected")), 1.0)
}

func TestRequestStarted(t *testing.T) {
	base := testutil.ToFloat64(httpInFlight)
	done := RequestStarted()
	assert.Equal(t, base+1, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, base, testutil.ToFloat64(httpInFlight))
}

func TestHandler(t *testing.T) {
	RecordJobRun("low_stock_scan", 0, true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "pms_jobs_runs_total")
}
