package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGatewayMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)

	m.Observe("track", OutcomeOK, 20*time.Millisecond)
	m.Observe("track", OutcomeHTTP, 5*time.Millisecond)
	m.Observe("track", OutcomeValidation, 0)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Calls.WithLabelValues("track", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Calls.WithLabelValues("track", OutcomeValidation)))
	require.Equal(t, 1, testutil.CollectAndCount(m.LatencyMS))
}

func TestGatewayMetrics_NilSafe(t *testing.T) {
	var m *GatewayMetrics
	require.NotPanics(t, func() { m.Observe("list", OutcomeOK, time.Second) })
}

func TestHandler_ExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGatewayMetrics(reg)
	m.Observe("register", OutcomeTransport, time.Millisecond)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	require.Contains(t, string(body), `order_console_gateway_calls_total{action="register",outcome="transport"} 1`)
}
