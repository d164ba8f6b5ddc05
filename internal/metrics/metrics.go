package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы вызова шлюза.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeTransport  = "transport"
	OutcomeHTTP       = "http"
	OutcomeDecode     = "decode"
)

type GatewayMetrics struct {
	Calls     *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_console",
		Subsystem: "gateway",
		Name:      "calls_total",
		Help:      "Console actions by outcome.",
	}, []string{"action", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "order_console",
		Subsystem: "gateway",
		Name:      "call_duration_ms",
		Help:      "Order API call latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"action"})

	if reg != nil {
		reg.MustRegister(calls, latency)
	}
	return &GatewayMetrics{Calls: calls, LatencyMS: latency}
}

// Observe records one action. Validation failures never reach the network,
// so no latency sample is taken for them. Nil receiver is a no-op.
func (m *GatewayMetrics) Observe(action, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(action, outcome).Inc()
	if outcome != OutcomeValidation {
		m.LatencyMS.WithLabelValues(action).Observe(float64(d) / float64(time.Millisecond))
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
