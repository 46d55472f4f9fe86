package request

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
}

// NewMetrics registers the latency histogram with reg. Each binary passes its
// own registry so tests can build as many instances as they like.
func NewMetrics(reg prometheus.Registerer, service string) *Metrics {
	m := &Metrics{
		EndpointLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "storefront_endpoint_latency_seconds",
			Help:        "Latency of endpoints in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{"service": service},
		}, []string{"endpoint"}),
	}
	if reg != nil {
		reg.MustRegister(m.EndpointLatency)
	}
	return m
}

func (m *Metrics) ObserveEndpointLatency(endpoint string, durationSeconds float64) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(durationSeconds)
}
