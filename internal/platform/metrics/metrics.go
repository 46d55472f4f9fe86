package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginInvalidRequest     = "invalid_request"
	LoginError              = "error"
)

// Metrics holds all Prometheus metrics for the storefront binaries.
// Each binary only touches the series relevant to it.
type Metrics struct {
	UsersCreated        prometheus.Counter
	LoginAttempts       *prometheus.CounterVec
	AuthRejected        *prometheus.CounterVec
	OrdersCreated       prometheus.Counter
	OrderLookupDegraded *prometheus.CounterVec
	OrderLookupLatency  prometheus.Histogram
}

// New creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_users_created_total",
			Help: "Total number of users created",
		}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_login_attempts_total",
			Help: "Total number of login attempts, labeled by outcome",
		}, []string{"outcome"}),
		// Requests turned away by the gateway before reaching a backend.
		AuthRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_auth_rejected_total",
			Help: "Total number of requests rejected at the edge, labeled by reason",
		}, []string{"reason"}),
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders created",
		}),
		OrderLookupDegraded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_lookup_degraded_total",
			Help: "Total number of user lookups served without orders, labeled by reason",
		}, []string{"reason"}),
		OrderLookupLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_order_lookup_latency_seconds",
			Help:    "Latency of order-service lookups in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2, 5},
		}),
	}
}

// IncrementUsersCreated increments the users created counter by 1
func (m *Metrics) IncrementUsersCreated() {
	m.UsersCreated.Inc()
}

func (m *Metrics) IncrementLoginAttempt(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// IncAuthRejected satisfies auth.RejectionRecorder.
func (m *Metrics) IncAuthRejected(reason string) {
	m.AuthRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementOrdersCreated() {
	m.OrdersCreated.Inc()
}

func (m *Metrics) IncrementOrderLookupDegraded(reason string) {
	m.OrderLookupDegraded.WithLabelValues(reason).Inc()
}

// ObserveOrderLookupLatency records how long the peer call took, degraded or not.
func (m *Metrics) ObserveOrderLookupLatency(durationSeconds float64) {
	m.OrderLookupLatency.Observe(durationSeconds)
}
