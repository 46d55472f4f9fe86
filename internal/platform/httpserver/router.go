package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/platform/health"
	"storefront/pkg/platform/middleware/metadata"
	"storefront/pkg/platform/middleware/request"
	"storefront/pkg/platform/middleware/requesttime"
)

// RouterConfig describes the middleware chain shared by every binary.
type RouterConfig struct {
	Service        string
	Logger         *slog.Logger
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	TrustedProxies []netip.Prefix
	// Gatherer backs GET /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
	Latency  *request.Metrics
	Health   *health.Handler
}

// NewRouter returns a chi router with recovery, request IDs, client address
// resolution, the request clock, access logging, JSON content-type and body-size guards, latency
// metrics and a per-request timeout, plus /health* and /metrics.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.ClientIP(cfg.TrustedProxies))
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.ContentTypeJSON)
	r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	r.Use(request.LatencyMiddleware(cfg.Latency))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Port extracts the port from a listen address such as ":8081".
func Port(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
