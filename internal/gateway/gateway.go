// Package gateway is the single ingress: it checks bearer tokens at the edge
// and reverse-proxies by path prefix to user-service and order-service.
package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	dErrors "storefront/pkg/domain-errors"
	platformhttp "storefront/pkg/platform/httputil"
	"storefront/pkg/platform/middleware/auth"
	"storefront/pkg/requestcontext"
)

// Backend is one upstream service and the path prefix it owns.
type Backend struct {
	Name   string
	Prefix string
	URL    *url.URL
}

// OpenRoute is reachable without a bearer token.
type OpenRoute struct {
	Method string
	Path   string
	Prefix string
}

// DefaultOpenRoutes are the unauthenticated entry points: login, signup and health checks.
var DefaultOpenRoutes = []OpenRoute{
	{Method: http.MethodPost, Path: "/user-service/login", Prefix: "/user-service"},
	{Method: http.MethodPost, Path: "/user-service/users", Prefix: "/user-service"},
	{Method: http.MethodGet, Path: "/user-service/health_check", Prefix: "/user-service"},
	{Method: http.MethodGet, Path: "/order-service/health_check", Prefix: "/order-service"},
}

// Config wires the gateway.
type Config struct {
	Backends   []Backend
	OpenRoutes []OpenRoute
	Verifier   auth.TokenVerifier
	Logger     *slog.Logger
	// Rejections counts requests refused by the edge validator; optional.
	Rejections auth.RejectionRecorder
	// UpstreamTimeout bounds the wait for upstream response headers; 0 means none.
	UpstreamTimeout time.Duration
	// Transport overrides the upstream round tripper, for tests.
	Transport http.RoundTripper
}

// NewBackend parses rawURL into a Backend.
func NewBackend(name, prefix, rawURL string) (Backend, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Backend{}, fmt.Errorf("parse %s url: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Backend{}, fmt.Errorf("%s url %q must be absolute", name, rawURL)
	}
	return Backend{Name: name, Prefix: prefix, URL: u}, nil
}

// Register mounts the open routes and the token-protected prefix routes on r.
// Paths outside every backend prefix fall through to the router's NotFound.
func Register(r chi.Router, cfg Config) error {
	if cfg.Verifier == nil {
		return fmt.Errorf("gateway: token verifier is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	proxies := make(map[string]http.Handler, len(cfg.Backends))
	for _, b := range cfg.Backends {
		proxies[b.Prefix] = newProxy(b, cfg, logger)
	}

	for _, route := range cfg.OpenRoutes {
		proxy, ok := proxies[route.Prefix]
		if !ok {
			return fmt.Errorf("gateway: open route %s %s has no backend for %s", route.Method, route.Path, route.Prefix)
		}
		r.Method(route.Method, route.Path, proxy)
	}

	var opts []auth.Option
	if cfg.Rejections != nil {
		opts = append(opts, auth.WithMetrics(cfg.Rejections))
	}
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Verifier, logger, opts...))
		for _, b := range cfg.Backends {
			r.Handle(b.Prefix+"/*", proxies[b.Prefix])
		}
	})
	return nil
}

// NotFound answers for paths no backend owns.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	platformhttp.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no route for path"))
}

func newProxy(b Backend, cfg Config, logger *slog.Logger) http.Handler {
	transport := cfg.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = cfg.UpstreamTimeout
		transport = t
	}

	target := b.URL
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			ctx := r.Context()
			logger.WarnContext(ctx, "upstream request failed",
				"backend", b.Name,
				"path", r.URL.Path,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			platformhttp.WriteError(w, dErrors.New(dErrors.CodeUnavailable, b.Name+" unavailable"))
		},
	}
}
