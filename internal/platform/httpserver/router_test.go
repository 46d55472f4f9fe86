package httpserver

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"storefront/internal/platform/health"
	"storefront/pkg/platform/middleware/request"
)

func TestNewRouter_ChainAndEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRouter(RouterConfig{
		Service:      "test-service",
		Logger:       slog.New(slog.DiscardHandler),
		MaxBodyBytes: 16,
		Gatherer:     reg,
		Latency:      request.NewMetrics(reg, "test-service"),
		Health:       health.New("test-service", "test"),
	})
	r.Post("/echo", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`a=b`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "storefront_endpoint_latency_seconds")
}

func TestPort(t *testing.T) {
	assert.Equal(t, "8081", Port(":8081"))
	assert.Equal(t, "9000", Port("127.0.0.1:9000"))
	assert.Equal(t, "weird", Port("weird"))
}
