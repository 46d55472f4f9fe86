package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	rec := serve(New("user-service", "test"), "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	h := New("user-service", "test")
	h.RegisterCheck("database", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		if !hasDeadline {
			return errors.New("no deadline")
		}
		return nil
	})

	rec := serve(h, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	h.RegisterCheck("orders", func(context.Context) error { return errors.New("connection refused") })
	rec = serve(h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "up", resp.Checks["database"])
	assert.Equal(t, "down: connection refused", resp.Checks["orders"])
}

func TestStatus(t *testing.T) {
	rec := serve(New("gateway", "production"), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "gateway", resp.Service)
	assert.Equal(t, "production", resp.Environment)
}

func TestStatusText(t *testing.T) {
	rec := httptest.NewRecorder()
	StatusText("order service", "8082").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-service/health_check", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "It's working in order service on PORT 8082", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
