package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/order/models"
	"storefront/internal/order/service"
	"storefront/internal/order/store"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/testutil"
)

func newRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), service.WithLogger(logger))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestOrderHandler_CreateListGet(t *testing.T) {
	router := newRouter()
	userID := testutil.TestIDs.UserID1.String()
	ordersURL := "/order-service/" + userID + "/orders"

	rr := do(t, router, http.MethodGet, ordersURL, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, router, http.MethodPost, ordersURL, `{"productId":"SKU-1","quantity":2,"unitPrice":1500}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var first models.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&first))
	assert.Equal(t, userID, first.UserID)
	assert.Equal(t, int64(3000), first.TotalPrice)
	assert.NotEmpty(t, first.OrderID)
	assert.False(t, first.CreatedAt.IsZero())

	rr = do(t, router, http.MethodPost, ordersURL, `{"productId":"SKU-2","quantity":1,"unitPrice":10}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, router, http.MethodGet, ordersURL, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []models.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "SKU-1", list[0].ProductID)
	assert.Equal(t, "SKU-2", list[1].ProductID)

	rr = do(t, router, http.MethodGet, "/order-service/orders/"+first.OrderID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got models.OrderResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, first, got)
}

func TestOrderHandler_Errors(t *testing.T) {
	router := newRouter()
	userID := testutil.TestIDs.UserID1.String()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantError  string
	}{
		{"unknown order", http.MethodGet, "/order-service/orders/" + testutil.TestIDs.OrderID1.String(), "", http.StatusNotFound, "not_found"},
		{"malformed order id", http.MethodGet, "/order-service/orders/xyz", "", http.StatusNotFound, "not_found"},
		{"malformed user id on list", http.MethodGet, "/order-service/xyz/orders", "", http.StatusBadRequest, "bad_request"},
		{"malformed user id on create", http.MethodPost, "/order-service/xyz/orders", `{"productId":"SKU","quantity":1,"unitPrice":1}`, http.StatusBadRequest, "bad_request"},
		{"zero qty", http.MethodPost, "/order-service/" + userID + "/orders", `{"productId":"SKU","quantity":0,"unitPrice":1}`, http.StatusBadRequest, "validation_error"},
		{"negative price", http.MethodPost, "/order-service/" + userID + "/orders", `{"productId":"SKU","quantity":1,"unitPrice":-5}`, http.StatusBadRequest, "validation_error"},
		{"blank product", http.MethodPost, "/order-service/" + userID + "/orders", `{"productId":"  ","quantity":1,"unitPrice":1}`, http.StatusBadRequest, "validation_error"},
		{"broken json", http.MethodPost, "/order-service/" + userID + "/orders", `{`, http.StatusBadRequest, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			var body httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}
