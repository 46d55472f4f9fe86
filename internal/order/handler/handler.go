package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/order/models"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/requestcontext"
)

// Service defines the order operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Order, error)
	Get(ctx context.Context, orderID string) (*models.Order, error)
}

// Handler serves the /order-service routes.
type Handler struct {
	orders Service
	logger *slog.Logger
}

func New(orders Service, logger *slog.Logger) *Handler {
	return &Handler{orders: orders, logger: logger}
}

// Register registers the order routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/order-service/{userId}/orders", h.HandleCreate)
	r.Get("/order-service/{userId}/orders", h.HandleList)
	r.Get("/order-service/orders/{orderId}", h.HandleGet)
}

// HandleCreate implements POST /order-service/{userId}/orders.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.CreateOrderRequest](w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.orders.Create(ctx, chi.URLParam(r, "userId"), req)
	if err != nil {
		h.logger.WarnContext(ctx, "create order failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.ToOrderResponse(order))
}

// HandleList implements GET /order-service/{userId}/orders. This is the
// endpoint user-service calls when building the aggregated user view.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.ListByUser(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToOrderResponses(orders))
}

// HandleGet implements GET /order-service/orders/{orderId}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.Get(ctx, chi.URLParam(r, "orderId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToOrderResponse(order))
}
