package service

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/order/models"
	"storefront/internal/platform/metrics"
	"storefront/internal/sentinel"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/middleware/requesttime"
	"storefront/pkg/requestcontext"
)

// Service places and reads orders. It does not check that the user exists;
// user-service owns users and order-service trusts the gateway in front of it.
type Service struct {
	orders  OrderStore
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(orders OrderStore, opts ...Option) *Service {
	svc := &Service{orders: orders}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	return svc
}

// Create places an order for rawUserID. TotalPrice is qty * unitPrice.
func (s *Service) Create(ctx context.Context, rawUserID string, req *models.CreateOrderRequest) (*models.Order, error) {
	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:         id.NewOrderID(),
		UserID:     userID,
		ProductID:  req.ProductID,
		Qty:        req.Qty,
		UnitPrice:  req.UnitPrice,
		TotalPrice: int64(req.Qty) * req.UnitPrice,
		CreatedAt:  requesttime.Now(ctx).UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "order already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create order")
	}

	if s.metrics != nil {
		s.metrics.IncrementOrdersCreated()
	}
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID.String(),
		"user_id", userID.String(),
		"total_price", order.TotalPrice,
		"request_id", requestcontext.RequestID(ctx),
	)
	return order, nil
}

// ListByUser returns the user's orders oldest first; a user with no orders gets an empty list.
func (s *Service) ListByUser(ctx context.Context, rawUserID string) ([]*models.Order, error) {
	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list orders")
	}
	return orders, nil
}

// Get returns a single order. A malformed ID is reported as not found.
func (s *Service) Get(ctx context.Context, rawOrderID string) (*models.Order, error) {
	orderID, err := id.ParseOrderID(rawOrderID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "order not found")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "order not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load order")
	}
	return order, nil
}
