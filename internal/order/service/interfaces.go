package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"storefront/internal/order/models"
	id "storefront/pkg/domain"
)

// OrderStore defines the persistence interface for orders.
// Error Contract: FindByID returns sentinel.ErrNotFound for an unknown order;
// ListByUser returns an empty slice, never ErrNotFound.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Order, error)
}
