package store

import (
	"context"
	"fmt"

	"storefront/internal/order/models"
	"storefront/internal/sentinel"
	id "storefront/pkg/domain"
	psync "storefront/pkg/platform/sync"
)

// Error Contract:
// - ErrNotFound when the requested order does not exist
// - ErrAlreadyUsed when an order ID is reused
// - wrapped errors for infrastructure failures (Postgres only)

// InMemoryOrderStore keeps orders in memory, indexed by order ID and by user.
// Per-user lists preserve insertion order.
type InMemoryOrderStore struct {
	byID   *psync.ShardedMap[*models.Order]
	byUser *psync.ShardedMap[[]*models.Order]
}

func NewInMemory() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		byID:   psync.NewShardedMap[*models.Order](),
		byUser: psync.NewShardedMap[[]*models.Order](),
	}
}

func (s *InMemoryOrderStore) Create(_ context.Context, order *models.Order) error {
	stored := *order
	key := order.ID.String()

	var dup bool
	s.byID.Update(key, func(cur *models.Order, present bool) *models.Order {
		if present {
			dup = true
			return cur
		}
		return &stored
	})
	if dup {
		return fmt.Errorf("order id %s: %w", key, sentinel.ErrAlreadyUsed)
	}

	s.byUser.Update(order.UserID.String(), func(cur []*models.Order, _ bool) []*models.Order {
		return append(cur, &stored)
	})
	return nil
}

func (s *InMemoryOrderStore) FindByID(_ context.Context, orderID id.OrderID) (*models.Order, error) {
	order, ok := s.byID.Get(orderID.String())
	if !ok {
		return nil, fmt.Errorf("order not found: %w", sentinel.ErrNotFound)
	}
	out := *order
	return &out, nil
}

// ListByUser returns the user's orders oldest first; an unknown user has none.
func (s *InMemoryOrderStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.Order, error) {
	orders := make([]*models.Order, 0)
	s.byUser.View(userID.String(), func(cur []*models.Order, _ bool) {
		for _, o := range cur {
			out := *o
			orders = append(orders, &out)
		}
	})
	return orders, nil
}
