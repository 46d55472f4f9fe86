package testutil

import (
	"time"

	"github.com/google/uuid"

	ordermodels "storefront/internal/order/models"
	usermodels "storefront/internal/user/models"
	id "storefront/pkg/domain"
)

// FakePasswordHash is a syntactically valid bcrypt hash for fixtures that
// never verify a password. Tests exercising login hash a real password.
const FakePasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z8ZNmGJvnhCWXMQ3x1KUBQ5K"

// TestIDs provides deterministic IDs for tests.
var TestIDs = struct {
	UserID1  id.UserID
	UserID2  id.UserID
	OrderID1 id.OrderID
	OrderID2 id.OrderID
}{
	UserID1:  id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2:  id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	OrderID1: id.OrderID(uuid.MustParse("0d000000-0000-0000-0000-000000000001")),
	OrderID2: id.OrderID(uuid.MustParse("0d000000-0000-0000-0000-000000000002")),
}

// NewUser returns a user with a fresh ID and the given email.
func NewUser(email string) *usermodels.User {
	return NewUserBuilder().WithEmail(email).Build()
}

// UserBuilder provides a fluent interface for building test users.
type UserBuilder struct {
	user *usermodels.User
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		user: &usermodels.User{
			ID:           id.NewUserID(),
			Email:        "test@example.com",
			Name:         "Test User",
			PasswordHash: FakePasswordHash,
			CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		},
	}
}

func (b *UserBuilder) WithID(userID id.UserID) *UserBuilder {
	b.user.ID = userID
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

func (b *UserBuilder) Build() *usermodels.User {
	return b.user
}

// OrderBuilder provides a fluent interface for building test orders.
type OrderBuilder struct {
	order *ordermodels.Order
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		order: &ordermodels.Order{
			ID:         id.NewOrderID(),
			UserID:     TestIDs.UserID1,
			ProductID:  "CATALOG-001",
			Qty:        1,
			UnitPrice:  1000,
			TotalPrice: 1000,
			CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		},
	}
}

func (b *OrderBuilder) ForUser(userID id.UserID) *OrderBuilder {
	b.order.UserID = userID
	return b
}

func (b *OrderBuilder) WithProduct(productID string, qty int, unitPrice int64) *OrderBuilder {
	b.order.ProductID = productID
	b.order.Qty = qty
	b.order.UnitPrice = unitPrice
	b.order.TotalPrice = int64(qty) * unitPrice
	return b
}

func (b *OrderBuilder) Build() *ordermodels.Order {
	return b.order
}
