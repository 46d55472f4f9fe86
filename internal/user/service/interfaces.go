package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	jwttoken "storefront/internal/jwt_token"
	"storefront/internal/user/models"
	id "storefront/pkg/domain"
)

// UserStore defines the persistence interface for user data.
// Error Contract: Find methods return sentinel.ErrNotFound when the user doesn't
// exist; Create returns sentinel.ErrAlreadyUsed for a taken email.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

// OrdersClient fetches a user's orders from order-service.
type OrdersClient interface {
	ListOrders(ctx context.Context, userID id.UserID) ([]models.Order, error)
}

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(ctx context.Context, subject string) (*jwttoken.Token, error)
}
