package store

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/sentinel"
	"storefront/internal/user/models"
	id "storefront/pkg/domain"
)

// Error Contract:
// - ErrNotFound when the requested user does not exist
// - ErrAlreadyUsed when the email is taken
// - wrapped errors for infrastructure failures (Postgres only)

// InMemoryUserStore keeps users in memory; used when no database is configured.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]*models.User
	byEmail map[string]id.UserID
	order   []id.UserID
}

// NewInMemory constructs an empty in-memory user store.
func NewInMemory() *InMemoryUserStore {
	return &InMemoryUserStore{
		byID:    make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Create inserts user, failing if the email is already registered.
func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[user.Email]; taken {
		return fmt.Errorf("email %s: %w", user.Email, sentinel.ErrAlreadyUsed)
	}
	if _, taken := s.byID[user.ID]; taken {
		return fmt.Errorf("user id %s: %w", user.ID, sentinel.ErrAlreadyUsed)
	}
	stored := *user
	s.byID[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	s.order = append(s.order, user.ID)
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.byID[userID]; ok {
		out := *user
		return &out, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[email]; ok {
		out := *s.byID[userID]
		return &out, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

// ListAll returns users in registration order.
func (s *InMemoryUserStore) ListAll(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.order))
	for _, userID := range s.order {
		u := *s.byID[userID]
		users = append(users, &u)
	}
	return users, nil
}
