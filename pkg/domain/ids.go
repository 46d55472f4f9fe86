// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "storefront/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing an OrderID where a UserID is expected.
type (
	UserID  uuid.UUID
	OrderID uuid.UUID
)

// NewUserID returns a fresh random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewOrderID returns a fresh random order ID.
func NewOrderID() OrderID { return OrderID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseOrderID(s string) (OrderID, error) {
	id, err := parseUUID(s, "order ID")
	return OrderID(id), err
}

func (id UserID) String() string  { return uuid.UUID(id).String() }
func (id OrderID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id OrderID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, label+" cannot be nil")
	}
	return id, nil
}
