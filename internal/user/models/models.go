package models

import (
	"time"

	id "storefront/pkg/domain"
)

// User is a registered storefront customer. Email is unique and stored
// normalized (trimmed, lower-case); PasswordHash is a bcrypt hash.
type User struct {
	ID           id.UserID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Order is a user's order as reported by order-service.
type Order struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Qty        int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	TotalPrice int64     `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Degraded reasons for an order lookup that produced no orders.
const (
	ReasonTimeout     = "timeout"
	ReasonCanceled    = "canceled"
	ReasonUnavailable = "unavailable"
	ReasonBadStatus   = "bad_status"
	ReasonBadData     = "bad_data"
	ReasonCircuitOpen = "circuit_open"
)

// OrdersResult is the outcome of asking order-service for a user's orders.
// When Degraded is true Orders is empty (never nil) and Reason says why.
type OrdersResult struct {
	Orders   []Order
	Degraded bool
	Reason   string
}

// OrdersOK wraps a successful lookup.
func OrdersOK(orders []Order) OrdersResult {
	if orders == nil {
		orders = []Order{}
	}
	return OrdersResult{Orders: orders}
}

// OrdersDegraded records a failed lookup.
func OrdersDegraded(reason string) OrdersResult {
	return OrdersResult{Orders: []Order{}, Degraded: true, Reason: reason}
}

// UserWithOrders is the aggregated view served by GET /user-service/users/{userId}.
type UserWithOrders struct {
	User   *User
	Orders OrdersResult
}
