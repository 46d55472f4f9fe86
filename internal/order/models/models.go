package models

import (
	"time"

	id "storefront/pkg/domain"
	s "storefront/pkg/string"
	"storefront/pkg/validation"
)

// Order is a single purchase line placed by a user.
// TotalPrice is always Qty * UnitPrice, fixed at creation.
type Order struct {
	ID         id.OrderID
	UserID     id.UserID
	ProductID  string
	Qty        int
	UnitPrice  int64
	TotalPrice int64
	CreatedAt  time.Time
}

// CreateOrderRequest is the body of POST /order-service/{userId}/orders.
type CreateOrderRequest struct {
	ProductID string `json:"productId" validate:"required,notblank,max=120"`
	Qty       int    `json:"quantity" validate:"gt=0,max=10000"`
	UnitPrice int64  `json:"unitPrice" validate:"gte=0,max=100000000"`
}

func (r *CreateOrderRequest) Normalize() {
	s.TrimStrings(&r.ProductID)
}

func (r *CreateOrderRequest) Validate() error {
	return validation.Validate(r)
}

// OrderResponse is the wire form shared with user-service.
type OrderResponse struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Qty        int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	TotalPrice int64     `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		OrderID:    o.ID.String(),
		UserID:     o.UserID.String(),
		ProductID:  o.ProductID,
		Qty:        o.Qty,
		UnitPrice:  o.UnitPrice,
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
	}
}

func ToOrderResponses(orders []*Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}
