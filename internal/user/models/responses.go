package models

import "time"

// UserResponse is the public view of a user.
type UserResponse struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// UserWithOrdersResponse adds the user's orders. Orders is always a JSON
// array, empty when order-service could not be reached.
type UserWithOrdersResponse struct {
	UserResponse
	Orders []OrderResponse `json:"orders"`
}

type OrderResponse struct {
	OrderID    string    `json:"orderId"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Qty        int       `json:"quantity"`
	UnitPrice  int64     `json:"unitPrice"`
	TotalPrice int64     `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		Email:  u.Email,
		Name:   u.Name,
		UserID: u.ID.String(),
	}
}

func ToUserWithOrdersResponse(v *UserWithOrders) UserWithOrdersResponse {
	orders := make([]OrderResponse, 0, len(v.Orders.Orders))
	for _, o := range v.Orders.Orders {
		orders = append(orders, OrderResponse(o))
	}
	return UserWithOrdersResponse{
		UserResponse: ToUserResponse(v.User),
		Orders:       orders,
	}
}
