package orders

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies why an order lookup failed.
type ErrorCategory string

const (
	ErrorTimeout     ErrorCategory = "timeout"
	ErrorCanceled    ErrorCategory = "canceled"
	ErrorUnavailable ErrorCategory = "unavailable"
	ErrorBadStatus   ErrorCategory = "bad_status"
	ErrorBadData     ErrorCategory = "bad_data"
)

// ClientError is returned for every failed call to order-service.
type ClientError struct {
	Category   ErrorCategory
	StatusCode int
	Message    string
	Underlying error
}

func (e *ClientError) Error() string {
	msg := fmt.Sprintf("order-service [%s]: %s", e.Category, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Underlying != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Underlying)
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Underlying
}

// Category extracts the failure category from err, or "" when err did not
// come from this client.
func Category(err error) ErrorCategory {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ""
}
