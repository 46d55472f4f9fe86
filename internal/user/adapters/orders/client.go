// Package orders is the user-service's HTTP client for order-service.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/user/models"
	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

const (
	defaultTimeout = 2 * time.Second
	// maxResponseBytes bounds how much of a peer response is read.
	maxResponseBytes = 4 << 20
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches a user's orders from order-service.
type Client struct {
	baseURL string
	timeout time.Duration
	http    HTTPDoer
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call; the deadline is derived from the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// New returns a client rooted at baseURL, e.g. "http://order-service:8082".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListOrders calls GET {base}/order-service/{userId}/orders. Any non-2xx
// status, transport failure, timeout or undecodable body is a *ClientError.
func (c *Client) ListOrders(ctx context.Context, userID id.UserID) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/order-service/%s/orders", c.baseURL, url.PathEscape(userID.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ClientError{Category: ErrorUnavailable, Message: "failed to build request", Underlying: err}
	}
	req.Header.Set("Accept", "application/json")
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes)) //nolint:errcheck // draining for connection reuse
		return nil, &ClientError{Category: ErrorBadStatus, StatusCode: resp.StatusCode, Message: "unexpected status"}
	}

	var orders []models.Order
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&orders); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classifyTransportError(ctx, ctxErr)
		}
		return nil, &ClientError{Category: ErrorBadData, Message: "failed to decode orders", Underlying: err}
	}
	if orders == nil {
		// JSON null is not a list.
		return nil, &ClientError{Category: ErrorBadData, Message: "orders body is not an array"}
	}
	return orders, nil
}

func classifyTransportError(ctx context.Context, err error) *ClientError {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &ClientError{Category: ErrorTimeout, Message: "request timeout", Underlying: err}
	case errors.Is(ctx.Err(), context.Canceled):
		return &ClientError{Category: ErrorCanceled, Message: "request canceled", Underlying: err}
	default:
		return &ClientError{Category: ErrorUnavailable, Message: "failed to execute request", Underlying: err}
	}
}
