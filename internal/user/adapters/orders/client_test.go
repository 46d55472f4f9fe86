package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/requestcontext"
	"storefront/pkg/testutil"
)

var userID = testutil.TestIDs.UserID1

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestListOrders_Success(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/order-service/"+userID.String()+"/orders", r.URL.Path)
		assert.Equal(t, "req-7", r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"orderId":"b","userId":"` + userID.String() + `","productId":"CATALOG-002","quantity":1,"unitPrice":500,"totalPrice":500,"createdAt":"2026-10-01T10:00:00Z"},
			{"orderId":"a","userId":"` + userID.String() + `","productId":"CATALOG-001","quantity":2,"unitPrice":1000,"totalPrice":2000,"createdAt":"2026-10-02T10:00:00Z"}
		]`))
	})

	ctx := requestcontext.WithRequestID(context.Background(), "req-7")
	orders, err := New(srv.URL+"/").ListOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "b", orders[0].OrderID, "peer order is preserved")
	assert.Equal(t, int64(2000), orders[1].TotalPrice)
	assert.Equal(t, userID.String(), orders[1].UserID)
}

func TestListOrders_EmptyList(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	orders, err := New(srv.URL).ListOrders(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestListOrders_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		category ErrorCategory
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			category: ErrorBadStatus,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			category: ErrorBadStatus,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"orders":`))
			},
			category: ErrorBadData,
		},
		{
			name: "object instead of array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"orderId":"a"}`))
			},
			category: ErrorBadData,
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			category: ErrorBadData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			orders, err := New(srv.URL).ListOrders(context.Background(), userID)
			require.Error(t, err)
			assert.Nil(t, orders)
			assert.Equal(t, tt.category, Category(err))
		})
	}
}

func TestListOrders_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	start := time.Now()
	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).ListOrders(context.Background(), userID)
	require.Error(t, err)
	assert.Equal(t, ErrorTimeout, Category(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestListOrders_CallerCancellation(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(srv.URL, WithTimeout(5*time.Second)).ListOrders(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, ErrorCanceled, Category(err))
}

func TestListOrders_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListOrders(context.Background(), userID)
	require.Error(t, err)
	assert.Equal(t, ErrorUnavailable, Category(err))
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestListOrders_InjectedTransport(t *testing.T) {
	_, err := New("http://orders.invalid", WithHTTPClient(failingDoer{})).ListOrders(context.Background(), userID)
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrorUnavailable, ce.Category)
	assert.Contains(t, ce.Error(), "connection refused")
}

func TestCategory_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorCategory(""), Category(errors.New("other")))
}
