package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	jwttoken "storefront/internal/jwt_token"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/platform/middleware/request"
	"storefront/pkg/platform/middleware/requesttime"
)

const testSecret = "gateway-test-secret"

type upstream struct {
	srv   *httptest.Server
	hits  atomic.Int32
	last  atomic.Pointer[http.Request]
	reply string
}

func newUpstream(t *testing.T, reply string) *upstream {
	u := &upstream{reply: reply}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.last.Store(r.Clone(context.Background()))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, u.reply)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

type GatewaySuite struct {
	suite.Suite
	users  *upstream
	orders *upstream
	codec  *jwttoken.Codec
	router http.Handler
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.users = newUpstream(s.T(), `{"from":"users"}`)
	s.orders = newUpstream(s.T(), `{"from":"orders"}`)
	s.codec = jwttoken.NewCodec(testSecret, time.Hour)
	s.router = s.buildRouter(s.users.srv.URL, s.orders.srv.URL)
}

func (s *GatewaySuite) buildRouter(usersURL, ordersURL string) http.Handler {
	users, err := NewBackend("user-service", "/user-service", usersURL)
	s.Require().NoError(err)
	orders, err := NewBackend("order-service", "/order-service", ordersURL)
	s.Require().NoError(err)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.NotFound(NotFound)
	s.Require().NoError(Register(r, Config{
		Backends:   []Backend{users, orders},
		OpenRoutes: DefaultOpenRoutes,
		Verifier:   jwttoken.NewMiddlewareAdapter(s.codec),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))
	return r
}

func (s *GatewaySuite) token(ttl time.Duration, now time.Time) string {
	tok, err := jwttoken.Issue("ada@example.com", ttl, []byte(testSecret), now)
	s.Require().NoError(err)
	return tok.Signed
}

func (s *GatewaySuite) do(method, target, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *GatewaySuite) TestOpenRoutesSkipTokenCheck() {
	for _, route := range DefaultOpenRoutes {
		rr := s.do(route.Method, route.Path, "")
		s.Equal(http.StatusOK, rr.Code, route.Path)
	}
	s.Equal(int32(3), s.users.hits.Load())
	s.Equal(int32(1), s.orders.hits.Load())
}

func (s *GatewaySuite) TestMissingTokenIsRejectedAtEdge() {
	rr := s.do(http.MethodGet, "/user-service/users", "")

	s.Equal(http.StatusUnauthorized, rr.Code)
	s.JSONEq(`{"error":"unauthorized","error_description":"missing authorization header"}`, rr.Body.String())
	s.Zero(s.users.hits.Load())
}

func (s *GatewaySuite) TestExpiredTokenNeverReachesBackend() {
	expired := s.token(time.Minute, time.Now().Add(-time.Hour))

	rr := s.do(http.MethodGet, "/order-service/orders/abc", "Bearer "+expired)

	s.Equal(http.StatusUnauthorized, rr.Code)
	var body httputil.ErrorResponse
	s.Require().NoError(json.NewDecoder(rr.Body).Decode(&body))
	s.Equal("invalid token", body.Description)
	s.Zero(s.orders.hits.Load())
}

func (s *GatewaySuite) TestValidTokenIsProxiedUnmodified() {
	tok := s.token(time.Hour, time.Now())

	rr := s.do(http.MethodGet, "/user-service/users/123?verbose=1", "bearer "+tok)

	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"from":"users"}`, rr.Body.String())
	got := s.users.last.Load()
	s.Require().NotNil(got)
	s.Equal("/user-service/users/123", got.URL.Path)
	s.Equal("verbose=1", got.URL.RawQuery)
	s.Equal("bearer "+tok, got.Header.Get("Authorization"))
	s.NotEmpty(got.Header.Get("X-Request-ID"))
	s.Equal(rr.Header().Get("X-Request-ID"), got.Header.Get("X-Request-ID"))
	s.NotEmpty(got.Header.Get("X-Forwarded-For"))
}

func (s *GatewaySuite) TestProtectedMethodOnOpenPath() {
	rr := s.do(http.MethodGet, "/user-service/login", "")
	s.Equal(http.StatusUnauthorized, rr.Code, "only POST login is open")
}

func (s *GatewaySuite) TestUnknownPrefixIs404() {
	tok := s.token(time.Hour, time.Now())

	rr := s.do(http.MethodGet, "/billing-service/invoices", "Bearer "+tok)

	s.Equal(http.StatusNotFound, rr.Code)
	s.Zero(s.users.hits.Load())
	s.Zero(s.orders.hits.Load())
}

func (s *GatewaySuite) TestBackendDownIs502() {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()
	s.router = s.buildRouter(s.users.srv.URL, deadURL)
	tok := s.token(time.Hour, time.Now())

	rr := s.do(http.MethodGet, "/order-service/"+"u1/orders", "Bearer "+tok)

	s.Equal(http.StatusBadGateway, rr.Code)
	var body httputil.ErrorResponse
	s.Require().NoError(json.NewDecoder(rr.Body).Decode(&body))
	s.Equal("bad_gateway", body.Error)
	s.Equal("order-service unavailable", body.Description)
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend("user-service", "/user-service", "http://users:8081")
	require.NoError(t, err)
	assert.Equal(t, "users:8081", b.URL.Host)

	_, err = NewBackend("user-service", "/user-service", "users:8081")
	assert.Error(t, err)
	_, err = NewBackend("user-service", "/user-service", "://bad")
	assert.Error(t, err)
}

func TestRegister_RequiresVerifier(t *testing.T) {
	err := Register(chi.NewRouter(), Config{})
	assert.Error(t, err)
}

func TestRegister_OpenRouteNeedsBackend(t *testing.T) {
	err := Register(chi.NewRouter(), Config{
		OpenRoutes: DefaultOpenRoutes,
		Verifier:   jwttoken.NewMiddlewareAdapter(jwttoken.NewCodec(testSecret, time.Hour)),
	})
	assert.Error(t, err)
}
