package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/platform/metrics"
	"storefront/internal/user/models"
	"storefront/internal/user/service"
	"storefront/pkg/platform/httputil"
	"storefront/pkg/requestcontext"
)

// Service defines the user operations exposed over HTTP.
type Service interface {
	Login(ctx context.Context, req *models.LoginRequest) (*service.LoginResult, error)
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.UserWithOrders, error)
}

// Response headers set by a successful login.
const (
	HeaderToken  = "token"
	HeaderUserID = "userId"
)

// Handler serves the /user-service routes.
type Handler struct {
	users   Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(users Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{users: users, logger: logger, metrics: m}
}

// Register registers the user routes with the chi router.
// The gateway decides which of them need a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Post("/user-service/login", h.HandleLogin)
	r.Post("/user-service/users", h.HandleSignup)
	r.Get("/user-service/users", h.HandleListUsers)
	r.Get("/user-service/users/{userId}", h.HandleGetUser)
}

// HandleLogin implements POST /user-service/login.
// On success the token and user ID travel in response headers and the body is empty.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[models.LoginRequest](w, r, h.logger)
	if !ok {
		if h.metrics != nil {
			h.metrics.IncrementLoginAttempt(metrics.LoginInvalidRequest)
		}
		return
	}

	res, err := h.users.Login(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set(HeaderToken, res.Token)
	w.Header().Set(HeaderUserID, res.UserID.String())
	w.WriteHeader(http.StatusOK)
}

// HandleSignup implements POST /user-service/users.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[models.SignupRequest](w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.Signup(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "signup failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.ToUserResponse(user))
}

// HandleListUsers implements GET /user-service/users.
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list users failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	resp := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, models.ToUserResponse(u))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetUser implements GET /user-service/users/{userId}: the user plus
// their orders, or an empty order list when order-service is unavailable.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.users.GetUser(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, models.ToUserWithOrdersResponse(view))
}
