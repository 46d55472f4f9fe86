package service

import (
	"context"
	"errors"

	"storefront/internal/platform/metrics"
	"storefront/internal/platform/privacy"
	"storefront/internal/sentinel"
	"storefront/internal/user/models"
	id "storefront/pkg/domain"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/middleware/requesttime"
	"storefront/pkg/requestcontext"
	"storefront/pkg/secrets"
)

// invalidCredentials is the single answer for unknown email and wrong password.
const invalidCredentials = "invalid email or password"

// LoginResult carries what the handler puts in the response headers.
type LoginResult struct {
	Token  string
	UserID id.UserID
}

// Login authenticates email/password and issues a bearer token whose subject
// is the user's email. The user record is never modified.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			secrets.Burn(req.Password)
			s.loginFailed(ctx, "unknown email", "email", privacy.MaskEmail(req.Email))
			return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
		}
		s.recordLogin(metrics.LoginError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := secrets.Verify(req.Password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.loginFailed(ctx, "password mismatch", "user_id", user.ID.String())
			return nil, dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
		}
		s.recordLogin(metrics.LoginError)
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, user.Email)
	if err != nil {
		s.recordLogin(metrics.LoginError)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.recordLogin(metrics.LoginSuccess)
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID.String(),
		"expires_at", token.ExpiresAt,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &LoginResult{Token: token.Signed, UserID: user.ID}, nil
}

func (s *Service) loginFailed(ctx context.Context, reason string, attrs ...any) {
	s.recordLogin(metrics.LoginInvalidCredentials)
	args := append([]any{
		"reason", reason,
		"client_ip", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	s.logger.WarnContext(ctx, "login failed", args...)
}

func (s *Service) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLoginAttempt(outcome)
	}
}

// Signup registers a new user with a fresh ID and a bcrypt password hash.
func (s *Service) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	hash, err := secrets.Hash(req.Pwd)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id.NewUserID(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		CreatedAt:    requesttime.Now(ctx).UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}
	s.logger.InfoContext(ctx, "user created",
		"user_id", user.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return user, nil
}
