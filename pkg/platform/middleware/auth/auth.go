package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"storefront/pkg/requestcontext"
)

// Rejection reasons, used as metric labels.
const (
	ReasonMissingHeader = "missing_header"
	ReasonInvalidToken  = "invalid_token"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Claims, error)
}

// Claims is the subset of verified token claims the edge cares about.
type Claims struct {
	Subject string
}

// RejectionRecorder counts requests turned away at the edge.
type RejectionRecorder interface {
	IncAuthRejected(reason string)
}

type config struct {
	metrics RejectionRecorder
}

// Option configures RequireAuth.
type Option func(*config)

// WithMetrics counts rejections by reason.
func WithMetrics(m RejectionRecorder) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively; ok is false when it is missing
// or no token follows it.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// verify shields the middleware from a misbehaving verifier.
func verify(ctx context.Context, verifier TokenVerifier, token string) (claims *Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = fmt.Errorf("token verifier panicked: %v", r)
		}
	}()
	claims, err = verifier.VerifyToken(ctx, token)
	if err == nil && claims == nil {
		err = fmt.Errorf("token verifier returned no claims")
	}
	return claims, err
}

// RequireAuth returns middleware that lets a request through only when it
// carries a valid bearer token. Accepted requests are forwarded untouched;
// the subject is stored in the context for logging only.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	reject := func(w http.ResponseWriter, reason, desc string) {
		if cfg.metrics != nil {
			cfg.metrics.IncAuthRejected(reason)
		}
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", desc)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")

			if strings.TrimSpace(header) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing authorization header",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				reject(w, ReasonMissingHeader, "missing authorization header")
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - malformed authorization header",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				reject(w, ReasonInvalidToken, "invalid token")
				return
			}

			claims, err := verify(ctx, verifier, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				reject(w, ReasonInvalidToken, "invalid token")
				return
			}

			ctx = requestcontext.WithSubject(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
