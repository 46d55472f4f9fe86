package jwttoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/middleware/requesttime"
)

// ErrInvalidToken is returned (wrapped) for every token that fails verification.
// Callers must not distinguish the underlying causes in responses.
var ErrInvalidToken = dErrors.New(dErrors.CodeUnauthorized, "invalid token")

var (
	errEmptySubject = dErrors.New(dErrors.CodeBadRequest, "token subject is required")
	errEmptySecret  = dErrors.New(dErrors.CodeInternal, "token secret is not configured")
)

var signingMethod = jwt.SigningMethodHS512

// Token is a freshly issued, signed bearer token.
type Token struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Signed    string
}

// Claims is what a successfully verified token asserts.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issue signs a token for subject valid from now until now+ttl.
// iat and exp are carried with second precision; exp is rounded up so a token
// never expires before now+ttl.
func Issue(subject string, ttl time.Duration, secret []byte, now time.Time) (*Token, error) {
	if subject == "" {
		return nil, errEmptySubject
	}
	if len(secret) == 0 {
		return nil, errEmptySecret
	}

	iat := jwt.NewNumericDate(now)
	exp := jwt.NewNumericDate(ceilSecond(now.Add(ttl)))

	signed, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}).SignedString(secret)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}

	return &Token{
		Subject:   subject,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
		Signed:    signed,
	}, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}

// Verify checks signature, algorithm and expiry of token at instant now.
// A token is expired once now reaches exp. All failures wrap ErrInvalidToken;
// Verify never panics.
func Verify(token string, secret []byte, now time.Time) (claims *Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = fmt.Errorf("%w: recovered from panic: %v", ErrInvalidToken, r)
		}
	}()

	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, errEmptySecret)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	registered := new(jwt.RegisteredClaims)
	parsed, err := parser.ParseWithClaims(token, registered, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if registered.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	out := &Claims{
		Subject:   registered.Subject,
		ExpiresAt: registered.ExpiresAt.Time.UTC(),
	}
	if registered.IssuedAt != nil {
		out.IssuedAt = registered.IssuedAt.Time.UTC()
	}
	return out, nil
}

// IsInvalidToken reports whether err came from a failed verification.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

// Codec binds a secret and TTL so callers never pass key material around.
// The secret is copied at construction and never mutated, so a Codec is
// safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec returns a Codec using secret and ttl for every token it issues.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// TTL reports the lifetime of issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject using the request-scoped clock.
func (c *Codec) Issue(ctx context.Context, subject string) (*Token, error) {
	return Issue(subject, c.ttl, c.secret, requesttime.Now(ctx))
}

// Verify validates token against the request-scoped clock.
func (c *Codec) Verify(ctx context.Context, token string) (*Claims, error) {
	return Verify(token, c.secret, requesttime.Now(ctx))
}
