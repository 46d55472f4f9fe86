package jwttoken

import (
	"context"

	"storefront/pkg/platform/middleware/auth"
)

// MiddlewareAdapter exposes a Codec as an auth.TokenVerifier.
type MiddlewareAdapter struct {
	codec *Codec
}

func NewMiddlewareAdapter(codec *Codec) *MiddlewareAdapter {
	return &MiddlewareAdapter{codec: codec}
}

func (a *MiddlewareAdapter) VerifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := a.codec.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &auth.Claims{Subject: claims.Subject}, nil
}
