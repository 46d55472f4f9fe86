package jwttoken

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/middleware/requesttime"
)

var (
	secret = []byte("test-secret-please-change")
	t0     = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
)

func issue(t *testing.T, subject string, ttl time.Duration) *Token {
	t.Helper()
	tok, err := Issue(subject, ttl, secret, t0)
	require.NoError(t, err)
	return tok
}

func Test_IssueAndVerify_RoundTrip(t *testing.T) {
	tok := issue(t, "ana@example.com", time.Hour)

	assert.Equal(t, "ana@example.com", tok.Subject)
	assert.Equal(t, t0, tok.IssuedAt)
	assert.Equal(t, t0.Add(time.Hour), tok.ExpiresAt)
	assert.Len(t, strings.Split(tok.Signed, "."), 3)

	claims, err := Verify(tok.Signed, secret, t0.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, tok.ExpiresAt, claims.ExpiresAt)
	assert.Equal(t, tok.IssuedAt, claims.IssuedAt)
}

func Test_IssueAndVerify_SubSecondTTL(t *testing.T) {
	now := t0.Add(300 * time.Millisecond)

	tok, err := Issue("ana@example.com", 500*time.Millisecond, secret, now)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Second), tok.ExpiresAt)

	_, err = Verify(tok.Signed, secret, now)
	require.NoError(t, err)

	tok, err = Issue("ana@example.com", 1500*time.Millisecond, secret, now)
	require.NoError(t, err)
	_, err = Verify(tok.Signed, secret, now.Add(1400*time.Millisecond))
	require.NoError(t, err, "exp is never earlier than now+ttl")

	_, err = Verify(tok.Signed, secret, t0.Add(2*time.Second))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Issue_UsesHS512(t *testing.T) {
	tok := issue(t, "ana@example.com", time.Minute)

	header, err := base64.RawURLEncoding.DecodeString(strings.Split(tok.Signed, ".")[0])
	require.NoError(t, err)
	assert.Contains(t, string(header), `"alg":"HS512"`)
}

func Test_Issue_RejectsEmptySubjectAndSecret(t *testing.T) {
	_, err := Issue("", time.Hour, secret, t0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = Issue("ana@example.com", time.Hour, nil, t0)
	require.Error(t, err)
}

func Test_Verify_ExpiryBoundary(t *testing.T) {
	tok := issue(t, "ana@example.com", 10*time.Second)

	_, err := Verify(tok.Signed, secret, t0.Add(10*time.Second-time.Millisecond))
	require.NoError(t, err, "valid just before exp")

	_, err = Verify(tok.Signed, secret, t0.Add(10*time.Second))
	require.ErrorIs(t, err, ErrInvalidToken, "exp == now is expired")

	_, err = Verify(tok.Signed, secret, t0.Add(time.Hour))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Verify_ZeroOrNegativeTTLIsNeverValid(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Minute} {
		tok := issue(t, "ana@example.com", ttl)
		_, err := Verify(tok.Signed, secret, t0)
		assert.ErrorIs(t, err, ErrInvalidToken, "ttl %s", ttl)
	}
}

func Test_Verify_WrongSecret(t *testing.T) {
	tok := issue(t, "ana@example.com", time.Hour)
	_, err := Verify(tok.Signed, []byte("another-secret"), t0)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Verify_TamperedParts(t *testing.T) {
	tok := issue(t, "ana@example.com", time.Hour)
	parts := strings.Split(tok.Signed, ".")

	forgedPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"mallory@example.com","exp":4102444800}`))
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}

	for name, signed := range map[string]string{
		"payload swapped":   parts[0] + "." + forgedPayload + "." + parts[2],
		"signature flipped": parts[0] + "." + parts[1] + "." + string(sig),
		"signature dropped": parts[0] + "." + parts[1] + ".",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Verify(signed, secret, t0)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func Test_Verify_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "ana@example.com",
		ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
	}

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = Verify(hs256, secret, t0)
	assert.ErrorIs(t, err, ErrInvalidToken, "HS256")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Verify(none, secret, t0)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func Test_Verify_RequiresExpAndSubject(t *testing.T) {
	noExp, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{Subject: "ana@example.com"}).SignedString(secret)
	require.NoError(t, err)
	_, err = Verify(noExp, secret, t0)
	assert.ErrorIs(t, err, ErrInvalidToken, "missing exp")

	noSub, err := jwt.NewWithClaims(signingMethod, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(t0.Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = Verify(noSub, secret, t0)
	assert.ErrorIs(t, err, ErrInvalidToken, "missing sub")
}

func Test_Verify_MalformedInputNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"a.b",
		"a.b.c.d",
		"...",
		"!!!.###.$$$",
		"eyJhbGciOiJIUzUxMiJ9.bm90LWpzb24.c2ln",
		strings.Repeat("x.", 5000),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, err := Verify(in, secret, t0)
			assert.ErrorIs(t, err, ErrInvalidToken, "input %q", in)
		})
	}
}

func Test_Codec_UsesRequestClock(t *testing.T) {
	codec := NewCodec(string(secret), time.Minute)
	assert.Equal(t, time.Minute, codec.TTL())

	ctx := requesttime.WithTime(context.Background(), t0)
	tok, err := codec.Issue(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Minute), tok.ExpiresAt)

	_, err = codec.Verify(requesttime.WithTime(context.Background(), t0.Add(59*time.Second)), tok.Signed)
	require.NoError(t, err)

	_, err = codec.Verify(requesttime.WithTime(context.Background(), t0.Add(time.Minute)), tok.Signed)
	assert.True(t, IsInvalidToken(err))
}

func Test_MiddlewareAdapter(t *testing.T) {
	codec := NewCodec(string(secret), time.Minute)
	adapter := NewMiddlewareAdapter(codec)
	ctx := requesttime.WithTime(context.Background(), t0)

	tok, err := codec.Issue(ctx, "ana@example.com")
	require.NoError(t, err)

	claims, err := adapter.VerifyToken(ctx, tok.Signed)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)

	_, err = adapter.VerifyToken(ctx, tok.Signed+"x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func Test_Verify_Concurrent(t *testing.T) {
	codec := NewCodec(string(secret), time.Hour)
	ctx := requesttime.WithTime(context.Background(), t0)
	tok, err := codec.Issue(ctx, "ana@example.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := codec.Verify(ctx, tok.Signed)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
