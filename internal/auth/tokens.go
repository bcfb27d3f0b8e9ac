package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

// TokenIssuer mints and verifies signed tokens. Access and refresh tokens
// are signed with the same key and carry the same claims; they differ only
// in expiry, so callers must track which is which by context.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer constructs an issuer around an HMAC signing secret.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair mints a short-lived access token and a long-lived refresh token
// for the given subject.
func (t *TokenIssuer) IssuePair(userID uuid.UUID) (TokenPair, error) {
	access, err := t.sign(userID, t.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign access token: %w", err)
	}
	refresh, err := t.sign(userID, t.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (t *TokenIssuer) sign(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	// The jti claim keeps tokens unique even when two are minted within the
	// same second, which rotation depends on.
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify validates signature and expiry and returns the token subject.
// Any parse failure surfaces as Unauthorized without distinguishing the cause.
func (t *TokenIssuer) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid token", httpx.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: invalid token claims", httpx.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid token subject", httpx.ErrUnauthorized)
	}
	return userID, nil
}
