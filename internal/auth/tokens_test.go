package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfspace/shelfspace/internal/platform/httpx"
)

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	pair, err := issuer.IssuePair(userID)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
		subject, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, userID, subject)
	}
}

func TestIssuePairTokensAreUniquePerMint(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	userID := uuid.New()

	pair1, err := issuer.IssuePair(userID)
	require.NoError(t, err)
	pair2, err := issuer.IssuePair(userID)
	require.NoError(t, err)

	assert.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken)
	assert.NotEqual(t, pair1.AccessToken, pair2.AccessToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)
	pair, err := issuer.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(pair.AccessToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)
	other := NewTokenIssuer("another-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := other.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(pair.AccessToken)
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 7*24*time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := issuer.Verify(token)
		require.ErrorIs(t, err, httpx.ErrUnauthorized)
	}
}
