package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("", "secret1"))
}

func TestRefreshTokenHashingHandlesLongTokens(t *testing.T) {
	// Signed tokens are far longer than bcrypt's 72-byte input limit; the
	// digest step must keep differences past that point visible.
	base := strings.Repeat("a", 100)
	token := base + "x"
	sibling := base + "y"

	hash, err := HashRefreshToken(token)
	require.NoError(t, err)

	assert.True(t, CheckRefreshToken(hash, token))
	assert.False(t, CheckRefreshToken(hash, sibling))
}
