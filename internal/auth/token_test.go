package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken_RoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("user-1", "u@example.com", "U", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestParseToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := GenerateToken("user-1", "u@example.com", "", "secret", -time.Minute)
	require.NoError(t, err)
	wrongKey, err := GenerateToken("user-1", "u@example.com", "", "other", time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{"expired": expired, "wrong key": wrongKey, "garbage": "abc.def"} {
		_, err := ParseToken(tok, "secret")
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
