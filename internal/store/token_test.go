package store

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	t.Run("extracts expiry from a JWT", func(t *testing.T) {
		t.Parallel()

		exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
		token := signedToken(t, jwt.MapClaims{"exp": exp.Unix()})

		got, ok := TokenExpiry(token)
		require.True(t, ok)
		assert.Equal(t, exp.Unix(), got.Unix())
	})

	t.Run("no expiry claim", func(t *testing.T) {
		t.Parallel()

		token := signedToken(t, jwt.MapClaims{"sub": "user-1"})
		_, ok := TokenExpiry(token)
		assert.False(t, ok)
	})

	t.Run("opaque tokens are not an error", func(t *testing.T) {
		t.Parallel()

		_, ok := TokenExpiry("not-a-jwt-at-all")
		assert.False(t, ok)
	})
}
