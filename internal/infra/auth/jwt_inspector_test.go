package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	return token
}

func TestJWTInspector_ReadsExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signed(t, jwt.MapClaims{"sub": "cust-1", "exp": exp.Unix()})

	claims, err := NewJWTInspector().Inspect(token)

	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt))
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(exp.Add(time.Second)))
}

func TestJWTInspector_ExpiredTokenStillInspected(t *testing.T) {
	token := signed(t, jwt.MapClaims{"sub": "cust-1", "exp": time.Now().Add(-time.Minute).Unix()})

	claims, err := NewJWTInspector().Inspect(token)

	require.NoError(t, err)
	assert.True(t, claims.Expired(time.Now()))
}

func TestJWTInspector_OpaqueToken(t *testing.T) {
	claims, err := NewJWTInspector().Inspect("opaque-session-token")

	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.IsZero())
	assert.False(t, claims.Expired(time.Now()))
}
