package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "portal"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestNewStaticToken_Empty(t *testing.T) {
	_, err := NewStaticToken("   ")
	assert.Error(t, err)
}

func TestStaticToken_Opaque(t *testing.T) {
	st, err := NewStaticToken("opaque-api-key")
	require.NoError(t, err)

	got, err := st.Token()
	require.NoError(t, err)
	assert.Equal(t, "opaque-api-key", got)
	assert.True(t, st.ExpiresAt().IsZero())
}

func TestStaticToken_JWTNotExpired(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	st, err := NewStaticToken(signedToken(t, exp))
	require.NoError(t, err)

	got, err := st.Token()
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.WithinDuration(t, exp, st.ExpiresAt(), time.Second)
}

func TestStaticToken_JWTExpired(t *testing.T) {
	st, err := NewStaticToken(signedToken(t, time.Now().Add(-time.Minute)))
	require.NoError(t, err)

	_, err = st.Token()
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestStaticToken_JWTNoExp(t *testing.T) {
	st, err := NewStaticToken(signedToken(t, time.Time{}))
	require.NoError(t, err)

	got, err := st.Token()
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
