package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	a := NewJWTAuthenticator("secret", "spanco", "spanco", time.Hour)

	token, err := a.GenerateToken("65f1c0ffee")
	require.NoError(t, err)

	parsed, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	sub, err := Subject(parsed)
	require.NoError(t, err)
	assert.Equal(t, "65f1c0ffee", sub)
}

func TestValidateRejects(t *testing.T) {
	a := NewJWTAuthenticator("secret", "spanco", "spanco", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTAuthenticator("other", "spanco", "spanco", time.Hour)
		token, err := other.GenerateToken("u1")
		require.NoError(t, err)
		_, err = a.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTAuthenticator("secret", "spanco", "someone-else", time.Hour)
		token, err := other.GenerateToken("u1")
		require.NoError(t, err)
		_, err = a.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Minute).Unix(),
			"iss": "spanco",
			"aud": "spanco",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = a.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := a.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestSubjectMissing(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
	_, err := Subject(token)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
