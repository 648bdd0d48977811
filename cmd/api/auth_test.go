package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"spanco/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginProfile(t *testing.T) {
	ta := newTestApplication(t, config{})

	register := map[string]string{"name": "Asha", "email": "Asha@Example.com", "password": "s3cret!"}

	rr := ta.do(jsonRequest(t, http.MethodPost, "/api/auth/register", "", register))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[UserWithToken](t, rr)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "asha@example.com", created.User.Email)
	assert.NotContains(t, rr.Body.String(), "password")

	t.Run("duplicate email", func(t *testing.T) {
		rr := ta.do(jsonRequest(t, http.MethodPost, "/api/auth/register", "", register))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "User already exists", decode[messageEnvelope](t, rr).Message)
	})

	t.Run("invalid payload", func(t *testing.T) {
		rr := ta.do(jsonRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "nope"}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("login", func(t *testing.T) {
		rr := ta.do(jsonRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "s3cret!",
		}))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decode[UserWithToken](t, rr)
		assert.Equal(t, created.User.ID, body.User.ID)

		rr = ta.do(jsonRequest(t, http.MethodGet, "/api/auth/profile", "Bearer "+body.Token, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Asha", decode[users.User](t, rr).Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := ta.do(jsonRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "asha@example.com", "password": "guess",
		}))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		rr := ta.do(jsonRequest(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "s3cret!",
		}))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthTokenMiddleware(t *testing.T) {
	ta := newTestApplication(t, config{})

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, http.StatusUnauthorized, ta.do(req).Code)
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		token, err := ta.authenticator.GenerateToken("no-such-user")
		require.NoError(t, err)
		rr := ta.do(jsonRequest(t, http.MethodGet, "/api/auth/profile", "Bearer "+token, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("mutating catalog routes", func(t *testing.T) {
		for _, target := range []string{"/api/categories", "/api/subcategories", "/api/labcategories", "/api/products"} {
			rr := ta.do(jsonRequest(t, http.MethodPost, target, "", map[string]string{"name": "x"}))
			assert.Equal(t, http.StatusUnauthorized, rr.Code, target)
		}
	})
}
