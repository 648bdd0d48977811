package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"spanco/internal/ratelimiter"

	"github.com/stretchr/testify/assert"
)

func TestRootAndUnknownRoutes(t *testing.T) {
	ta := newTestApplication(t, config{env: "test"})

	rr := ta.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Backend server is running!", decode[messageEnvelope](t, rr).Message)

	for _, target := range []string{"/nope", "/api/nope", "/api/categories/a/b/c"} {
		rr := ta.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, target)
		assert.Equal(t, "Route not found", decode[messageEnvelope](t, rr).Message, target)
	}

	rr = ta.do(httptest.NewRequest(http.MethodPatch, "/api/categories", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealth(t *testing.T) {
	ta := newTestApplication(t, config{env: "test"})

	rr := ta.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]string](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["env"])
}

func TestOpsRoutesRequireBasicAuth(t *testing.T) {
	ta := newTestApplication(t, config{})

	for _, target := range []string{"/api/metrics", "/api/debug/vars"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, ta.do(req).Code, target)

		req = httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", basicAuth("admin", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, ta.do(req).Code, target)

		req = httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", basicAuth("admin", "secret"))
		assert.Equal(t, http.StatusOK, ta.do(req).Code, target)
	}
}

func TestRateLimiter(t *testing.T) {
	ta := newTestApplication(t, config{rateLimiter: ratelimiter.Config{Enabled: true, RequestsPerTimeFrame: 2}})

	for i := 0; i < 2; i++ {
		rr := ta.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	rr := ta.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
}
