package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spanco/internal/assets"
	"spanco/internal/auth"
	"spanco/internal/cache"
	"spanco/internal/domain/catalog"
	"spanco/internal/domain/storage"
	"spanco/internal/domain/users"
	"spanco/internal/metrics"
	"spanco/internal/ratelimiter"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type testApp struct {
	*application
	assets  *assets.Memory
	limiter *ratelimiter.FixedWindowRateLimiter
	handler http.Handler
}

func newTestApplication(t *testing.T, cfg config) *testApp {
	t.Helper()

	container := storage.NewMemoryContainer()
	assetStore := assets.NewMemory()
	logger := zap.NewNop().Sugar()

	if cfg.auth.basic.user == "" {
		cfg.auth.basic = basicConfig{user: "admin", pass: "secret"}
	}
	limit := cfg.rateLimiter.RequestsPerTimeFrame
	if limit == 0 {
		limit = 1000
	}
	limiter := ratelimiter.NewFixedWindowLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	app := &application{
		config:        cfg,
		catalog:       catalog.NewService(container.Catalog, assetStore, cache.NewMemory(), logger),
		users:         container.Users,
		logger:        logger,
		authenticator: auth.NewJWTAuthenticator("test-secret", "spanco", "spanco", time.Hour),
		rateLimiter:   limiter,
		metrics:       metrics.New(),
	}
	return &testApp{application: app, assets: assetStore, limiter: limiter, handler: app.mount()}
}

// token registers a user directly in the store and returns a bearer header value.
func (ta *testApp) token(t *testing.T) string {
	t.Helper()

	user := &users.User{Name: "Admin", Email: "admin@spanco.test"}
	require.NoError(t, user.Password.Set("password"))
	require.NoError(t, ta.users.Create(context.Background(), user))

	token, err := ta.authenticator.GenerateToken(user.ID)
	require.NoError(t, err)
	return "Bearer " + token
}

func (ta *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ta.handler.ServeHTTP(rr, req)
	return rr
}

func jsonRequest(t *testing.T, method, target, bearer string, body any) *http.Request {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	return req
}

func multipartRequest(t *testing.T, method, target, bearer string, fields map[string][]string, filename string, file []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	return req
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func basicAuth(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}
