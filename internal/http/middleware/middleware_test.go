package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bathcraft/washroom-api/internal/auth"
	"github.com/bathcraft/washroom-api/internal/config"
	"github.com/bathcraft/washroom-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, method, path, remoteAddr string) int {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())
	handler := rl.LimitByIP(okHandler())

	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, http.MethodGet, "/api/v1/brands", "192.168.1.1:12345"))
	}
}

func TestRateLimiter_LimitByIP(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}, zap.NewNop())
	handler := rl.LimitByIP(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, http.MethodGet, "/api/v1/brands", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, hit(handler, http.MethodGet, "/api/v1/brands", "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, http.MethodGet, "/api/v1/brands", "10.0.0.1:1002"))

	// Other clients keep their own budget
	assert.Equal(t, http.StatusOK, hit(handler, http.MethodGet, "/api/v1/brands", "10.0.0.2:1000"))
}

func TestRateLimiter_LimitEstimates(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, EstimatesPerMinute: 1}, zap.NewNop())
	handler := rl.LimitEstimates(okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, http.MethodPost, "/api/v1/estimates", "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, http.MethodPost, "/api/v1/estimates", "10.0.0.1:1000"))
	// The calculate endpoint is counted separately
	assert.Equal(t, http.StatusOK, hit(handler, http.MethodPost, "/api/v1/estimates/calculate", "10.0.0.1:1000"))
}

func TestRateLimiter_Whitelists(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 1,
		WhitelistIPs:      []string{"127.0.0.1"},
		WhitelistPaths:    []string{"/health/*"},
	}, zap.NewNop())
	handler := rl.LimitByIP(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, http.MethodGet, "/api/v1/brands", "127.0.0.1:5000"))
		assert.Equal(t, http.StatusOK, hit(handler, http.MethodGet, "/health/db", "10.0.0.9:5000"))
	}
}

func TestRateLimiter_ForwardedFor(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}, zap.NewNop())
	handler := rl.LimitByIP(okHandler())

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil)
		req.RemoteAddr = "10.0.0.254:443"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.5, 10.0.0.254"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.5"))
	assert.Equal(t, http.StatusOK, send("203.0.113.6"))
}

func TestRateLimiter_LimitAdminByPrincipal(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}, zap.NewNop())
	handler := rl.LimitAdmin(okHandler())

	send := func(subject string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/projects", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		req = req.WithContext(auth.WithPrincipal(context.Background(), &auth.Principal{Subject: subject, Method: auth.MethodJWT}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("asha"))
	assert.Equal(t, http.StatusTooManyRequests, send("asha"))
	assert.Equal(t, http.StatusOK, send("ravi"))
}

func TestCORS(t *testing.T) {
	base := config.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}

	preflight := func(cfg config.CORSConfig, env, origin string) string {
		handler := middleware.CORS(&cfg, env, zap.NewNop())(okHandler())
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/estimates", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Header().Get("Access-Control-Allow-Origin")
	}

	t.Run("development allows all", func(t *testing.T) {
		assert.Equal(t, "http://localhost:3000", preflight(base, "development", "http://localhost:3000"))
	})

	t.Run("explicit origins", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"https://bathcraft.in"}
		assert.Equal(t, "https://bathcraft.in", preflight(cfg, "production", "https://bathcraft.in"))
		assert.Empty(t, preflight(cfg, "production", "https://evil.example"))
	})

	t.Run("production without origins denies", func(t *testing.T) {
		assert.Empty(t, preflight(base, "production", "https://bathcraft.in"))
	})

	t.Run("wildcard", func(t *testing.T) {
		cfg := base
		cfg.AllowedOrigins = []string{"*"}
		assert.Equal(t, "https://anyone.example", preflight(cfg, "staging", "https://anyone.example"))
	})
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}

	w := httptest.NewRecorder()
	middleware.SecurityHeaders(cfg)(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	assert.Empty(t, w.Header().Get("Permissions-Policy"))
}

func TestRecoverer(t *testing.T) {
	handler := middleware.Recoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}

func TestLogging_RequestID(t *testing.T) {
	handler := middleware.Logging(zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
