package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func rateLimitedRequest(t *testing.T, mw echo.MiddlewareFunc, ip string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	return mw(handler)(c)
}

func TestRateLimit_RequestsWithinLimit(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	for i := 0; i < 5; i++ {
		if err := rateLimitedRequest(t, mw, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i, err)
		}
	}
}

func TestRateLimit_ExceedsLimit(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 2})

	for i := 0; i < 2; i++ {
		if err := rateLimitedRequest(t, mw, "10.0.0.2"); err != nil {
			t.Fatalf("request %d within burst: %v", i, err)
		}
	}

	err := rateLimitedRequest(t, mw, "10.0.0.2")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %v", err)
	}
}

func TestRateLimit_SetsRetryAfterHeader(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	e := echo.New()
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	// Exhaust the single token.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	if err := mw(handler)(c); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := mw(handler)(c); err == nil {
		t.Fatal("expected rate limit error")
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining: got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	if err := rateLimitedRequest(t, mw, "10.0.0.4"); err != nil {
		t.Fatalf("first ip: %v", err)
	}
	// First IP is exhausted, a second IP still gets through.
	if err := rateLimitedRequest(t, mw, "10.0.0.4"); err == nil {
		t.Fatal("first ip should be limited")
	}
	if err := rateLimitedRequest(t, mw, "10.0.0.5"); err != nil {
		t.Errorf("second ip should be unaffected: %v", err)
	}
}

func TestDefaultLoginRateLimit(t *testing.T) {
	cfg := DefaultLoginRateLimit()
	if cfg.RequestsPerSecond <= 0 || cfg.BurstSize <= 0 {
		t.Errorf("unusable defaults: %+v", cfg)
	}
}

func TestTokenBucket_RetryAfterWithZeroRate(t *testing.T) {
	b := newTokenBucket(0, 1)
	b.allow()
	if got := b.retryAfter(); got < 1 {
		t.Errorf("retryAfter: got %d, want >= 1", got)
	}
}
