package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payscribe/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func asOperator(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKeyUser, auth.UserContext{UserID: id, Email: id + "@payscribe.local"}))
}

func loginRequest(email, addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"`+email+`","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = addr
	return req
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestLimiterWindow(t *testing.T) {
	l := newLimiter(2, time.Minute, nil)
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	assert.True(t, l.take("k", now).allowed)
	second := l.take("k", now.Add(time.Second))
	assert.True(t, second.allowed)
	assert.Equal(t, 0, second.remaining)
	assert.False(t, l.take("k", now.Add(2*time.Second)).allowed)
	assert.True(t, l.take("other", now).allowed)

	assert.True(t, l.take("k", now.Add(61*time.Second)).allowed)
}

func TestLimiterSweepsExpiredBuckets(t *testing.T) {
	l := newLimiter(1, time.Second, nil)
	now := time.Now()
	for i := 0; i < sweepThreshold; i++ {
		l.take(string(rune('a'+i%26))+time.Duration(i).String(), now)
	}
	l.take("fresh", now.Add(2*time.Second))
	assert.Len(t, l.buckets, 1)
}

func TestRateLimitKeysByOperatorBeforeIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())

	first := asOperator(httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil), "op-1")
	first.RemoteAddr = "198.51.100.11:2222"
	assert.Equal(t, http.StatusNoContent, serve(limited, first).Code)

	second := asOperator(httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil), "op-1")
	second.RemoteAddr = "198.51.100.12:3333"
	assert.Equal(t, http.StatusTooManyRequests, serve(limited, second).Code)

	anonymous := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil)
	anonymous.RemoteAddr = "198.51.100.12:3333"
	assert.Equal(t, http.StatusNoContent, serve(limited, anonymous).Code)
}

func TestRateLimitRetryHeaders(t *testing.T) {
	limited := RateLimit(1, time.Minute)(noContent())
	serve(limited, loginRequest("a@example.com", "192.0.2.30:1234"))

	rec := serve(limited, loginRequest("a@example.com", "192.0.2.30:1234"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

func TestScopeOf(t *testing.T) {
	cases := []struct {
		method, path string
		want         rateScope
	}{
		{http.MethodPost, "/api/v1/auth/login", scopeLogin},
		{http.MethodPost, "/api/v1/payroll/runs", scopeOperator},
		{http.MethodPut, "/api/v1/bonuses/2025", scopeOperator},
		{http.MethodGet, "/api/v1/bonuses/2025", scopeNone},
		{http.MethodDelete, "/api/v1/invoices/abc", scopeOperator},
		{http.MethodPost, "/api/v1/invoices/kpk", scopeNone},
		{http.MethodGet, "/api/v1/dashboard", scopeNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scopeOf(httptest.NewRequest(tc.method, tc.path, nil)), "%s %s", tc.method, tc.path)
	}
}

func TestSensitiveMutationRateLimitOperatorScope(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		assert.Equal(t, http.StatusNoContent, serve(limited, req).Code, "read %d", i+1)
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := asOperator(httptest.NewRequest(http.MethodPost, "/api/v1/payroll/runs", nil), "op-2")
		codes = append(codes, serve(limited, req).Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestSensitiveMutationRateLimitLogin(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())

	assert.Equal(t, http.StatusNoContent, serve(limited, loginRequest("a@example.com", "198.51.100.50:1000")).Code)
	// Same email from a different address is still counted against the email.
	assert.Equal(t, http.StatusTooManyRequests, serve(limited, loginRequest("A@example.com", "198.51.100.51:1000")).Code)
}

func TestLoginBodyIsRestoredForHandler(t *testing.T) {
	var body string
	limited := SensitiveMutationRateLimit(100, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	}))
	serve(limited, loginRequest("a@example.com", "198.51.100.60:1000"))
	assert.Contains(t, body, `"password":"x"`)
}
