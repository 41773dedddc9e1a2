package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"payscribe/internal/transport/http/api"
)

// RateLimitKeyFunc picks the identity a request is counted against.
type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*limiter)

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(l *limiter) {
		if fn != nil {
			l.keyFn = fn
		}
	}
}

// sweepThreshold bounds how many idle buckets accumulate before expired ones are dropped.
const sweepThreshold = 1024

type bucket struct {
	count int
	reset time.Time
}

type decision struct {
	allowed   bool
	limit     int
	remaining int
	resetIn   time.Duration
}

// limiter is a fixed-window counter per key.
type limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	buckets map[string]*bucket
}

func newLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc) *limiter {
	if keyFn == nil {
		keyFn = actorOrIPKey
	}
	return &limiter{limit: limit, window: window, keyFn: keyFn, buckets: map[string]*bucket{}}
}

func (l *limiter) take(key string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buckets) >= sweepThreshold {
		for k, b := range l.buckets {
			if now.After(b.reset) {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.reset) {
		b = &bucket{reset: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.count++
	return decision{
		allowed:   b.count <= l.limit,
		limit:     l.limit,
		remaining: max(l.limit-b.count, 0),
		resetIn:   b.reset.Sub(now),
	}
}

// admit counts the request and writes the 429 envelope when the key is over its limit.
func (l *limiter) admit(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	d := l.take(key, time.Now())

	resetSec := ceilSeconds(d.resetIn)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if d.allowed {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", d.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// RateLimit applies one limit to every request passing through it.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	l := newLimiter(limit, window, actorOrIPKey)
	for _, opt := range opts {
		opt(l)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

type rateScope int

const (
	scopeNone rateScope = iota
	scopeLogin
	scopeOperator
)

type routeRule struct {
	method string
	path   string
	prefix bool
	scope  rateScope
}

// sensitiveRoutes are the writes that touch many rows or credentials.
var sensitiveRoutes = []routeRule{
	{method: http.MethodPost, path: "/auth/login", scope: scopeLogin},
	{method: http.MethodPost, path: "/payroll/runs", scope: scopeOperator},
	{method: http.MethodPost, path: "/attendance/apply", scope: scopeOperator},
	{method: http.MethodPost, path: "/employees/import", scope: scopeOperator},
	{method: http.MethodPut, path: "/bonuses/", prefix: true, scope: scopeOperator},
	{method: http.MethodDelete, path: "/invoices/", prefix: true, scope: scopeOperator},
	{method: http.MethodDelete, path: "/departments/", prefix: true, scope: scopeOperator},
}

func scopeOf(r *http.Request) rateScope {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	for _, rule := range sensitiveRoutes {
		if r.Method != rule.method {
			continue
		}
		if path == rule.path || (rule.prefix && strings.HasPrefix(path, rule.path)) {
			return rule.scope
		}
	}
	return scopeNone
}

// SensitiveMutationRateLimit throttles login attempts (per IP and per email) and bulk or
// destructive operator actions; every other request passes untouched.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	loginLimit := max(baseLimit/4, 1)
	loginByIP := newLimiter(loginLimit, window, clientIPKey)
	loginByEmail := newLimiter(loginLimit, window, AuthEmailOrIPKey("email"))
	operator := newLimiter(max(baseLimit/2, 1), window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch scopeOf(r) {
			case scopeLogin:
				if !loginByIP.admit(w, r) || !loginByEmail.admit(w, r) {
					return
				}
			case scopeOperator:
				if !operator.admit(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthEmailOrIPKey counts by the lower-cased email in a JSON body, falling back to the client IP.
func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	if field = strings.TrimSpace(field); field == "" {
		field = "email"
	}
	return func(r *http.Request) string {
		if email := strings.ToLower(peekJSONString(r, field)); email != "" {
			return "email:" + email
		}
		return clientIPKey(r)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return "ip:" + first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return "ip:" + host
	}
	return "ip:" + r.RemoteAddr
}

// peekJSONString reads one string field from a JSON body and restores the body for the handler.
func peekJSONString(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
