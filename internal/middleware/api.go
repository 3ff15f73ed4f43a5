// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides the HTTP middleware of the content API:
// admin authentication, locale prefixes, rate limiting and response headers.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Error codes shared by the middleware and the API handlers.
const (
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeRateLimited       = "rate_limit_exceeded"
	CodeTimeout           = "timeout"
	CodeUnsupportedLocale = "unsupported_locale"
)

// APIError represents a JSON error response for the API.
type APIError struct {
	Error APIErrorBody `json:"error"`
}

// APIErrorBody is the payload of an APIError.
type APIErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteAPIError writes a JSON error response. Server errors are never cached.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	if statusCode >= http.StatusInternalServerError {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(APIError{Error: APIErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// ClientIP returns the request's client address without the port.
// chi's RealIP middleware has already applied proxy headers to RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterCache is a keyed rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*limiterEntry
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// allow reports whether key may proceed now.
func (lc *limiterCache[K]) allow(key K, now time.Time) bool {
	lc.mu.RLock()
	entry, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if !exists {
		lc.mu.Lock()
		// Double-check after acquiring write lock
		if entry, exists = lc.limiters[key]; !exists {
			entry = &limiterEntry{limiter: rate.NewLimiter(lc.rate, lc.burst)}
			lc.limiters[key] = entry
		}
		lc.mu.Unlock()
	}

	lc.mu.Lock()
	entry.lastSeen = now
	lc.mu.Unlock()
	return entry.limiter.AllowN(now, 1)
}

// prune drops limiters idle for longer than idle and returns how many were dropped.
func (lc *limiterCache[K]) prune(idle time.Duration, now time.Time) int {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	n := 0
	for k, e := range lc.limiters {
		if now.Sub(e.lastSeen) > idle {
			delete(lc.limiters, k)
			n++
		}
	}
	return n
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	cache *limiterCache[string]
	now   func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		cache: newLimiterCache[string](rps, burst),
		now:   time.Now,
	}
}

// Middleware rejects clients over their rate with a JSON 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !rl.cache.allow(ip, rl.now()) {
			slog.Warn("api rate limit exceeded", "ip", ip, "path", r.URL.Path)
			WriteAPIError(w, http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded. Please slow down.", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune drops limiters of clients idle for longer than idle.
func (rl *RateLimiter) Prune(idle time.Duration) int {
	return rl.cache.prune(idle, rl.now())
}
