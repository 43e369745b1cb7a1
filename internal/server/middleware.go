package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagsync/internal/shared"
	"golang.org/x/time/rate"
)

// LoggingMiddleware logs one line per request with a generated request id.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.Info("request",
				"id", shared.GenerateID(),
				"method", r.Method,
				"path", r.URL.Path,
				"ip", clientIP(r),
				"duration", time.Since(start),
			)
		})
	}
}

// RecoverMiddleware converts handler panics into a 500 response so one bad
// request cannot take the listener down.
func RecoverMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic", "path", r.URL.Path, "error", rec)
					writeJSON(w, http.StatusInternalServerError, failureResponse(fmt.Sprintf("Server error: %v", rec)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware answers preflight requests and marks every response as
// callable from any origin. Automation platforms fire the webhook from
// browser contexts as well as servers.
func CORSMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Webhook-Secret")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecretMiddleware rejects requests whose X-Webhook-Secret header does not
// match the configured shared secret. An empty configured secret disables
// the check.
func SecretMiddleware(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Webhook-Secret") != secret {
				writeJSON(w, http.StatusUnauthorized, failureResponse("Invalid webhook secret"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ipLimiter hands out one token bucket per client address.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.clients[ip] = limiter
	}

	return limiter
}

// RateLimitMiddleware applies a per-IP token bucket to the wrapped routes.
// Requests over the limit get a 429 without entering the pipeline.
func RateLimitMiddleware(rps float64, burst int, logger *log.Logger) Middleware {
	limiter := newIPLimiter(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !limiter.get(ip).Allow() {
				logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				writeJSON(w, http.StatusTooManyRequests, failureResponse("Rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, preferring proxy headers over the
// socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
