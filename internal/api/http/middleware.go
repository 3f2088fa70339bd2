package http

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"mobile-detailing-backend/internal/config"
	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type claimsKey struct{}

// claimsFromContext returns the caller's token claims, or nil for an anonymous caller.
func claimsFromContext(ctx context.Context) *security.CustomerClaims {
	c, _ := ctx.Value(claimsKey{}).(*security.CustomerClaims)
	return c
}

func customerIDFromContext(ctx context.Context) string {
	if c := claimsFromContext(ctx); c != nil {
		return c.CustomerID
	}
	return ""
}

// requestIDMiddleware propagates or generates X-Request-ID and puts it on the context logger.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), requestID)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "Panic while handling request", "path", r.URL.Path, "panic", rec)
				writeJSON(w, http.StatusInternalServerError, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware enforces the security level configured for the matched route.
// Public routes still parse a valid bearer token so a signed-in customer is
// recognised, but a missing or bad token never blocks them.
type authMiddleware struct {
	tokens security.TokenManager
}

func (a *authMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeKey(r))

		var claims *security.CustomerClaims
		if token := bearerToken(r); token != "" {
			c, err := a.tokens.ValidateToken(token)
			if err == nil {
				claims = c
			} else if level != config.SecurityPublic {
				writeError(w, r, domain.ErrUnauthorized, nil)
				return
			}
		}

		switch level {
		case config.SecurityCustomer:
			if claims == nil {
				writeError(w, r, domain.ErrUnauthorized, nil)
				return
			}
		case config.SecurityAdmin:
			if claims == nil {
				writeError(w, r, domain.ErrUnauthorized, nil)
				return
			}
			if !claims.IsAdmin() {
				writeError(w, r, domain.ErrForbidden, nil)
				return
			}
		}

		if claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// routeKey is "METHOD /path-template" for the matched mux route.
func routeKey(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.Method + " " + r.URL.Path
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return r.Method + " " + r.URL.Path
	}
	return r.Method + " " + tpl
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// ipRateLimiter keeps one token bucket per client IP. Forwarding headers
// are only read when the connection comes from a trusted proxy.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	trusted  []netip.Prefix
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(perMinute, burst int, trusted []netip.Prefix) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		trusted:  trusted,
	}
}

func (l *ipRateLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) > 10000 {
			l.pruneLocked(now)
		}
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *ipRateLimiter) pruneLocked(now time.Time) {
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, ip)
		}
	}
}

func (l *ipRateLimiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, l.trusted)
		if !l.allow(ip, time.Now()) {
			logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			writeError(w, r, errTooManyRequests, nil)
			return
		}
		next(w, r)
	}
}

// clientIP returns the address the limiter keys on. A direct connection is
// keyed on RemoteAddr whatever headers it sends. Behind a trusted proxy the
// X-Forwarded-For chain is walked from the right, skipping trusted hops, so
// a client cannot pick its own key by prepending entries.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil || !isTrusted(addr, trusted) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		leftmost := ""
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !isTrusted(hop, trusted) {
				return hop.Unmap().String()
			}
			leftmost = hop.Unmap().String()
		}
		if leftmost != "" {
			return leftmost
		}
	}
	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return remote
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
