package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/agbru/factcalc/internal/config"
)

// SecurityConfig controls response hardening and input limits.
type SecurityConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	AllowedMethods []string
	// MaxNValue is the largest N a request may ask for.
	MaxNValue uint64
	// MaxExactNValue is the largest N for the arbitrary-precision strategy,
	// whose result grows as N log N bits.
	MaxExactNValue uint64
	// MaxWorkers is the largest worker count a request may ask for.
	MaxWorkers int
}

// DefaultSecurityConfig allows any origin to issue read-only requests.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxNValue:      1_000_000_000,
		MaxExactNValue: 1_000_000,
		MaxWorkers:     config.MaxWorkers,
	}
}

// SecurityMiddleware sets security headers and CORS headers on every response
// and answers preflight requests itself.
func SecurityMiddleware(cfg SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if cfg.EnableCORS {
			if origin, ok := allowedOrigin(cfg.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// allowedOrigin returns the value for Access-Control-Allow-Origin. A wildcard
// entry matches every request, with or without an Origin header.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	if slices.Contains(allowed, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin, true
	}
	return "", false
}
