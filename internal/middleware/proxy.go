package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// TrustProxy rewrites RemoteAddr from X-Forwarded-For or X-Real-IP when
// enabled. Disabled, forwarding headers are ignored so clients cannot pick
// the address the rate limiter keys on.
func TrustProxy(enabled bool) func(http.Handler) http.Handler {
	if enabled {
		return middleware.RealIP
	}
	return func(next http.Handler) http.Handler { return next }
}
