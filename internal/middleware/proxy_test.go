package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustProxy_RateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		trust    bool
		wantLast int
	}{
		{"forwarded header ignored by default", false, http.StatusTooManyRequests},
		{"forwarded header honoured behind proxy", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			limited := RateLimit(NewIPLimiter(ctx, 1, 1), nil, discardLogger())(okHandler())
			h := TrustProxy(tt.trust)(limited)

			send := func(forwarded string) int {
				req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
				req.RemoteAddr = "10.0.0.1:1234"
				req.Header.Set("X-Forwarded-For", forwarded)
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				return rec.Code
			}

			if code := send("198.51.100.1"); code != http.StatusOK {
				t.Fatalf("first request status = %d, want 200", code)
			}
			if code := send("198.51.100.2"); code != tt.wantLast {
				t.Fatalf("second request status = %d, want %d", code, tt.wantLast)
			}
		})
	}
}
