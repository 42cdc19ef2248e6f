package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sickfits/sickfits-go/internal/model"
	"github.com/sickfits/sickfits-go/internal/session"
)

// TokenVerifier resolves a session token to a user ID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLoader loads the user a session token points at.
type UserLoader interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
}

// Session returns middleware that resolves the session cookie to an actor and
// attaches a session.Request to the request context. A missing cookie, a bad
// signature or an unknown user all leave the request anonymous.
func Session(verifier TokenVerifier, users UserLoader, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := resolveActor(r, verifier, users, logger)
			req := session.NewRequest(w, actor, secure)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), req)))
		})
	}
}

func resolveActor(r *http.Request, verifier TokenVerifier, users UserLoader, logger *slog.Logger) *model.User {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	userID, err := verifier.Verify(cookie.Value)
	if err != nil {
		logger.Debug("ignoring session cookie", slog.String("error", err.Error()))
		return nil
	}

	user, err := users.GetUser(r.Context(), userID)
	if err != nil {
		logger.Debug("session user not loaded",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return user
}
