// Package session carries the per-request actor and cookie writer from the
// HTTP layer down to resolvers.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/sickfits/sickfits-go/internal/model"
)

const (
	// CookieName is the cookie holding the signed session token.
	CookieName = "token"
	// CookieMaxAge keeps the session cookie for one year.
	CookieMaxAge = 365 * 24 * time.Hour
)

type contextKey struct{}

// Request is the explicit per-request context: who is calling and how to
// change their session cookie.
type Request struct {
	Actor *model.User

	w      http.ResponseWriter
	secure bool
}

// NewRequest creates a Request that writes cookies to w.
func NewRequest(w http.ResponseWriter, actor *model.User, secure bool) *Request {
	return &Request{Actor: actor, w: w, secure: secure}
}

// SetToken sets the session cookie and switches the actor for the rest of the request.
func (r *Request) SetToken(token string, actor *model.User) {
	http.SetCookie(r.w, r.cookie(token, int(CookieMaxAge.Seconds())))
	r.Actor = actor
}

// Clear expires the session cookie and drops the actor.
func (r *Request) Clear() {
	http.SetCookie(r.w, r.cookie("", -1))
	r.Actor = nil
}

func (r *Request) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewContext returns a copy of ctx carrying req.
func NewContext(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, req)
}

// FromContext returns the Request stored in ctx, if any.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(contextKey{}).(*Request)
	return req, ok && req != nil
}

// Actor returns the signed-in user for ctx, or nil.
func Actor(ctx context.Context) *model.User {
	if req, ok := FromContext(ctx); ok {
		return req.Actor
	}
	return nil
}
