package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSignature = errors.New("invalid session token")
)

const sessionIssuer = "sickfits"

// Claims represents the JWT claims carried by the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// SessionSigner issues and verifies HS256 session tokens with a process-wide secret.
// A zero ttl issues tokens without an exp claim; the cookie lifetime bounds them instead.
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionSigner creates a SessionSigner.
func NewSessionSigner(secret string, ttl time.Duration) *SessionSigner {
	return &SessionSigner{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token binding userID.
func (s *SessionSigner) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   sessionIssuer,
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: userID,
	}
	if s.ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a token and returns the user ID it carries.
func (s *SessionSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidSignature
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidSignature
	}

	return claims.UserID, nil
}
