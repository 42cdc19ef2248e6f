package model

import (
	"strings"
	"time"
)

// User represents a user in the database.
type User struct {
	ID               string
	Name             string
	Email            string
	Password         string
	Permissions      Permissions
	ResetToken       string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Sanitized returns a copy without the password hash or reset token.
func (u User) Sanitized() *User {
	u.Password = ""
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
	u.Permissions = append(Permissions(nil), u.Permissions...)
	return &u
}

// NormalizeEmail trims and lowercases an address so lookups match signup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Email    string
	Password string
	Name     string
}

// SigninRequest represents a user login request.
type SigninRequest struct {
	Email    string
	Password string
}

// ResetPasswordRequest carries the reset token and the new password twice.
type ResetPasswordRequest struct {
	ResetToken      string
	Password        string
	ConfirmPassword string
}

// AuthResponse is a freshly issued session token and the user it belongs to.
type AuthResponse struct {
	Token string
	User  *User
}
