package service

import "errors"

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrPasswordRequired = errors.New("password is required")
	ErrNameRequired     = errors.New("name is required")
	ErrEmailTaken       = errors.New("email already taken")

	ErrUserNotFound          = errors.New("no such user found")
	ErrInvalidCredentials    = errors.New("invalid password")
	ErrPasswordMismatch      = errors.New("your passwords do not match")
	ErrInvalidOrExpiredToken = errors.New("this token is either invalid or expired")
	ErrUnknownPermission     = errors.New("unknown permission")

	ErrItemNotFound        = errors.New("item not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidPrice        = errors.New("price must not be negative")
)
