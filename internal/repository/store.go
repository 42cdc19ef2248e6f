package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sickfits/sickfits-go/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrItemNotFound       = errors.New("item not found")
	ErrResetTokenConsumed = errors.New("reset token no longer matches")
)

// UserStore persists users, their permissions and their reset tokens.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByResetToken finds the user whose token matches and whose expiry is after now.
	GetUserByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	// ConsumeResetToken replaces the password and clears the token only if the
	// token still matches and has not expired. It returns ErrResetTokenConsumed otherwise.
	ConsumeResetToken(ctx context.Context, userID, token string, now time.Time, passwordHash string) error
	UpdatePermissions(ctx context.Context, userID string, perms model.Permissions) error
}

// ItemStore persists items.
type ItemStore interface {
	CreateItem(ctx context.Context, item *model.Item) error
	GetItem(ctx context.Context, id string) (*model.Item, error)
	// ListItems returns items newest first.
	ListItems(ctx context.Context, skip, first int) ([]model.Item, error)
	CountItems(ctx context.Context) (int, error)
	UpdateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}
