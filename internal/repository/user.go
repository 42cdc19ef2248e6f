package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sickfits/sickfits-go/internal/model"
)

const userColumns = `id, name, email, password, permissions, reset_token, reset_token_expiry, created_at, updated_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user, assigning an ID and timestamps when unset.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	perms, err := encodePermissions(user.Permissions)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, name, email, password, permissions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Password, perms, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by their email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetUserByResetToken retrieves the user holding an unexpired reset token.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = ? AND reset_token_expiry > ?`
	return scanUser(r.db.QueryRowContext(ctx, query, token, now.UTC()))
}

// ListUsers returns every user in signup order.
func (r *UserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	return users, rows.Err()
}

// SetResetToken stores a reset token and its expiry, replacing any earlier token.
func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	query := `UPDATE users SET reset_token = ?, reset_token_expiry = ?, updated_at = ? WHERE id = ?`
	return r.execOne(ctx, ErrUserNotFound, query, token, expiry.UTC(), time.Now().UTC(), userID)
}

// ConsumeResetToken swaps in a new password hash in a single conditional update,
// so two concurrent resets with the same token cannot both succeed.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, userID, token string, now time.Time, passwordHash string) error {
	query := `UPDATE users
		SET password = ?, reset_token = NULL, reset_token_expiry = NULL, updated_at = ?
		WHERE id = ? AND reset_token = ? AND reset_token_expiry > ?`
	return r.execOne(ctx, ErrResetTokenConsumed, query, passwordHash, time.Now().UTC(), userID, token, now.UTC())
}

// UpdatePermissions replaces a user's permission set.
func (r *UserRepository) UpdatePermissions(ctx context.Context, userID string, perms model.Permissions) error {
	encoded, err := encodePermissions(perms)
	if err != nil {
		return err
	}

	query := `UPDATE users SET permissions = ?, updated_at = ? WHERE id = ?`
	return r.execOne(ctx, ErrUserNotFound, query, encoded, time.Now().UTC(), userID)
}

// execOne runs an update and returns notFound when no row changed.
func (r *UserRepository) execOne(ctx context.Context, notFound error, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(result, notFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		user       model.User
		perms      []byte
		resetToken sql.NullString
		expiry     sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &perms,
		&resetToken, &expiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Permissions, err = decodePermissions(perms); err != nil {
		return nil, err
	}
	user.ResetToken = resetToken.String
	if expiry.Valid {
		t := expiry.Time
		user.ResetTokenExpiry = &t
	}

	return &user, nil
}

func encodePermissions(perms model.Permissions) (string, error) {
	if perms == nil {
		perms = model.Permissions{}
	}
	b, err := json.Marshal(perms)
	if err != nil {
		return "", fmt.Errorf("encode permissions: %w", err)
	}
	return string(b), nil
}

func decodePermissions(raw []byte) (model.Permissions, error) {
	if len(raw) == 0 {
		return model.Permissions{}, nil
	}
	var perms model.Permissions
	if err := json.Unmarshal(raw, &perms); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return perms, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
