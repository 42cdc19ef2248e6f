package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/sickfits/sickfits-go/internal/authz"
	"github.com/sickfits/sickfits-go/internal/crypto"
	"github.com/sickfits/sickfits-go/internal/metrics"
	"github.com/sickfits/sickfits-go/internal/model"
	"github.com/sickfits/sickfits-go/internal/repository"
)

// ResetTokenTTL is how long a password reset token stays valid after issue.
const ResetTokenTTL = time.Hour

// SessionIssuer signs session tokens for a user ID.
type SessionIssuer interface {
	Issue(userID string) (string, error)
}

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}

// AuthService handles signup, signin, password reset and user administration.
type AuthService struct {
	users   repository.UserStore
	hasher  *crypto.PasswordHasher
	signer  SessionIssuer
	mailer  Mailer
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mailWG sync.WaitGroup
}

// AuthOption configures optional AuthService dependencies.
type AuthOption func(*AuthService)

// WithClock overrides the time source used for reset token expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithMetrics records auth events on m.
func WithMetrics(m *metrics.Metrics) AuthOption {
	return func(s *AuthService) { s.metrics = m }
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, hasher *crypto.PasswordHasher, signer SessionIssuer, mailer Mailer, logger *slog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:  users,
		hasher: hasher,
		signer: signer,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates an account with the USER permission and issues a session token.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	email, err := validateEmail(req.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.AuthResponse{}, ErrNameRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Name:        name,
		Email:       email,
		Password:    hash,
		Permissions: model.NewPermissions(model.PermissionUser),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.metrics.AuthEvent("signup", "conflict")
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	s.metrics.AuthEvent("signup", "ok")
	s.logger.Info("user signed up", slog.String("user_id", user.ID))
	return s.session(user)
}

// Signin checks credentials and issues a session token.
func (s *AuthService) Signin(ctx context.Context, req model.SigninRequest) (model.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.AuthEvent("signin", "unknown_email")
			return model.AuthResponse{}, ErrUserNotFound
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		s.metrics.AuthEvent("signin", "invalid_credentials")
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	s.metrics.AuthEvent("signin", "ok")
	return s.session(user)
}

// GetUser retrieves a user by ID without secrets.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Sanitized(), nil
}

// RequestReset stores a fresh reset token for the account and mails it.
// Delivery happens in the background; a failed send leaves the token in place.
func (s *AuthService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.AuthEvent("request_reset", "unknown_email")
			return ErrUserNotFound
		}
		return err
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(ResetTokenTTL)); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	s.metrics.AuthEvent("request_reset", "ok")

	s.mailWG.Add(1)
	go func(ctx context.Context, to, userID string) {
		defer s.mailWG.Done()
		if err := s.mailer.SendPasswordReset(ctx, to, token); err != nil {
			s.metrics.ResetMail("failed")
			s.logger.Error("failed to send reset email",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			return
		}
		s.metrics.ResetMail("sent")
	}(context.WithoutCancel(ctx), user.Email, user.ID)

	return nil
}

// Signout records the end of a session. Clearing the cookie is up to the
// caller; an anonymous signout is counted separately.
func (s *AuthService) Signout(actor *model.User) {
	if actor == nil {
		s.metrics.AuthEvent("signout", "no_session")
		return
	}
	s.metrics.AuthEvent("signout", "ok")
}

// WaitForMail blocks until every in-flight reset email has been attempted.
func (s *AuthService) WaitForMail() {
	s.mailWG.Wait()
}

// ResetPassword consumes a reset token, sets the new password and issues a session token.
func (s *AuthService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (model.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return model.AuthResponse{}, ErrPasswordMismatch
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	now := s.now()
	user, err := s.users.GetUserByResetToken(ctx, req.ResetToken, now)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.AuthEvent("reset_password", "invalid_token")
			return model.AuthResponse{}, ErrInvalidOrExpiredToken
		}
		return model.AuthResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := s.users.ConsumeResetToken(ctx, user.ID, req.ResetToken, now, hash); err != nil {
		if errors.Is(err, repository.ErrResetTokenConsumed) {
			s.metrics.AuthEvent("reset_password", "invalid_token")
			return model.AuthResponse{}, ErrInvalidOrExpiredToken
		}
		return model.AuthResponse{}, fmt.Errorf("consume reset token: %w", err)
	}

	s.metrics.AuthEvent("reset_password", "ok")
	s.logger.Info("password reset", slog.String("user_id", user.ID))
	return s.session(user)
}

// ListUsers returns every user. The actor needs ADMIN or PERMISSIONUPDATE.
func (s *AuthService) ListUsers(ctx context.Context, actor *model.User) ([]*model.User, error) {
	if err := authz.CanManagePermissions(actor); err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*model.User, len(users))
	for i := range users {
		out[i] = users[i].Sanitized()
	}
	return out, nil
}

// UpdatePermissions replaces the permission set of userID.
func (s *AuthService) UpdatePermissions(ctx context.Context, actor *model.User, userID string, labels []string) (*model.User, error) {
	if err := authz.CanManagePermissions(actor); err != nil {
		return nil, err
	}

	perms := make([]model.Permission, 0, len(labels))
	for _, label := range labels {
		p, ok := model.ParsePermission(label)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPermission, label)
		}
		perms = append(perms, p)
	}

	if err := s.users.UpdatePermissions(ctx, userID, model.NewPermissions(perms...)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.logger.Info("permissions updated",
		slog.String("actor_id", actor.ID),
		slog.String("user_id", userID),
		slog.Any("permissions", perms),
	)
	return s.GetUser(ctx, userID)
}

func (s *AuthService) session(user *model.User) (model.AuthResponse, error) {
	token, err := s.signer.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issue session: %w", err)
	}
	return model.AuthResponse{Token: token, User: user.Sanitized()}, nil
}

func validateEmail(raw string) (string, error) {
	email := model.NormalizeEmail(raw)
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
