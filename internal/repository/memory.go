package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/sickfits-go/internal/model"
)

// MemoryStore keeps users and items in process memory. It implements both
// UserStore and ItemStore and is used when no database is configured.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[string]*model.User
	userOrder []string
	byEmail   map[string]string

	items     map[string]*model.Item
	itemOrder []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
		items:   make(map[string]*model.Item),
	}
}

// PingContext always succeeds.
func (s *MemoryStore) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	s.users[user.ID] = copyUser(user)
	s.userOrder = append(s.userOrder, user.ID)
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, ErrUserNotFound
	}
	return copyUser(s.users[id]), nil
}

func (s *MemoryStore) GetUserByResetToken(_ context.Context, token string, now time.Time) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if token == "" {
		return nil, ErrUserNotFound
	}
	for _, id := range s.userOrder {
		u := s.users[id]
		if resetTokenValid(u, token, now) {
			return copyUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		users = append(users, *copyUser(s.users[id]))
	}
	return users, nil
}

func (s *MemoryStore) SetResetToken(_ context.Context, userID, token string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}
	expiry = expiry.UTC()
	u.ResetToken = token
	u.ResetTokenExpiry = &expiry
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ConsumeResetToken(_ context.Context, userID, token string, now time.Time, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists || !resetTokenValid(u, token, now) {
		return ErrResetTokenConsumed
	}
	u.Password = passwordHash
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) UpdatePermissions(_ context.Context, userID string, perms model.Permissions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}
	u.Permissions = append(model.Permissions{}, perms...)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) CreateItem(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	it := *item
	s.items[it.ID] = &it
	s.itemOrder = append(s.itemOrder, it.ID)
	return nil
}

func (s *MemoryStore) GetItem(_ context.Context, id string) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, exists := s.items[id]
	if !exists {
		return nil, ErrItemNotFound
	}
	out := *it
	return &out, nil
}

func (s *MemoryStore) ListItems(_ context.Context, skip, first int) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.Item, 0, first)
	for i := len(s.itemOrder) - 1 - skip; i >= 0 && len(items) < first; i-- {
		items = append(items, *s.items[s.itemOrder[i]])
	}
	return items, nil
}

func (s *MemoryStore) CountItems(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items), nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.items[item.ID]
	if !exists {
		return ErrItemNotFound
	}
	item.UpdatedAt = time.Now().UTC()
	existing.Title = item.Title
	existing.Description = item.Description
	existing.Image = item.Image
	existing.LargeImage = item.LargeImage
	existing.Price = item.Price
	existing.UpdatedAt = item.UpdatedAt
	return nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrItemNotFound
	}
	delete(s.items, id)
	for i, itemID := range s.itemOrder {
		if itemID == id {
			s.itemOrder = append(s.itemOrder[:i], s.itemOrder[i+1:]...)
			break
		}
	}
	return nil
}

func resetTokenValid(u *model.User, token string, now time.Time) bool {
	return u.ResetToken != "" &&
		u.ResetToken == token &&
		u.ResetTokenExpiry != nil &&
		u.ResetTokenExpiry.After(now)
}

func copyUser(u *model.User) *model.User {
	out := *u
	out.Permissions = append(model.Permissions{}, u.Permissions...)
	if u.ResetTokenExpiry != nil {
		t := *u.ResetTokenExpiry
		out.ResetTokenExpiry = &t
	}
	return &out
}
