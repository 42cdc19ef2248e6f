package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sickfits/sickfits-go/internal/crypto"
	"github.com/sickfits/sickfits-go/internal/repository"
)

type sentMail struct {
	to    string
	token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, token: token})
	return nil
}

func (m *fakeMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var errMailDown = errors.New("smtp unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixture struct {
	svc    *AuthService
	store  *repository.MemoryStore
	mailer *fakeMailer
	signer *crypto.SessionSigner
	clock  *fakeClock
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		store:  repository.NewMemoryStore(),
		mailer: &fakeMailer{},
		signer: crypto.NewSessionSigner("test-secret", 0),
		clock:  &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.svc = NewAuthService(
		f.store,
		crypto.NewPasswordHasher(bcrypt.MinCost),
		f.signer,
		f.mailer,
		discardLogger(),
		WithClock(f.clock.Now),
	)
	return f
}
