package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/logging"
)

// Manager is the process-wide session object. Construct it once at startup
// and pass it to the request gateway and the services.
type Manager struct {
	store  Store
	logger logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *Session
}

// NewManager restores the stored session, if any. A storage failure is logged
// and leaves the manager signed out.
func NewManager(ctx context.Context, store Store, logger logging.Logger) *Manager {
	m := &Manager{store: store, logger: logger, now: time.Now}

	s, err := store.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "could not restore session", "error", err)
		return m
	}
	if s != nil {
		m.current = s
		logger.Debug(ctx, "session restored", "email", s.Email)
	}
	return m
}

// Current returns a copy of the active session.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// AccessToken returns the bearer token for the next request, or
// ErrNoSession / ErrSessionExpired. An expired session is kept until the user
// signs out or signs in again.
func (m *Manager) AccessToken() (string, error) {
	s, ok := m.Current()
	if !ok {
		return "", ErrNoSession
	}
	if s.Expired(m.now()) {
		return "", ErrSessionExpired
	}
	return s.AccessToken, nil
}

// SignIn persists s and then makes it current. On a storage failure the
// in-memory session is left as it was.
func (m *Manager) SignIn(ctx context.Context, s Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()

	m.logger.Info(ctx, "signed in", "email", s.Email)
	return nil
}

// SignOut clears storage and then memory. The in-memory session is dropped
// even when storage cannot be cleared; that failure is only logged.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error(ctx, "could not remove stored session", "error", err)
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	m.logger.Info(ctx, "signed out")
}
