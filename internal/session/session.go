// Package session tracks signed-in users and per-browser view state.
// Sessions are cookie-token based and kept in memory; the registry of
// users lives here too, with bcrypt password hashes.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arqvlabs/arqv30/internal/analysis"
)

// View identifies which page the session should render next.
type View string

const (
	ViewLogin   View = "login"
	ViewSignup  View = "signup"
	ViewForm    View = "form"
	ViewLoading View = "loading"
	ViewResults View = "results"
)

// DefaultTTL is how long an idle session stays valid.
const DefaultTTL = 12 * time.Hour

var (
	ErrInvalidCredentials = errors.New("usuário ou senha inválidos")
	ErrUserExists         = errors.New("e-mail já cadastrado")
	ErrMissingFields      = errors.New("nome, e-mail e senha são obrigatórios")
	ErrNoSession          = errors.New("session not found")
)

// User is a registered account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	passwordHash []byte
}

// Session is one browser's state: who is signed in, which view to
// render, and the single result of the most recent analysis run.
//
// Manager hands out value snapshots, never the live struct: a
// background run may update the session concurrently, so callers work
// on the copy and mutate through Manager methods by token.
type Session struct {
	Token     string
	User      *User
	View      View
	Result    *analysis.Result
	Notice    string // one-shot notification shown on the next render
	ExpiresAt time.Time
}

// UserStore persists registered accounts. The in-memory registry is
// the source of truth for live sessions; the store survives restarts.
type UserStore interface {
	SaveUser(ctx context.Context, u *User, passwordHash []byte) error
	UserByEmail(ctx context.Context, email string) (*User, []byte, error)
}

// Manager owns all sessions and the user registry.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	users    map[string]*User // keyed by lowercase email
	store    UserStore
	ttl      time.Duration
}

// Option configures the manager.
type Option func(*Manager)

// WithUserStore backs the user registry with persistent storage.
func WithUserStore(st UserStore) Option {
	return func(m *Manager) { m.store = st }
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		users:    make(map[string]*User),
		ttl:      DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

const storeTimeout = 5 * time.Second

// ════════════════════════════════════════════════════════════════════
// User registry
// ════════════════════════════════════════════════════════════════════

// Signup registers a new user and returns it.
func (m *Manager) Signup(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// The duplicate check and the insert must be one atomic step, so
	// the lock spans the store round-trip too. Signups are rare enough
	// that serializing them is fine.
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return nil, ErrUserExists
	}

	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if _, _, err := m.store.UserByEmail(ctx, email); err == nil {
			return nil, ErrUserExists
		}
	}

	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		CreatedAt:    time.Now(),
		passwordHash: hash,
	}

	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := m.store.SaveUser(ctx, u, hash); err != nil {
			log.Printf("failed to persist user %s: %v", email, err)
		}
	}

	m.users[email] = u
	return u, nil
}

// Login checks credentials and returns the user. A registry miss falls
// through to the persistent store when one is configured.
func (m *Manager) Login(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	m.mu.RLock()
	u, ok := m.users[email]
	m.mu.RUnlock()

	if !ok && m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		stored, hash, err := m.store.UserByEmail(ctx, email)
		if err == nil {
			stored.passwordHash = hash
			m.mu.Lock()
			m.users[email] = stored
			m.mu.Unlock()
			u, ok = stored, true
		}
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ════════════════════════════════════════════════════════════════════
// Sessions
// ════════════════════════════════════════════════════════════════════

// Start creates a session for a user (nil for anonymous) and returns
// its cookie token. Signed-in sessions land on the form, anonymous
// ones on the login page.
func (m *Manager) Start(u *User) *Session {
	s := &Session{
		Token:     uuid.NewString(),
		User:      u,
		View:      ViewLogin,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if u != nil {
		s.View = ViewForm
	}

	m.mu.Lock()
	m.sessions[s.Token] = s
	snap := *s
	m.mu.Unlock()
	return &snap
}

// Get returns a snapshot of the session for a token, refreshing its
// TTL.
func (m *Manager) Get(token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, ErrNoSession
	}
	s.ExpiresAt = time.Now().Add(m.ttl)
	snap := *s
	return &snap, nil
}

// End removes a session. Missing tokens are ignored.
func (m *Manager) End(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// SetUser signs a user into the session.
func (m *Manager) SetUser(token string, u *User) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.User = u
	}
	m.mu.Unlock()
}

// SetView moves the session to a new view.
func (m *Manager) SetView(token string, v View) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.View = v
	}
	m.mu.Unlock()
}

// SetNotice stores a one-shot notification for the next render.
func (m *Manager) SetNotice(token, notice string) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.Notice = notice
	}
	m.mu.Unlock()
}

// TakeNotice returns and clears the pending notification.
func (m *Manager) TakeNotice(token string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		n := s.Notice
		s.Notice = ""
		return n
	}
	return ""
}

// SetResult stores the result of a completed run and flips the view
// to results. The result is written once per run.
func (m *Manager) SetResult(token string, r *analysis.Result) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.Result = r
		s.View = ViewResults
	}
	m.mu.Unlock()
}

// FailRun restores the form with a notification after a failed run.
func (m *Manager) FailRun(token, notice string) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.View = ViewForm
		s.Notice = notice
	}
	m.mu.Unlock()
}

// SignOut clears user, result and state, returning to the login view.
func (m *Manager) SignOut(token string) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		s.User = nil
		s.Result = nil
		s.Notice = ""
		s.View = ViewLogin
	}
	m.mu.Unlock()
}

// Cleanup drops expired sessions. Call periodically.
func (m *Manager) Cleanup() {
	now := time.Now()
	m.mu.Lock()
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()
}
