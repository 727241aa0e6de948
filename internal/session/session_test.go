package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arqvlabs/arqv30/internal/analysis"
)

// fakeUserStore keeps persisted users in a map, standing in for the
// Postgres store.
type fakeUserStore struct {
	users  map[string]*User
	hashes map[string][]byte
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*User{}, hashes: map[string][]byte{}}
}

func (f *fakeUserStore) SaveUser(ctx context.Context, u *User, hash []byte) error {
	f.users[u.Email] = u
	f.hashes[u.Email] = hash
	return nil
}

func (f *fakeUserStore) UserByEmail(ctx context.Context, email string) (*User, []byte, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, nil, errors.New("not found")
	}
	return &User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}, f.hashes[email], nil
}

func signupUser(t *testing.T, m *Manager) *User {
	t.Helper()
	u, err := m.Signup("Ana Souza", "ana@exemplo.com.br", "senha-forte")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return u
}

func TestSignupAndLogin(t *testing.T) {
	m := NewManager()
	u := signupUser(t, m)

	if u.ID == "" || u.Email != "ana@exemplo.com.br" {
		t.Errorf("unexpected user %+v", u)
	}

	got, err := m.Login("Ana@Exemplo.com.br", "senha-forte")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Error("login returned a different user")
	}

	if _, err := m.Login("ana@exemplo.com.br", "senha-errada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := m.Login("ninguem@exemplo.com.br", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupValidation(t *testing.T) {
	m := NewManager()
	signupUser(t, m)

	if _, err := m.Signup("Outra", "ana@exemplo.com.br", "x"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate email error = %v, want ErrUserExists", err)
	}
	if _, err := m.Signup("", "a@b.com", "x"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("blank name error = %v, want ErrMissingFields", err)
	}
}

func TestUserStoreSurvivesRestart(t *testing.T) {
	store := newFakeUserStore()

	u := signupUser(t, NewManager(WithUserStore(store)))
	if store.users["ana@exemplo.com.br"] == nil {
		t.Fatal("signup should persist the user")
	}

	// A fresh manager has an empty registry; login falls through to
	// the store.
	m := NewManager(WithUserStore(store))
	got, err := m.Login("ana@exemplo.com.br", "senha-forte")
	if err != nil {
		t.Fatalf("Login after restart: %v", err)
	}
	if got.ID != u.ID {
		t.Error("login returned a different user")
	}

	if _, err := m.Signup("Outra", "ana@exemplo.com.br", "x"); !errors.Is(err, ErrUserExists) {
		t.Errorf("stored email error = %v, want ErrUserExists", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	m := NewManager()
	u := signupUser(t, m)

	s := m.Start(u)
	if s.View != ViewForm {
		t.Errorf("signed-in session starts at %q, want form", s.View)
	}

	anon := m.Start(nil)
	if anon.View != ViewLogin {
		t.Errorf("anonymous session starts at %q, want login", anon.View)
	}

	got, err := m.Get(s.Token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.User.ID != u.ID {
		t.Error("session lost its user")
	}

	m.End(s.Token)
	if _, err := m.Get(s.Token); !errors.Is(err, ErrNoSession) {
		t.Errorf("ended session error = %v, want ErrNoSession", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	m := NewManager()
	m.ttl = 10 * time.Millisecond

	s := m.Start(nil)
	time.Sleep(20 * time.Millisecond)
	if _, err := m.Get(s.Token); !errors.Is(err, ErrNoSession) {
		t.Errorf("expired session error = %v, want ErrNoSession", err)
	}
}

func TestRunStateTransitions(t *testing.T) {
	m := NewManager()
	s := m.Start(signupUser(t, m))

	m.SetView(s.Token, ViewLoading)
	got, _ := m.Get(s.Token)
	if got.View != ViewLoading {
		t.Fatalf("view = %q, want loading", got.View)
	}

	// A completed run lands on results carrying the single result.
	r := analysis.FallbackResult(analysis.Briefing{Segmento: "fitness"})
	m.SetResult(s.Token, r)
	got, _ = m.Get(s.Token)
	if got.View != ViewResults || got.Result != r {
		t.Error("completed run should flip to results with the result set")
	}

	// A failed run restores the form with a notification.
	m.SetView(s.Token, ViewLoading)
	m.FailRun(s.Token, "quota exceeded")
	got, _ = m.Get(s.Token)
	if got.View != ViewForm {
		t.Errorf("failed run view = %q, want form", got.View)
	}
	if n := m.TakeNotice(s.Token); n != "quota exceeded" {
		t.Errorf("notice = %q, want backend error text", n)
	}
	// The notice is one-shot.
	if n := m.TakeNotice(s.Token); n != "" {
		t.Errorf("second TakeNotice = %q, want empty", n)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	m := NewManager()
	s := m.Start(nil)

	before, err := m.Get(s.Token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	m.SetResult(s.Token, analysis.FallbackResult(analysis.Briefing{Segmento: "fitness"}))

	// The earlier snapshot must not observe the later write.
	if before.View != ViewLogin || before.Result != nil {
		t.Error("snapshot should be detached from later session writes")
	}

	// Mutating a snapshot must not leak into the manager.
	before.View = ViewLoading
	after, _ := m.Get(s.Token)
	if after.View != ViewResults {
		t.Errorf("view = %q, want results", after.View)
	}
}

// A background run writes the session while the browser polls it; both
// sides must be safe to interleave.
func TestConcurrentRunUpdates(t *testing.T) {
	m := NewManager()
	s := m.Start(signupUser(t, m))
	r := analysis.FallbackResult(analysis.Briefing{Segmento: "fitness"})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			got, err := m.Get(s.Token)
			if err != nil {
				continue
			}
			if got.View == ViewResults && got.Result == nil {
				t.Error("results view without a result")
				return
			}
			_ = got.User
		}
	}()

	for i := 0; i < 200; i++ {
		m.SetView(s.Token, ViewLoading)
		m.SetResult(s.Token, r)
		m.FailRun(s.Token, "quota exceeded")
	}
	close(stop)
	wg.Wait()
}

func TestConcurrentSignupSingleWinner(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	var created int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Signup("Ana Souza", "ana@exemplo.com.br", "senha-forte"); err == nil {
				atomic.AddInt32(&created, 1)
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("created = %d accounts for one email, want 1", created)
	}
}

func TestSignOut(t *testing.T) {
	m := NewManager()
	s := m.Start(signupUser(t, m))
	m.SetResult(s.Token, analysis.FallbackResult(analysis.Briefing{Segmento: "fitness"}))

	m.SignOut(s.Token)
	got, err := m.Get(s.Token)
	if err != nil {
		t.Fatalf("Get after sign-out: %v", err)
	}
	if got.User != nil || got.Result != nil || got.View != ViewLogin {
		t.Error("sign-out should clear user and result and return to login")
	}
}
