package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"rentaldesk-backend/internal/domain"
)

// ErrNotAuthenticated is returned by Session operations that need a
// signed-in user when there is none.
var ErrNotAuthenticated = errors.New("client: not authenticated")

// TokenStore persists the bearer credential between runs. Implementations
// return an empty string, not an error, when no credential is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokenStore keeps the credential for the life of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

// FileTokenStore persists the credential to a file readable only by the
// owning user.
type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SessionState is a point-in-time snapshot of the session. User is nil when
// anonymous. Loading is true only while a restore is in flight.
type SessionState struct {
	User    *domain.User
	Loading bool
}

// Authenticated reports whether a user is signed in.
func (s SessionState) Authenticated() bool {
	return s.User != nil
}

// Role returns the signed-in user's role, or the zero Role when anonymous.
// The zero Role fails every access predicate, so callers can pass it
// straight to gating checks.
func (s SessionState) Role() domain.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Session owns the client's credential and identity state. It is the sole
// writer of both: all login, logout and restore paths go through it, so the
// installed token and the cached user never diverge.
type Session struct {
	client *Client
	store  TokenStore

	mu      sync.Mutex
	user    *domain.User
	loading bool
}

func NewSession(c *Client, store TokenStore) *Session {
	return &Session{client: c, store: store}
}

// Restore revalidates a previously stored credential against the server.
// Call it once at startup: until it returns, State reports Loading so UIs
// can hold rendering an anonymous frame. A credential the server rejects is
// cleared from the store; a transport failure leaves it in place for the
// next attempt.
func (s *Session) Restore(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		if IsAuthError(err) {
			s.client.SetToken("")
			if clearErr := s.store.Clear(); clearErr != nil {
				return clearErr
			}
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login authenticates, persists the credential and caches the identity.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	pair, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.client.SetToken(pair.Access)
	if err := s.store.Save(pair.Access); err != nil {
		return nil, err
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// Logout drops the credential locally. No server call is made; the token
// simply expires.
func (s *Session) Logout() error {
	s.client.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// State returns a snapshot. The returned user is a copy; mutating it does
// not affect the session.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := SessionState{Loading: s.loading}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

// Current returns a copy of the signed-in user, or nil when anonymous.
func (s *Session) Current() *domain.User {
	return s.State().User
}

// Loading reports whether a Restore is in flight. While true, callers must
// not treat the session as anonymous; wait for Restore to settle.
func (s *Session) Loading() bool {
	return s.State().Loading
}
