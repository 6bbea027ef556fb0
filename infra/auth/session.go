package auth

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store persists the session token between runs.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session is the process-wide holder of the bearer token. Login and Logout
// are the only mutators; everything else reads through AccessToken.
type Session struct {
	store Store

	mu       sync.RWMutex
	token    string
	username string
}

// NewSession restores a previously saved token, if any.
func NewSession(store Store) *Session {
	s := &Session{store: store}
	if store != nil {
		if tok, err := store.Load(); err == nil {
			s.token = tok
		}
	}
	return s
}

// AccessToken implements TokenProvider.
func (s *Session) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Username returns the username recorded at login, or by SetUsername after a
// profile fetch. It may be empty for a restored session.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// SetUsername records the viewer's canonical username as reported by the API.
func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	s.username = strings.TrimSpace(username)
	s.mu.Unlock()
}

// Login stores a freshly issued token.
func (s *Session) Login(username, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	if s.store != nil {
		if err := s.store.Save(token); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	s.mu.Lock()
	s.token = token
	s.username = strings.TrimSpace(username)
	s.mu.Unlock()

	log.Info().Str("user", username).Msg("logged in")
	return nil
}

// Logout forgets the token in memory and on disk.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.username = ""
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
	}
	log.Info().Msg("logged out")
	return nil
}
