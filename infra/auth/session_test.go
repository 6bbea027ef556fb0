package auth

import (
	"errors"
	"path/filepath"
	"testing"
)

type memStore struct {
	token   string
	saveErr error
	cleared bool
}

func (m *memStore) Load() (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}
func (m *memStore) Save(tok string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = tok
	return nil
}
func (m *memStore) Clear() error {
	m.token = ""
	m.cleared = true
	return nil
}

func TestSession_RestoresStoredToken(t *testing.T) {
	s := NewSession(&memStore{token: "persisted"})
	tok, err := s.AccessToken()
	if err != nil || tok != "persisted" {
		t.Fatalf("expected restored token, got %q %v", tok, err)
	}
	if !s.LoggedIn() {
		t.Fatalf("restored session should be logged in")
	}
}

func TestSession_LoginLogout(t *testing.T) {
	st := &memStore{}
	s := NewSession(st)
	if _, err := s.AccessToken(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken before login, got %v", err)
	}

	if err := s.Login(" alice ", " tok "); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if tok, _ := s.AccessToken(); tok != "tok" || st.token != "tok" {
		t.Fatalf("token not stored: session=%q store=%q", tok, st.token)
	}
	if s.Username() != "alice" {
		t.Fatalf("unexpected username: %q", s.Username())
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if s.LoggedIn() || !st.cleared || s.Username() != "" {
		t.Fatalf("logout must clear memory and store")
	}
}

func TestSession_LoginRejectsEmptyAndStoreErrors(t *testing.T) {
	s := NewSession(&memStore{saveErr: errors.New("disk full")})
	if err := s.Login("a", "  "); err == nil {
		t.Fatalf("expected error for empty token")
	}
	if err := s.Login("a", "tok"); err == nil {
		t.Fatalf("expected store error to surface")
	}
	if s.LoggedIn() {
		t.Fatalf("failed login must not mutate the session")
	}
}

func TestSession_WithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewSession(NewFileStore(path))
	if err := s.Login("bob", "xyz"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	restored := NewSession(NewFileStore(path))
	if tok, _ := restored.AccessToken(); tok != "xyz" {
		t.Fatalf("expected token to survive restart, got %q", tok)
	}
}
