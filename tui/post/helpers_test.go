package post

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/duelterm/domain"
)

type stubPosts struct {
	mu          sync.Mutex
	post        domain.Post
	comments    []domain.Comment
	statusCalls int
	commentErr  error
	voted       []string
	unvotes     int
}

func (s *stubPosts) Create(context.Context, string, float64) (domain.Post, error) {
	return domain.Post{}, errors.New("unused")
}

func (s *stubPosts) Status(context.Context, string) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCalls++
	return s.post, nil
}

func (s *stubPosts) Comments(context.Context, string) ([]domain.Comment, error) {
	return s.comments, nil
}

func (s *stubPosts) Comment(context.Context, string, string) error { return s.commentErr }

func (s *stubPosts) Vote(_ context.Context, _ string, candidate string) error {
	s.voted = append(s.voted, candidate)
	return nil
}

func (s *stubPosts) Unvote(context.Context, string) error {
	s.unvotes++
	return nil
}

type stubAccount struct{ username string }

func (a stubAccount) CurrentProfile(context.Context) (domain.Profile, error) {
	return domain.Profile{Username: a.username}, nil
}
func (a stubAccount) ProfileByUsername(_ context.Context, u string) (domain.Profile, error) {
	return domain.Profile{Username: u}, nil
}
func (a stubAccount) UpdateBio(context.Context, string) (domain.Profile, error) {
	return domain.Profile{}, nil
}
func (a stubAccount) UploadAvatar(context.Context, string, io.Reader) (string, error) {
	return "", nil
}
func (a stubAccount) Follow(context.Context, string) error   { return nil }
func (a stubAccount) Unfollow(context.Context, string) error { return nil }

func secs(n int) *int { return &n }

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

// firstOf runs the first command of a batch, skipping timers.
func firstOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				return firstOf(t, c)
			}
		}
		t.Fatal("empty batch")
	}
	return msg
}
