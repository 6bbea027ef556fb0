package duelview

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

type stubPosts struct {
	post   domain.Post
	voting []domain.Comment
}

func (s *stubPosts) Create(context.Context, string, float64) (domain.Post, error) {
	return domain.Post{}, nil
}
func (s *stubPosts) Status(context.Context, string) (domain.Post, error) { return s.post, nil }
func (s *stubPosts) Comments(context.Context, string) ([]domain.Comment, error) {
	return s.voting, nil
}
func (s *stubPosts) Comment(context.Context, string, string) error { return nil }
func (s *stubPosts) Vote(context.Context, string, string) error    { return nil }
func (s *stubPosts) Unvote(context.Context, string) error          { return nil }

// stubDuels appends duel comments as the server would.
type stubDuels struct {
	mu        sync.Mutex
	comments  []domain.Comment
	author    string // Commenter recorded for the next Comment call
	likes     int
	flags     int
	completed int
	err       error
}

func (s *stubDuels) Comments(context.Context, string) ([]domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Comment(nil), s.comments...), nil
}

func (s *stubDuels) Comment(_ context.Context, _ string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.comments = append(s.comments, domain.Comment{Commenter: s.author, Text: text})
	return nil
}

func (s *stubDuels) Like(context.Context, string) error     { s.likes++; return s.err }
func (s *stubDuels) Flag(context.Context, string) error     { s.flags++; return s.err }
func (s *stubDuels) Complete(context.Context, string) error { s.completed++; return s.err }

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

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

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

func duelPost() domain.Post {
	return domain.Post{ID: "p1", Author: "Alice", Winner: "Bob", Second: "Carol", Started: true}
}

func load(t *testing.T, posts *stubPosts, duels *stubDuels, viewer string) Model {
	t.Helper()
	m := New(posts, duels, stubAccount{username: viewer}, "p1")
	msg, ok := m.fetch(m.reqSeq)().(LoadedMsg)
	if !ok {
		t.Fatalf("expected LoadedMsg")
	}
	m, _ = m.Update(msg)
	return m
}

func TestLoaded_FirstTurnIsAuthor(t *testing.T) {
	m := load(t, &stubPosts{post: duelPost()}, &stubDuels{}, "alice")
	turn, err := m.Turn()
	if err != nil || turn.Current != "Alice" || !turn.CanComment {
		t.Fatalf("unexpected turn: %+v (%v)", turn, err)
	}
	if !strings.Contains(m.View(), "Your turn") {
		t.Fatalf("expected turn banner")
	}
}

func TestLoaded_NotReadyShowsWaiting(t *testing.T) {
	p := duelPost()
	p.Winner = ""
	m := load(t, &stubPosts{post: p}, &stubDuels{}, "alice")
	if _, err := m.Turn(); !errors.Is(err, domain.ErrDuelNotReady) {
		t.Fatalf("expected not ready, got %v", err)
	}
	if m.canComment() {
		t.Fatal("compose must be blocked while not ready")
	}
	if !strings.Contains(m.View(), "Waiting for both duelers") {
		t.Fatalf("expected waiting state in view")
	}
	_, cmd := m.Update(keyRune('c'))
	if _, ok := cmd().(common.StatusMsg); !ok {
		t.Fatalf("expected a status message instead of the composer")
	}
}

func TestUpdate_StaleLoadedIgnored(t *testing.T) {
	m := New(&stubPosts{}, &stubDuels{}, stubAccount{}, "p1")
	m.reqSeq = 2
	updated, cmd := m.Update(LoadedMsg{Post: duelPost(), ReqSeq: 1})
	if cmd != nil || updated.loaded {
		t.Fatalf("stale duel snapshot should be dropped")
	}
}

func TestDuel_AlternatesThroughExchange(t *testing.T) {
	posts := &stubPosts{post: duelPost()}
	duels := &stubDuels{}

	alice := load(t, posts, duels, "alice")
	bob := load(t, posts, duels, "bob")

	// Alice opens.
	duels.author = "Alice"
	alice, cmd := alice.Update(SubmitCommentMsg{Text: "opening"})
	if turn, _ := alice.Turn(); turn.Current != "Bob" || turn.CanComment {
		t.Fatalf("after optimistic append it should be Bob's turn, got %+v", turn)
	}
	alice, cmd = alice.Update(cmd())
	alice, _ = alice.Update(firstOf(t, cmd))

	if _, again := alice.Update(SubmitCommentMsg{Text: "double"}); again == nil {
		t.Fatal("expected rejection status")
	} else if st, ok := again().(common.StatusMsg); !ok || !errors.Is(st.Err, domain.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %#v", st)
	}

	// Bob sees his turn after a refresh and replies.
	bob, cmd = bob.Refresh()
	bob, _ = bob.Update(firstOf(t, cmd))
	if turn, _ := bob.Turn(); turn.Current != "Bob" || !turn.CanComment {
		t.Fatalf("expected Bob's turn, got %+v", turn)
	}
	duels.author = "Bob"
	bob, cmd = bob.Update(SubmitCommentMsg{Text: "rebuttal"})
	bob, cmd = bob.Update(cmd())
	bob, _ = bob.Update(firstOf(t, cmd))

	// Back to Alice.
	alice, cmd = alice.Refresh()
	alice, _ = alice.Update(firstOf(t, cmd))
	if turn, _ := alice.Turn(); turn.Current != "Alice" || !turn.CanComment {
		t.Fatalf("expected Alice's turn again, got %+v", turn)
	}
	if len(alice.comments) != 2 {
		t.Fatalf("expected 2 duel comments, got %d", len(alice.comments))
	}
}

func TestSubmit_FailureRestoresTurn(t *testing.T) {
	duels := &stubDuels{err: &domain.APIError{Status: 500}}
	m := load(t, &stubPosts{post: duelPost()}, duels, "alice")

	m, cmd := m.Update(SubmitCommentMsg{Text: "opening"})
	m, _ = m.Update(cmd())
	if len(m.comments) != 0 {
		t.Fatalf("pending comment should be dropped")
	}
	if turn, _ := m.Turn(); !turn.CanComment {
		t.Fatalf("turn should return to the viewer after a failed send")
	}
}

func TestKeys_LikeFlagComplete(t *testing.T) {
	duels := &stubDuels{}
	m := load(t, &stubPosts{post: duelPost()}, duels, "bob")

	m2, cmd := m.Update(keyRune('l'))
	if !m2.busy {
		t.Fatal("expected busy while liking")
	}
	cmd()
	if duels.likes != 1 {
		t.Fatal("expected like call")
	}

	_, cmd = m.Update(keyRune('f'))
	cmd()
	if duels.flags != 1 {
		t.Fatal("expected flag call")
	}

	m, _ = m.Update(keyRune('x'))
	if !m.confirm {
		t.Fatal("expected confirmation prompt")
	}
	_, cmd = m.Update(keyRune('y'))
	cmd()
	if duels.completed != 1 {
		t.Fatal("expected complete call")
	}
}

func TestKeys_CompleteOnlyForDuelers(t *testing.T) {
	m := load(t, &stubPosts{post: duelPost()}, &stubDuels{}, "dave")
	m, cmd := m.Update(keyRune('x'))
	if m.confirm {
		t.Fatal("spectators cannot complete the duel")
	}
	if _, ok := cmd().(common.StatusMsg); !ok {
		t.Fatal("expected status message")
	}
}

func TestKeys_LikeBlockedWhenAlreadyLiked(t *testing.T) {
	p := duelPost()
	p.LikeUsers = []string{"dave"}
	duels := &stubDuels{}
	m := load(t, &stubPosts{post: p}, duels, "dave")
	_, cmd := m.Update(keyRune('l'))
	cmd()
	if duels.likes != 0 {
		t.Fatal("like should not be sent twice")
	}
	if !strings.Contains(m.View(), "you liked") {
		t.Fatal("expected liked marker")
	}
}

func TestVictory_ShowsWinnerAndRanking(t *testing.T) {
	p := duelPost()
	p.Completed = true
	p.Started = false
	posts := &stubPosts{post: p, voting: []domain.Comment{
		{Commenter: "Carol", Text: "runner up", Votes: 2},
		{Commenter: "Bob", Text: "the winning take", Votes: 5},
	}}
	m := load(t, posts, &stubDuels{}, "dave")

	out := m.View()
	if !strings.Contains(out, "Duel resolved") || !strings.Contains(out, "the winning take") {
		t.Fatalf("expected victory summary: %q", out)
	}
	if strings.Index(out, "1. Bob") > strings.Index(out, "2. Carol") || !strings.Contains(out, "1. Bob") {
		t.Fatalf("expected Bob ranked first: %q", out)
	}
	if m.canComment() || m.canLike() || m.canFlag() || m.canComplete() {
		t.Fatal("resolved duel should accept no actions")
	}
}

func TestFlagAnalysis_AtRiskWarning(t *testing.T) {
	p := duelPost()
	p.FlagAnalysis = &domain.FlagAnalysis{ActualFlags: 6, MinFlagsRequired: 5, FlagRatio: 0.75}
	m := load(t, &stubPosts{post: p}, &stubDuels{}, "dave")
	if !strings.Contains(m.View(), "may be replaced") {
		t.Fatal("expected at-risk warning")
	}
}
