package post

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/countdown"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// --- Messages ---

// LoadedMsg carries the status + comments + viewer triple.
type LoadedMsg struct {
	Post     domain.Post
	Comments []domain.Comment
	Viewer   string
	ReqSeq   int
}

// ErrorMsg is sent when any part of the fetch triple fails.
type ErrorMsg struct {
	PostID string
	Err    error
	ReqSeq int
}

// TickMsg drives the voting countdown. Ticks from an older generation are dropped.
type TickMsg struct {
	Gen countdown.Generation
}

// SubmitCommentMsg carries composed comment text to the view.
type SubmitCommentMsg struct {
	Text string
}

// ActionResultMsg reports a vote or comment; success triggers a refetch.
type ActionResultMsg struct {
	PostID string
	What   string
	Err    error
}

// --- Model ---

// Model is the post detail view.
type Model struct {
	posts    app.PostService
	account  app.AccountService
	id       string
	post     domain.Post
	comments []domain.Comment
	viewer   string
	loaded   bool
	loading  bool
	err      error
	reqSeq   int
	cursor   int
	cd       countdown.Countdown
	keys     common.KeyMap
	spinner  spinner.Model
	width    int
}

// New creates a detail view for post id. clock drives the countdown; nil
// uses the wall clock.
func New(posts app.PostService, account app.AccountService, id string, clock clockwork.Clock) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		posts:   posts,
		account: account,
		id:      id,
		loading: true,
		reqSeq:  common.NextReqSeq(),
		cd:      countdown.New(clock),
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
}

// Init fetches the post.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

// ID returns the post id.
func (m Model) ID() string { return m.id }

// Stop tears the countdown down so pending ticks become stale.
func (m Model) Stop() Model {
	m.cd.Stop()
	return m
}

// Countdown exposes the countdown state for the root status line.
func (m Model) Countdown() countdown.Countdown { return m.cd }

func (m Model) selected() (domain.Comment, bool) {
	if m.cursor < 0 || m.cursor >= len(m.comments) {
		return domain.Comment{}, false
	}
	return m.comments[m.cursor], true
}
