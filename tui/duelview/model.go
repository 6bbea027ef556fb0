package duelview

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/duel"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// flagRatioThreshold mirrors the server's winner replacement ratio.
const flagRatioThreshold = 0.60

// --- Messages ---

// LoadedMsg carries the duel snapshot.
type LoadedMsg struct {
	Post   domain.Post
	Duel   []domain.Comment // Duel comments, insertion order
	Voting []domain.Comment // Voting-phase comments, for the victory summary
	Viewer string
	ReqSeq int
}

// ErrorMsg is sent when the duel snapshot could not be loaded.
type ErrorMsg struct {
	PostID string
	Err    error
	ReqSeq int
}

// SubmitCommentMsg carries composed duel comment text to the view.
type SubmitCommentMsg struct {
	Text string
}

// ActionResultMsg reports a duel comment, like, flag or completion.
type ActionResultMsg struct {
	PostID string
	What   string
	Err    error
}

// --- Model ---

// Model is the duel view.
type Model struct {
	posts    app.PostService
	duels    app.DuelService
	account  app.AccountService
	id       string
	post     domain.Post
	comments []domain.Comment
	voting   []domain.Comment
	viewer   string
	turn     duel.Turn
	turnErr  error
	loaded   bool
	loading  bool
	err      error
	reqSeq   int
	busy     bool // A like/flag/complete request is in flight
	confirm  bool // Awaiting confirmation to complete the duel
	keys     common.KeyMap
	spinner  spinner.Model
	width    int
}

// New creates a duel view for post id.
func New(posts app.PostService, duels app.DuelService, account app.AccountService, id string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		posts:   posts,
		duels:   duels,
		account: account,
		id:      id,
		loading: true,
		reqSeq:  common.NextReqSeq(),
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
}

// Init fetches the duel.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

// ID returns the post id.
func (m Model) ID() string { return m.id }

// Turn returns the arbitrated turn and the arbitration error, if any.
func (m Model) Turn() (duel.Turn, error) { return m.turn, m.turnErr }

// arbitrate recomputes the turn from the current comment log.
func (m *Model) arbitrate() {
	m.turn, m.turnErr = duel.Arbitrate(duel.DuelersOf(m.post), m.comments, m.viewer)
}

func (m Model) duelers() duel.Duelers { return duel.DuelersOf(m.post) }

func (m Model) canLike() bool {
	return m.viewer != "" && !m.post.Completed && !m.post.LikedBy(m.viewer)
}

func (m Model) canFlag() bool {
	return m.viewer != "" && !m.post.Completed && m.post.Winner != "" && !m.post.FlaggedBy(m.viewer)
}

func (m Model) canComplete() bool {
	return !m.post.Completed && m.turnErr == nil && m.duelers().Has(m.viewer)
}

func (m Model) canComment() bool {
	return !m.post.Completed && m.turnErr == nil && m.turn.CanComment
}
