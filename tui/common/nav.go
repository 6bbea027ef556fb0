package common

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages below are emitted by sub-views and handled by the root model.

// OpenPostMsg opens the post detail view.
type OpenPostMsg struct{ ID string }

// OpenDuelMsg opens the duel view for a post.
type OpenDuelMsg struct{ ID string }

// OpenProfileMsg opens a profile. An empty Username means the viewer's own.
type OpenProfileMsg struct{ Username string }

// BackMsg returns to the previous view.
type BackMsg struct{}

// ComposeTarget says what a compose session produces.
type ComposeTarget int

const (
	ComposePost ComposeTarget = iota
	ComposeComment
	ComposeDuelComment
)

// ComposeMsg asks the root to open the composer.
type ComposeMsg struct {
	Target  ComposeTarget
	PostID  string
	Heading string
	Inline  bool
}

// StatusMsg sets the root status bar. A non-nil Err is rendered as an error.
type StatusMsg struct {
	Text string
	Err  error
}

// LoggedInMsg reports a successful login or registration.
type LoggedInMsg struct {
	Username string
	Token    string
}

// Emit wraps msg in a tea.Cmd.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Status is shorthand for Emit(StatusMsg{Text: text}).
func Status(text string) tea.Cmd {
	return Emit(StatusMsg{Text: text})
}

// Fail is shorthand for Emit(StatusMsg{Text: what, Err: err}).
func Fail(what string, err error) tea.Cmd {
	return Emit(StatusMsg{Text: what, Err: err})
}

var reqSeqs atomic.Int64

// NextReqSeq returns a request sequence number unique across all views, so a
// response stamped for one view instance never matches another.
func NextReqSeq() int {
	return int(reqSeqs.Add(1))
}
