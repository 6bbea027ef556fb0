package compose

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/duelterm/infra/editor"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

const (
	// DefaultVotingHours is the voting window offered for new posts.
	DefaultVotingHours = 12
	maxVotingHours     = 72
	charLimit          = 1000
	hoursPrefix        = "hours:"
)

// ErrInvalidHours is returned for a voting window outside (0, 72] hours.
var ErrInvalidHours = errors.New("voting hours must be greater than 0 and at most 72")

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

type field int

const (
	bodyField field = iota
	hoursField
)

// --- Messages ---

// DoneMsg is sent when composing is complete. Empty Content means cancelled.
type DoneMsg struct {
	Target      common.ComposeTarget
	PostID      string
	Content     string
	VotingHours float64 // Only set for new posts
	Err         error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model composes a post, a voting comment or a duel comment.
type Model struct {
	mode     mode
	target   common.ComposeTarget
	postID   string
	heading  string
	editor   *editor.EnvEditor
	initial  string // Editor template body, used to detect "no changes"
	status   string
	err      error
	textarea textarea.Model  // Inline mode only
	hours    textinput.Model // Inline post mode only
	focus    field
}

// New creates a composer for req. Inline requests use a textarea, others
// open $EDITOR via tea.ExecProcess.
func New(ed *editor.EnvEditor, req common.ComposeMsg) Model {
	m := Model{
		target:  req.Target,
		postID:  req.PostID,
		heading: req.Heading,
		editor:  ed,
	}
	if m.heading == "" {
		m.heading = defaultHeading(req.Target)
	}

	if !req.Inline && ed != nil {
		m.mode = editorMode
		m.status = "Opening editor..."
		if m.target == common.ComposePost {
			m.initial = fmt.Sprintf("%s %d\n\n", hoursPrefix, DefaultVotingHours)
		}
		return m
	}

	ta := textarea.New()
	ta.Placeholder = placeholder(req.Target)
	ta.CharLimit = charLimit
	ta.SetWidth(72)
	ta.SetHeight(6)
	ta.Focus()

	hours := textinput.New()
	hours.Placeholder = "hours"
	hours.CharLimit = 6
	hours.Width = 8
	hours.SetValue(strconv.Itoa(DefaultVotingHours))

	m.mode = inlineMode
	m.textarea = ta
	m.hours = hours
	return m
}

func defaultHeading(t common.ComposeTarget) string {
	switch t {
	case common.ComposeComment:
		return "New comment"
	case common.ComposeDuelComment:
		return "Duel reply"
	}
	return "New post"
}

func placeholder(t common.ComposeTarget) string {
	switch t {
	case common.ComposeComment:
		return "Make your case. The top two comments duel."
	case common.ComposeDuelComment:
		return "Your move."
	}
	return "What should people argue about?"
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	if m.mode == editorMode {
		return m.launchEditor()
	}
	return textarea.Blink
}

// launchEditor hands the editor to tea.ExecProcess, which suspends raw
// terminal mode while it runs.
func (m Model) launchEditor() tea.Cmd {
	cmd, tmpPath, err := m.editor.Cmd(m.initial, m.heading)
	if err != nil {
		return m.done("", 0, fmt.Errorf("preparing editor: %w", err))
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorFinishedMsg:
		if msg.err != nil {
			return m, m.done("", 0, fmt.Errorf("editor: %w", msg.err))
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, m.done("", 0, err)
		}
		if content == "" || content == strings.TrimSpace(m.initial) {
			return m, m.done("", 0, nil)
		}
		if m.target != common.ComposePost {
			return m, m.done(content, 0, nil)
		}
		body, hours, err := splitHours(content)
		if err != nil {
			return m, m.done("", 0, err)
		}
		return m, m.done(body, hours, nil)

	case tea.KeyMsg:
		if m.mode != inlineMode {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, m.done("", 0, nil)
		case "tab":
			if m.target == common.ComposePost {
				return m.toggleFocus()
			}
		case "ctrl+d":
			return m.submit()
		}
		var cmd tea.Cmd
		if m.focus == hoursField {
			m.hours, cmd = m.hours.Update(msg)
		} else {
			m.textarea, cmd = m.textarea.Update(msg)
		}
		return m, cmd
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) toggleFocus() (Model, tea.Cmd) {
	if m.focus == bodyField {
		m.focus = hoursField
		m.textarea.Blur()
		return m, m.hours.Focus()
	}
	m.focus = bodyField
	m.hours.Blur()
	return m, m.textarea.Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	content := strings.TrimSpace(m.textarea.Value())
	if content == "" {
		return m, m.done("", 0, nil)
	}
	if m.target != common.ComposePost {
		return m, m.done(content, 0, nil)
	}
	hours, err := parseHours(m.hours.Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, m.done(content, hours, nil)
}

func (m Model) done(content string, hours float64, err error) tea.Cmd {
	return common.Emit(DoneMsg{
		Target:      m.target,
		PostID:      m.postID,
		Content:     content,
		VotingHours: hours,
		Err:         err,
	})
}

// splitHours takes an optional leading "hours: N" line off an editor post.
func splitHours(content string) (string, float64, error) {
	first, rest, _ := strings.Cut(content, "\n")
	value, ok := strings.CutPrefix(strings.TrimSpace(first), hoursPrefix)
	if !ok {
		return content, DefaultVotingHours, nil
	}
	hours, err := parseHours(value)
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(rest), hours, nil
}

func parseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultVotingHours, nil
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil || hours <= 0 || hours > maxVotingHours {
		return 0, ErrInvalidHours
	}
	return hours, nil
}
