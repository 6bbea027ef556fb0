package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/duel"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

const maxAvatarBytes = 5 << 20

// --- Messages ---

// LoadedMsg carries the profile and the viewer's username.
type LoadedMsg struct {
	Profile domain.Profile
	Viewer  string
	ReqSeq  int
}

// ErrorMsg is sent when the profile could not be loaded.
type ErrorMsg struct {
	Err    error
	ReqSeq int
}

type actionResultMsg struct {
	what string
	err  error
}

type editMode int

const (
	editNone editMode = iota
	editBio
	editAvatar
)

// --- Model ---

// Model shows the viewer's own profile or another user's public profile.
type Model struct {
	account  app.AccountService
	username string // Empty for the viewer's own profile
	profile  domain.Profile
	viewer   string
	loaded   bool
	loading  bool
	err      error
	reqSeq   int
	busy     bool
	edit     editMode
	input    textinput.Model
	keys     common.KeyMap
	spinner  spinner.Model
}

// New creates a profile view. Pass an empty username for the viewer's own.
func New(account app.AccountService, username string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	in := textinput.New()
	in.CharLimit = 280

	return Model{
		account:  account,
		username: strings.TrimSpace(username),
		loading:  true,
		reqSeq:   common.NextReqSeq(),
		input:    in,
		keys:     common.DefaultKeyMap(),
		spinner:  s,
	}
}

// Init fetches the profile.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

// Editing reports whether a text field has focus.
func (m Model) Editing() bool { return m.edit != editNone }

// Own reports whether the profile belongs to the viewer.
func (m Model) Own() bool {
	if m.username == "" {
		return true
	}
	return m.viewer != "" && duel.Normalize(m.viewer) == duel.Normalize(m.profile.Username)
}

func (m Model) fetch(reqSeq int) tea.Cmd {
	account, username := m.account, m.username
	return func() tea.Msg {
		ctx := context.Background()
		if username == "" {
			p, err := account.CurrentProfile(ctx)
			if err != nil {
				return ErrorMsg{Err: err, ReqSeq: reqSeq}
			}
			return LoadedMsg{Profile: p, Viewer: p.Username, ReqSeq: reqSeq}
		}

		var p, me domain.Profile
		var pErr, meErr error

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			p, pErr = account.ProfileByUsername(ctx, username)
		}()
		go func() {
			defer wg.Done()
			me, meErr = account.CurrentProfile(ctx)
		}()
		wg.Wait()
		if err := errors.Join(pErr, meErr); err != nil {
			return ErrorMsg{Err: err, ReqSeq: reqSeq}
		}
		return LoadedMsg{Profile: p, Viewer: me.Username, ReqSeq: reqSeq}
	}
}

func (m Model) refresh() (Model, tea.Cmd) {
	m.reqSeq = common.NextReqSeq()
	m.loading = true
	return m, tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

// Update handles messages for the profile view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.loaded = true
		m.err = nil
		m.profile = msg.Profile
		m.viewer = msg.Viewer
		return m, nil

	case ErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, common.Fail("Loading profile failed", msg.Err)

	case actionResultMsg:
		m.busy = false
		if msg.err != nil {
			return m, common.Fail(msg.what+" failed", msg.err)
		}
		var cmd tea.Cmd
		m, cmd = m.refresh()
		return m, tea.Batch(cmd, common.Status(msg.what+"."))

	case tea.KeyMsg:
		if m.edit != editNone {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, common.Emit(common.BackMsg{})
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}
	if !m.loaded || m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Follow):
		if m.Own() {
			return m, common.Status("You cannot follow yourself.")
		}
		m.busy = true
		return m, m.toggleFollow()
	case key.Matches(msg, m.keys.EditBio):
		if !m.Own() {
			return m, nil
		}
		m.edit = editBio
		m.input.Placeholder = "bio"
		m.input.SetValue(m.profile.Bio)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Avatar):
		if !m.Own() {
			return m, nil
		}
		m.edit = editAvatar
		m.input.Placeholder = "path to an image file"
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.OpenMedia):
		return m, common.OpenURLs([]string{m.profile.AvatarURL})
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.edit = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.edit
		m.edit = editNone
		m.input.Blur()
		switch mode {
		case editBio:
			m.busy = true
			return m, m.updateBio(value)
		case editAvatar:
			if value == "" {
				return m, nil
			}
			m.busy = true
			return m, m.uploadAvatar(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleFollow() tea.Cmd {
	account, target := m.account, m.profile.Username
	following := m.profile.FollowedBy(m.viewer)
	return func() tea.Msg {
		if following {
			err := account.Unfollow(context.Background(), target)
			return actionResultMsg{what: "Unfollowed " + target, err: err}
		}
		err := account.Follow(context.Background(), target)
		return actionResultMsg{what: "Following " + target, err: err}
	}
}

func (m Model) updateBio(bio string) tea.Cmd {
	account := m.account
	return func() tea.Msg {
		_, err := account.UpdateBio(context.Background(), bio)
		return actionResultMsg{what: "Bio updated", err: err}
	}
}

func (m Model) uploadAvatar(path string) tea.Cmd {
	account := m.account
	return func() tea.Msg {
		path, err := expandHome(path)
		if err != nil {
			return actionResultMsg{what: "Avatar upload", err: err}
		}
		f, err := os.Open(path)
		if err != nil {
			return actionResultMsg{what: "Avatar upload", err: err}
		}
		defer f.Close()
		if info, err := f.Stat(); err == nil && info.Size() > maxAvatarBytes {
			return actionResultMsg{what: "Avatar upload", err: fmt.Errorf("%s is larger than 5MB", filepath.Base(path))}
		}
		_, err = account.UploadAvatar(context.Background(), filepath.Base(path), f)
		return actionResultMsg{what: "Avatar uploaded", err: err}
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
