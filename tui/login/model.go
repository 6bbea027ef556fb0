package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

type mode int

const (
	loginMode mode = iota
	registerMode
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
)

// resultMsg carries the outcome of a login or register call.
type resultMsg struct {
	username string
	token    string
	err      error
}

// Model is the login / register form.
type Model struct {
	auth       app.AuthService
	mode       mode
	inputs     []textinput.Model
	focus      int
	submitting bool
	err        error
	spinner    spinner.Model
}

// New creates a login form.
func New(auth app.AuthService) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		auth:    auth,
		inputs:  []textinput.Model{username, email, password},
		spinner: s,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Registering reports whether the form is in register mode.
func (m Model) Registering() bool { return m.mode == registerMode }

func (m Model) visibleFields() []int {
	if m.mode == registerMode {
		return []int{fieldUsername, fieldEmail, fieldPassword}
	}
	return []int{fieldUsername, fieldPassword}
}

func (m *Model) moveFocus(delta int) {
	fields := m.visibleFields()
	pos := 0
	for i, f := range fields {
		if f == m.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	m.setFocus(fields[pos])
}

func (m *Model) setFocus(field int) {
	m.focus = field
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.inputs[fieldPassword].SetValue("")
			return m, nil
		}
		m.err = nil
		return m, common.Emit(common.LoggedInMsg{Username: msg.username, Token: msg.token})

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+r":
			if m.mode == loginMode {
				m.mode = registerMode
			} else {
				m.mode = loginMode
			}
			m.err = nil
			m.setFocus(fieldUsername)
			return m, nil
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		case "enter":
			fields := m.visibleFields()
			if m.focus != fields[len(fields)-1] {
				m.moveFocus(1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	if username == "" || password == "" {
		m.err = errors.New("username and password are required")
		return m, nil
	}
	if m.mode == registerMode && !strings.Contains(email, "@") {
		m.err = errors.New("a valid email is required")
		return m, nil
	}

	m.submitting = true
	m.err = nil
	auth := m.auth
	register := m.mode == registerMode
	call := func() tea.Msg {
		var (
			token string
			err   error
		)
		if register {
			token, err = auth.Register(context.Background(), username, email, password)
		} else {
			token, err = auth.Login(context.Background(), username, password)
		}
		return resultMsg{username: username, token: token, err: err}
	}
	return m, tea.Batch(call, m.spinner.Tick)
}

func errorText(err error) string {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return "Invalid username or password."
	}
	return err.Error()
}
