package feed

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/duelterm/tui/common"
)

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ResultsLoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.results = msg.Results
		m.rebuildItems()
		return m, nil

	case ResultsErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.SetValue(m.query)
		return m, nil
	case "enter":
		m.searching = false
		m.input.Blur()
		m.query = strings.TrimSpace(m.input.Value())
		m.cursor = 0
		var cmd tea.Cmd
		m, cmd = m.Refresh()
		return m, tea.Batch(cmd, m.emitPrefsChanged())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.SearchType):
		m.kind = nextKind(m.kind)
		m.cursor = 0
		return m.Refresh()
	case key.Matches(msg, m.keys.Sort):
		m.sort = m.sort.Toggle()
		var cmd tea.Cmd
		m, cmd = m.Refresh()
		return m, tea.Batch(cmd, m.emitPrefsChanged())
	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()
	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
		return m, nil
	case key.Matches(msg, m.keys.Open):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if it.post != nil {
			return m, common.Emit(common.OpenPostMsg{ID: it.post.ID})
		}
		return m, common.Emit(common.OpenProfileMsg{Username: it.user})
	case key.Matches(msg, m.keys.Author):
		if it, ok := m.selected(); ok && it.post != nil && it.post.Author != "" {
			return m, common.Emit(common.OpenProfileMsg{Username: it.post.Author})
		}
		return m, nil
	}
	return m, nil
}
