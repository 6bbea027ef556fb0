package compose

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// View renders the compose view based on the active mode.
func (m Model) View() string {
	if m.mode == editorMode {
		return m.status + "\n"
	}

	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("⚔ " + domain.AppTitle))
	b.WriteString("  " + common.SectionStyle.Render(m.heading) + "\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")

	if m.target == common.ComposePost {
		b.WriteString(" Voting window: " + m.hours.View() + " hours\n\n")
	}
	if m.err != nil {
		b.WriteString(" " + common.ErrorStyle.Render(m.err.Error()) + "\n")
	}

	hints := "ctrl+d: submit • esc: cancel"
	if m.target == common.ComposePost {
		hints += " • tab: switch field"
	}
	b.WriteString(common.StatusBarStyle.Render(
		fmt.Sprintf("  %s • %d/%d chars", hints, len([]rune(m.textarea.Value())), charLimit),
	))
	return b.String()
}
