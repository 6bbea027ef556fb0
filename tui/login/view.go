package login

import (
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	title := "Log in"
	if m.mode == registerMode {
		title = "Register"
	}
	b.WriteString(common.AppTitleStyle.Render("⚔ " + domain.AppTitle))
	b.WriteString("  " + common.SectionStyle.Render(title) + "\n\n")

	for _, f := range m.visibleFields() {
		b.WriteString("  " + m.inputs[f].View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString("  " + m.spinner.View() + " Talking to the server...\n")
	case m.err != nil:
		b.WriteString("  " + common.ErrorStyle.Render(errorText(m.err)) + "\n")
	}

	switch m.mode {
	case registerMode:
		b.WriteString(common.StatusBarStyle.Render("  enter: register • tab: next field • ctrl+r: back to login • ctrl+c: quit"))
	default:
		b.WriteString(common.StatusBarStyle.Render("  enter: log in • tab: next field • ctrl+r: register • ctrl+c: quit"))
	}
	return b.String()
}
