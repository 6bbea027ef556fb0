package feed

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// View renders the feed.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("⚔ " + domain.AppTitle))
	b.WriteString("  " + common.SectionStyle.Render(m.heading()) + "\n")
	b.WriteString(common.TaglineStyle.Render(fmt.Sprintf("showing %s • sorted %s", kindLabel(m.kind), sortLabel(m.sort))))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(" " + m.input.View() + "\n\n")
	}

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString(" " + m.spinner.View() + " Loading...\n")
	case m.err != nil:
		b.WriteString(" " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	case len(m.items) == 0:
		b.WriteString(" " + common.TimestampStyle.Render("Nothing found.") + "\n")
	default:
		b.WriteString(m.renderItems())
	}

	b.WriteString(common.StatusBarStyle.Render(" " + m.helpLine()))
	return b.String()
}

func (m Model) heading() string {
	if m.query == "" {
		return "Latest"
	}
	return fmt.Sprintf("Search: %q", m.query)
}

func (m Model) renderItems() string {
	width := m.width - 6
	if width < 20 {
		width = 72
	}

	// Keep the cursor on screen; each row is 4 lines tall with borders.
	visible := len(m.items)
	if m.height > 10 {
		visible = max((m.height-10)/4, 1)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.items))

	var b strings.Builder
	for i := start; i < end; i++ {
		style := common.UnselectedStyle
		if i == m.cursor {
			style = common.SelectedStyle
		}
		b.WriteString(style.Width(width).Render(m.renderItem(m.items[i], width-2)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderItem(it item, width int) string {
	if it.post == nil {
		return common.AuthorStyle.Render("@"+it.user) + common.TimestampStyle.Render("  user")
	}
	p := it.post
	header := common.AuthorStyle.Render(p.Author)
	if age := common.Age(p.CreatedAt, m.now()); age != "" {
		header += common.TimestampStyle.Render("  " + age)
	}
	if phase := phaseLabel(*p); phase != "" {
		header += "  " + common.CountdownStyle.Render(phase)
	}
	body := common.ContentStyle.Render(common.Truncate(common.FirstLine(p.Body), width))
	return header + "\n" + body
}

func phaseLabel(p domain.Post) string {
	switch {
	case p.Completed:
		return "resolved"
	case p.Started && p.DuelReady():
		return "duel"
	case p.VotingEndsIn != nil && *p.VotingEndsIn > 0:
		return "voting"
	case p.Postponed:
		return "postponed"
	default:
		return ""
	}
}

func kindLabel(k domain.SearchType) string {
	switch k {
	case domain.SearchUsers:
		return "users"
	case domain.SearchPosts:
		return "posts"
	default:
		return "users and posts"
	}
}

func sortLabel(s domain.SortOrder) string {
	if s == domain.SortAsc {
		return "oldest first"
	}
	return "newest first"
}

func (m Model) helpLine() string {
	if m.searching {
		return "enter: search • esc: cancel"
	}
	k := m.keys
	if !m.showHints {
		return common.HelpLine(k.Open, k.Search, k.NewInline, k.MyProfile, k.ToggleHints, k.Quit)
	}
	return common.HelpLine(k.Up, k.Down, k.Open, k.Author, k.Search, k.SearchType, k.Sort,
		k.Refresh, k.NewEditor, k.NewInline, k.MyProfile, k.Logout, k.ToggleHints, k.Quit)
}
