package post

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// View renders the post and its comments.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("⚔ " + domain.AppTitle))
	b.WriteString("  " + common.SectionStyle.Render("Post") + "\n\n")

	if !m.loaded {
		if m.err != nil {
			b.WriteString(" " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(" " + m.spinner.View() + " Loading post...\n")
		}
		b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(m.keys.Refresh, m.keys.Back)))
		return b.String()
	}

	width := m.width - 4
	if width < 20 {
		width = 76
	}
	p := m.post

	b.WriteString(" Post by " + common.AuthorStyle.Render(p.Author))
	if p.Author == m.viewer {
		b.WriteString(common.OwnBadgeStyle.Render("(you)"))
	}
	b.WriteString("\n\n")
	b.WriteString(common.ContentStyle.Render(indent(common.ClampLinesToWidth(p.Body, width))) + "\n")

	if len(p.Tags) > 0 {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, common.BadgeStyle.Render("#"+t))
		}
		b.WriteString(" " + strings.Join(tags, " ") + "\n")
	}
	if len(p.Media) > 0 {
		b.WriteString("\n " + common.SectionStyle.Render("Media") + "\n")
		for _, u := range p.Media {
			b.WriteString("  • " + common.Truncate(u, width-4) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(" Winner: " + orDash(p.Winner) + "   Second: " + orDash(p.Second) + "\n")
	if label := m.cd.Label(); label != "" {
		b.WriteString(" Votes end in: " + common.CountdownStyle.Render(label) + "\n")
	}
	if p.Postponed {
		b.WriteString(" " + common.TimestampStyle.Render("Duel postponed: not enough comments yet.") + "\n")
	}
	if duelOpen(p) {
		b.WriteString(" " + common.SuccessStyle.Render("👉 Duel open. Press d to watch.") + "\n")
	}

	b.WriteString("\n " + common.SectionStyle.Render("Comments") + "\n")
	if len(m.comments) == 0 {
		b.WriteString(" " + common.TimestampStyle.Render("No comments yet.") + "\n")
	}
	voted := votedFor(m.comments, m.viewer)
	for i, c := range m.comments {
		style := common.UnselectedStyle
		if i == m.cursor {
			style = common.SelectedStyle
		}
		b.WriteString(style.Width(width).Render(m.renderComment(c, voted, width-4)) + "\n")
	}

	if reason := commentBlock(p, m.viewer, m.comments); reason != "" {
		b.WriteString(" " + common.TimestampStyle.Render(reason) + "\n")
	}

	b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(
		m.keys.Up, m.keys.Down, m.keys.Vote, m.keys.Unvote, m.keys.Comment, m.keys.CommentInline,
		m.keys.Duel, m.keys.Author, m.keys.OpenMedia, m.keys.Refresh, m.keys.Back)))
	return b.String()
}

func (m Model) renderComment(c domain.Comment, voted string, width int) string {
	header := common.AuthorStyle.Render(c.Commenter) +
		common.TimestampStyle.Render(fmt.Sprintf("  (%s)", common.Plural(c.Votes, "vote")))
	switch {
	case c.Pending:
		header += common.TimestampStyle.Render("  sending...")
	case voted != "" && same(voted, c.Commenter):
		header += common.OwnBadgeStyle.Render("🗳 You voted")
	}
	return header + "\n" + common.ContentStyle.Render(common.ClampLinesToWidth(c.Text, width))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return common.AuthorStyle.Render(s)
}

func indent(s string) string {
	return " " + strings.ReplaceAll(s, "\n", "\n ")
}
