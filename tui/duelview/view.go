package duelview

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/duel"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// View renders the duel.
func (m Model) View() string {
	var b strings.Builder
	title := "Duel"
	if m.post.Completed {
		title = "Duel resolved"
	}
	b.WriteString(common.AppTitleStyle.Render("⚔ " + domain.AppTitle))
	b.WriteString("  " + common.SectionStyle.Render(title) + "\n\n")

	if !m.loaded {
		if m.err != nil {
			b.WriteString(" " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(" " + m.spinner.View() + " Loading duel...\n")
		}
		b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(m.keys.Refresh, m.keys.Back)))
		return b.String()
	}

	width := m.width - 4
	if width < 20 {
		width = 76
	}
	p := m.post

	b.WriteString(" Posted by " + common.AuthorStyle.Render(p.Author) + "\n")
	b.WriteString(common.ContentStyle.Render(" "+common.ClampLinesToWidth(common.FirstLine(p.Body), width)) + "\n\n")

	if p.Completed {
		b.WriteString(m.victoryView(width))
	} else {
		b.WriteString(" " + m.turnBanner() + "\n\n")
	}

	b.WriteString(" " + common.SectionStyle.Render("Duel comments") + "\n")
	if len(m.comments) == 0 {
		b.WriteString(" " + common.TimestampStyle.Render("No duel comments yet.") + "\n")
	}
	for _, c := range m.comments {
		line := common.AuthorStyle.Render(c.Commenter) + ": " + common.ContentStyle.Render(c.Text)
		if c.Pending {
			line += common.TimestampStyle.Render("  sending...")
		}
		b.WriteString(" " + common.ClampLinesToWidth(line, width) + "\n")
	}

	b.WriteString("\n" + m.reactionsView())
	if fa := p.FlagAnalysis; fa != nil {
		b.WriteString(flagAnalysisView(*fa))
	}

	if m.confirm {
		b.WriteString("\n" + common.ConfirmStyle.Render("Complete this duel now? (y/N)") + "\n")
	}

	k := m.keys
	k.Comment.SetEnabled(m.canComment())
	k.CommentInline.SetEnabled(m.canComment())
	k.Like.SetEnabled(m.canLike())
	k.Flag.SetEnabled(m.canFlag())
	k.Complete.SetEnabled(m.canComplete())
	b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(
		k.Comment, k.CommentInline, k.Like, k.Flag, k.Complete, k.Author, k.Refresh, k.Back)))
	return b.String()
}

func (m Model) turnBanner() string {
	switch {
	case errors.Is(m.turnErr, domain.ErrDuelNotReady):
		return common.WaitingStyle.Render("Waiting for both duelers to be decided...")
	case m.turn.CanComment:
		return common.TurnStyle.Render("Your turn! Press c to reply to " + m.opponent() + ".")
	case m.duelers().Has(m.viewer):
		return common.WaitingStyle.Render("Waiting for " + m.turn.Current + " to reply...")
	default:
		d := m.duelers()
		return common.WaitingStyle.Render(fmt.Sprintf("%s vs %s • %s's turn", d[0], d[1], m.turn.Current))
	}
}

func (m Model) reactionsView() string {
	p := m.post
	var b strings.Builder
	likes := fmt.Sprintf(" 👍 %s", common.Plural(len(p.LikeUsers), "like"))
	if p.LikedBy(m.viewer) {
		likes += common.OwnBadgeStyle.Render("(you liked)")
	}
	flags := fmt.Sprintf("   🚩 %s", common.Plural(len(p.FlagUsers), "flag"))
	if p.FlaggedBy(m.viewer) {
		flags += common.OwnBadgeStyle.Render("(you flagged)")
	}
	b.WriteString(likes + flags + "\n")
	return b.String()
}

func flagAnalysisView(fa domain.FlagAnalysis) string {
	var b strings.Builder
	b.WriteString("\n " + common.SectionStyle.Render("Flag analysis") + "\n")
	b.WriteString(common.TimestampStyle.Render(fmt.Sprintf(
		"  flags %d/%d • ratio %.0f%% • net score %.1f (threshold %.1f) • likes %d • initial votes %d",
		fa.ActualFlags, fa.MinFlagsRequired, fa.FlagRatio*100, fa.NetScore, fa.ThresholdScore,
		fa.ActualLikes, fa.InitialVotes)) + "\n")
	if fa.AtRisk(flagRatioThreshold) {
		b.WriteString("  " + common.ErrorStyle.Render("The winner may be replaced by the second.") + "\n")
	}
	return b.String()
}

func (m Model) victoryView(width int) string {
	p := m.post
	var b strings.Builder
	b.WriteString(" 🏆 Winner: " + common.AuthorStyle.Render(orDash(p.Winner)))
	b.WriteString("   🥈 Second: " + common.AuthorStyle.Render(orDash(p.Second)) + "\n")
	if c, ok := winningComment(m.voting, p.Winner); ok {
		b.WriteString(common.ContentStyle.Render(" “"+common.Truncate(c.Text, width-4)+"”") + "\n")
	}
	if ranking := rank(m.voting); len(ranking) > 0 {
		b.WriteString("\n " + common.SectionStyle.Render("Final ranking") + "\n")
		for i, c := range ranking {
			b.WriteString(fmt.Sprintf("  %d. %s  %s\n", i+1, c.Commenter, common.TimestampStyle.Render(common.Plural(c.Votes, "vote"))))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// winningComment returns the voting comment written by winner.
func winningComment(voting []domain.Comment, winner string) (domain.Comment, bool) {
	if winner == "" {
		return domain.Comment{}, false
	}
	for _, c := range voting {
		if duel.Normalize(c.Commenter) == duel.Normalize(winner) {
			return c, true
		}
	}
	return domain.Comment{}, false
}

// rank orders voting comments by votes, most first, keeping insertion order on ties.
func rank(voting []domain.Comment) []domain.Comment {
	out := append([]domain.Comment(nil), voting...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	return out
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
