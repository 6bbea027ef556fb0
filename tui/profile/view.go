package profile

import (
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// View renders the profile.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("⚔ " + domain.AppTitle))
	b.WriteString("  " + common.SectionStyle.Render("Profile") + "\n\n")

	if !m.loaded {
		if m.err != nil {
			b.WriteString(" " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
		} else {
			b.WriteString(" " + m.spinner.View() + " Loading profile...\n")
		}
		b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(m.keys.Refresh, m.keys.Back)))
		return b.String()
	}

	p := m.profile
	b.WriteString(" " + common.AuthorStyle.Render("@"+p.Username))
	switch {
	case m.Own():
		b.WriteString(common.OwnBadgeStyle.Render("(you)"))
	case p.FollowedBy(m.viewer):
		b.WriteString(common.OwnBadgeStyle.Render("(following)"))
	}
	b.WriteString("\n")

	if p.AvatarURL != "" {
		b.WriteString(" " + common.TimestampStyle.Render("avatar: "+p.AvatarURL) + "\n")
	}
	bio := p.Bio
	if bio == "" {
		bio = "No bio yet."
	}
	b.WriteString("\n" + common.ContentStyle.Render(" "+bio) + "\n\n")

	if len(p.Badges) > 0 {
		badges := make([]string, 0, len(p.Badges))
		for _, badge := range p.Badges {
			badges = append(badges, common.BadgeStyle.Render("🏅 "+badge))
		}
		b.WriteString(" " + strings.Join(badges, " ") + "\n\n")
	}

	b.WriteString(" " + common.TimestampStyle.Render(common.Plural(len(p.Followers), "follower")+" • "+common.Count(len(p.Following))+" following") + "\n")
	if len(p.Followers) > 0 {
		b.WriteString(" " + common.TimestampStyle.Render("followers: "+strings.Join(p.Followers, ", ")) + "\n")
	}
	if len(p.Following) > 0 {
		b.WriteString(" " + common.TimestampStyle.Render("following: "+strings.Join(p.Following, ", ")) + "\n")
	}

	switch m.edit {
	case editBio:
		b.WriteString("\n Edit bio\n " + m.input.View() + "\n")
	case editAvatar:
		b.WriteString("\n Upload avatar\n " + m.input.View() + "\n")
	}

	if m.edit != editNone {
		b.WriteString(common.StatusBarStyle.Render(" enter: save • esc: cancel"))
		return b.String()
	}
	k := m.keys
	if m.Own() {
		b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(k.EditBio, k.Avatar, k.OpenMedia, k.Refresh, k.Back)))
	} else {
		b.WriteString(common.StatusBarStyle.Render(" " + common.HelpLine(k.Follow, k.OpenMedia, k.Refresh, k.Back)))
	}
	return b.String()
}
