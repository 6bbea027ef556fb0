package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Back          key.Binding
	Refresh       key.Binding
	Up            key.Binding
	Down          key.Binding
	Open          key.Binding // enter: open post or profile
	Search        key.Binding // /: focus the search box
	SearchType    key.Binding // tab: cycle all/user/post
	Sort          key.Binding // s: toggle asc/desc
	NewEditor     key.Binding // p: compose via $EDITOR
	NewInline     key.Binding // P: compose via inline textarea
	Comment       key.Binding // c: comment via $EDITOR
	CommentInline key.Binding // C: comment inline
	Vote          key.Binding
	Unvote        key.Binding
	Duel          key.Binding // d: open the duel view
	Like          key.Binding
	Flag          key.Binding
	Complete      key.Binding // x: resolve the duel
	MyProfile     key.Binding
	Author        key.Binding // a: author's profile
	Follow        key.Binding
	EditBio       key.Binding
	Avatar        key.Binding
	OpenMedia     key.Binding
	Logout        key.Binding
	ToggleHints   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		SearchType: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "users/posts"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		NewEditor: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "post ($EDITOR)"),
		),
		NewInline: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "post (inline)"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment ($EDITOR)"),
		),
		CommentInline: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "comment (inline)"),
		),
		Vote: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "vote"),
		),
		Unvote: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unvote"),
		),
		Duel: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "duel"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Flag: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flag"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "complete duel"),
		),
		MyProfile: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "my profile"),
		),
		Author: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "author"),
		),
		Follow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "follow/unfollow"),
		),
		EditBio: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "edit bio"),
		),
		Avatar: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "upload avatar"),
		),
		OpenMedia: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open media"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		ToggleHints: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hints"),
		),
	}
}

// HelpLine renders bindings as "k: help • k: help".
func HelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return joinDots(parts)
}
