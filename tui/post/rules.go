package post

import (
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/duel"
)

// votedFor returns the commenter the viewer voted for, or "".
func votedFor(comments []domain.Comment, viewer string) string {
	if viewer == "" {
		return ""
	}
	for _, c := range comments {
		if c.HasVoter(viewer) {
			return c.Commenter
		}
	}
	return ""
}

type voteAction int

const (
	voteNone voteAction = iota
	voteCast
	voteRevoke
)

// voteActionFor decides what the vote key does on comment c. Authors cannot
// vote on their own post, nobody votes for themselves, and a second vote
// requires revoking the first.
func voteActionFor(p domain.Post, viewer string, c domain.Comment, voted string) voteAction {
	if viewer == "" || p.Completed || c.Pending {
		return voteNone
	}
	if same(viewer, p.Author) || same(viewer, c.Commenter) {
		return voteNone
	}
	switch {
	case voted == "":
		return voteCast
	case same(voted, c.Commenter):
		return voteRevoke
	default:
		return voteNone
	}
}

// commentBlock explains why the viewer cannot comment, or returns "".
func commentBlock(p domain.Post, viewer string, comments []domain.Comment) string {
	switch {
	case viewer == "":
		return "Log in to comment."
	case p.Completed:
		return "This duel has ended. No more comments."
	case same(viewer, p.Author):
		return "You cannot comment on your own post."
	case p.Started:
		return "Duel in progress. You can no longer comment."
	}
	for _, c := range comments {
		if same(c.Commenter, viewer) {
			return "You already commented on this post."
		}
	}
	return ""
}

// duelOpen reports whether the post has moved to its duel.
func duelOpen(p domain.Post) bool {
	return p.DuelReady() && (p.Started || p.Completed)
}

func same(a, b string) bool {
	return duel.Normalize(a) == duel.Normalize(b)
}
