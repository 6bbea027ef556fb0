// Package duel decides whose turn it is in a two-party duel.
//
// The turn is derived from the comment log alone: the dueler who did not
// write the most recent duel comment moves next. No stored counter is
// trusted, so the result is the same however often it is recomputed.
package duel

import (
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
)

// Duelers is the ordered pair of participants. The first entry moves first.
type Duelers [2]string

// DuelersOf returns the post author and the declared winner.
func DuelersOf(p domain.Post) Duelers {
	return Duelers{p.Author, p.Winner}
}

// Has reports whether name is one of the duelers after normalization.
func (d Duelers) Has(name string) bool {
	n := Normalize(name)
	if n == "" {
		return false
	}
	return n == Normalize(d[0]) || n == Normalize(d[1])
}

// Ready reports whether both slots hold distinct participants.
func (d Duelers) Ready() bool {
	a, b := Normalize(d[0]), Normalize(d[1])
	return a != "" && b != "" && a != b
}

// other returns the dueler that is not name. name must be normalized.
func (d Duelers) other(name string) string {
	if Normalize(d[0]) == name {
		return d[1]
	}
	return d[0]
}

// Turn is the arbitrator's verdict for one viewer.
type Turn struct {
	Current    string // One of the duelers, spelled as in Duelers
	CanComment bool
}

// Normalize trims surrounding whitespace and lower-cases a username so that
// inconsistent casing from the API does not break comparisons.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Filter keeps the comments written by either dueler, preserving order.
func Filter(d Duelers, comments []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if d.Has(c.Commenter) {
			out = append(out, c)
		}
	}
	return out
}

// Arbitrate returns whose turn it is and whether viewer may comment now.
// It returns domain.ErrDuelNotReady when either participant is missing.
func Arbitrate(d Duelers, comments []domain.Comment, viewer string) (Turn, error) {
	if !d.Ready() {
		return Turn{}, domain.ErrDuelNotReady
	}

	current := d[0]
	if log := Filter(d, comments); len(log) > 0 {
		current = d.other(Normalize(log[len(log)-1].Commenter))
	}

	v := Normalize(viewer)
	return Turn{
		Current:    current,
		CanComment: d.Has(v) && v == Normalize(current),
	}, nil
}
