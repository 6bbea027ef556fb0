package domain

import (
	"strings"
	"time"
)

// Post is a debate topic as last reported by the API.
type Post struct {
	ID        string
	Author    string
	Body      string
	Media     []string
	Winner    string // Empty until voting resolves
	Second    string
	Started   bool // Duel underway
	Completed bool // Duel resolved
	Postponed bool
	// VotingEndsIn is the server's seconds-remaining snapshot; nil when the
	// post has no voting window.
	VotingEndsIn *int
	CreatedAt    time.Time
	LikeUsers    []string
	FlagUsers    []string
	FlagAnalysis *FlagAnalysis
	Tags         []string
}

// FlagAnalysis is the server's assessment of whether the duel winner should
// be replaced by the second.
type FlagAnalysis struct {
	ActualFlags      int
	MinFlagsRequired int
	ActualLikes      int
	InitialVotes     int
	FlagRatio        float64
	NetScore         float64
	ThresholdScore   float64
}

// AtRisk reports whether the flag counts currently satisfy the replacement
// thresholds as computed by the server.
func (f FlagAnalysis) AtRisk(ratioThreshold float64) bool {
	if f.ActualFlags < f.MinFlagsRequired {
		return false
	}
	return f.FlagRatio > ratioThreshold || f.NetScore <= f.ThresholdScore
}

// Comment is a voting-phase or duel comment.
type Comment struct {
	Commenter string
	Text      string
	Votes     int
	Voters    []string
	Pending   bool // Optimistically appended, not yet confirmed by a fetch
}

// HasVoter reports whether username voted for this comment.
func (c Comment) HasVoter(username string) bool {
	return contains(c.Voters, username)
}

// DuelReady reports whether both duel slots are filled.
func (p Post) DuelReady() bool {
	return p.Winner != "" && p.Second != ""
}

// LikedBy reports whether username has liked the post.
func (p Post) LikedBy(username string) bool {
	return contains(p.LikeUsers, username)
}

// FlaggedBy reports whether username has flagged the post.
func (p Post) FlaggedBy(username string) bool {
	return contains(p.FlagUsers, username)
}

// SameUser compares usernames ignoring surrounding whitespace and case.
func SameUser(a, b string) bool {
	return strings.ToLower(strings.TrimSpace(a)) == strings.ToLower(strings.TrimSpace(b))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if SameUser(v, s) {
			return true
		}
	}
	return false
}
