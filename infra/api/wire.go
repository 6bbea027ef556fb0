package api

import (
	"math"
	"strings"
	"time"

	"github.com/CrestNiraj12/duelterm/domain"
)

// wirePost is the union of the post shapes returned by /status and /search.
type wirePost struct {
	ID           string        `json:"id"`
	Author       string        `json:"author"`
	Body         string        `json:"body"`
	Media        []string      `json:"media"`
	Winner       *string       `json:"winner"`
	Second       *string       `json:"second"`
	Started      bool          `json:"started"`
	Completed    bool          `json:"completed"`
	Postponed    bool          `json:"postponed"`
	VotingEndsIn *float64      `json:"voting_ends_in"`
	CreatedAt    string        `json:"created_at"`
	LikeUsers    []string      `json:"like_users"`
	FlagUsers    []string      `json:"flag_users"`
	FlagAnalysis *wireAnalysis `json:"flag_analysis"`
	Tags         []string      `json:"tags"`
}

type wireAnalysis struct {
	ActualFlags      int     `json:"actual_flags"`
	MinFlagsRequired int     `json:"min_flags_required"`
	ActualLikes      int     `json:"actual_likes"`
	InitialVotes     int     `json:"initial_votes"`
	FlagRatio        float64 `json:"flag_ratio"`
	NetScore         float64 `json:"net_score"`
	ThresholdScore   float64 `json:"threshold_score"`
}

type wireComment struct {
	Commenter string   `json:"commenter"`
	Text      string   `json:"text"`
	Votes     int      `json:"votes"`
	Voters    []string `json:"voters"`
}

type wireProfile struct {
	Username  string   `json:"username"`
	AvatarURL string   `json:"avatar_url"`
	Bio       string   `json:"bio"`
	Badges    []string `json:"badges"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// The API emits naive ISO timestamps; accept the common variants.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (w wirePost) toDomain() domain.Post {
	p := domain.Post{
		ID:        sanitizeForTerminal(w.ID),
		Author:    sanitizeForTerminal(w.Author),
		Body:      sanitizeForTerminal(w.Body),
		Media:     sanitizeAll(w.Media),
		Winner:    sanitizeForTerminal(deref(w.Winner)),
		Second:    sanitizeForTerminal(deref(w.Second)),
		Started:   w.Started,
		Completed: w.Completed,
		Postponed: w.Postponed,
		CreatedAt: parseTime(w.CreatedAt),
		LikeUsers: sanitizeAll(w.LikeUsers),
		FlagUsers: sanitizeAll(w.FlagUsers),
		Tags:      sanitizeAll(w.Tags),
	}
	if w.VotingEndsIn != nil {
		left := int(math.Floor(*w.VotingEndsIn))
		p.VotingEndsIn = &left
	}
	if a := w.FlagAnalysis; a != nil {
		p.FlagAnalysis = &domain.FlagAnalysis{
			ActualFlags:      a.ActualFlags,
			MinFlagsRequired: a.MinFlagsRequired,
			ActualLikes:      a.ActualLikes,
			InitialVotes:     a.InitialVotes,
			FlagRatio:        a.FlagRatio,
			NetScore:         a.NetScore,
			ThresholdScore:   a.ThresholdScore,
		}
	}
	return p
}

func (w wireComment) toDomain() domain.Comment {
	return domain.Comment{
		Commenter: sanitizeForTerminal(w.Commenter),
		Text:      sanitizeForTerminal(w.Text),
		Votes:     w.Votes,
		Voters:    sanitizeAll(w.Voters),
	}
}

func (w wireProfile) toDomain() domain.Profile {
	return domain.Profile{
		Username:  sanitizeForTerminal(w.Username),
		AvatarURL: sanitizeForTerminal(w.AvatarURL),
		Bio:       sanitizeForTerminal(w.Bio),
		Badges:    sanitizeAll(w.Badges),
		Followers: sanitizeAll(w.Followers),
		Following: sanitizeAll(w.Following),
	}
}

func mapComments(list []wireComment) []domain.Comment {
	out := make([]domain.Comment, 0, len(list))
	for _, c := range list {
		out = append(out, c.toDomain())
	}
	return out
}
