package domain

// Profile is a user's public profile.
type Profile struct {
	Username  string
	AvatarURL string
	Bio       string
	Badges    []string
	Followers []string
	Following []string
}

// FollowedBy reports whether username follows this profile.
func (p Profile) FollowedBy(username string) bool {
	return contains(p.Followers, username)
}

// SearchResults is the combined user/post search response.
type SearchResults struct {
	Users []string
	Posts []Post
}

// SearchType restricts what a search returns.
type SearchType string

const (
	SearchAll   SearchType = "all"
	SearchUsers SearchType = "user"
	SearchPosts SearchType = "post"
)

// SortOrder orders post search results by creation time.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// Toggle returns the opposite order.
func (s SortOrder) Toggle() SortOrder {
	if s == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// AppTitle is shown in headers and the login screen.
const AppTitle = "duelterm"
