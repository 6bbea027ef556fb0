package app

import (
	"context"
	"io"

	"github.com/CrestNiraj12/duelterm/domain"
)

// AccountService provides profile information and social actions.
type AccountService interface {
	// CurrentProfile returns the authenticated user's profile.
	CurrentProfile(ctx context.Context) (domain.Profile, error)

	// ProfileByUsername returns another user's public profile.
	ProfileByUsername(ctx context.Context, username string) (domain.Profile, error)

	// UpdateBio replaces the authenticated user's bio.
	UpdateBio(ctx context.Context, bio string) (domain.Profile, error)

	// UploadAvatar uploads a new avatar image and returns its URL.
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error)

	Follow(ctx context.Context, username string) error
	Unfollow(ctx context.Context, username string) error
}
