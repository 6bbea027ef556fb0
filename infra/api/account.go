package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
)

// accountService implements app.AccountService.
type accountService struct {
	client *Client
}

// NewAccountService creates an AccountService backed by the duel API.
func NewAccountService(client *Client) *accountService {
	return &accountService{client: client}
}

func (s *accountService) CurrentProfile(ctx context.Context) (domain.Profile, error) {
	var w wireProfile
	if err := s.client.Get(ctx, "/profile", &w); err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile: %w", err)
	}
	return w.toDomain(), nil
}

func (s *accountService) ProfileByUsername(ctx context.Context, username string) (domain.Profile, error) {
	var w wireProfile
	if err := s.client.Get(ctx, "/user/"+url.PathEscape(strings.TrimSpace(username)), &w); err != nil {
		return domain.Profile{}, fmt.Errorf("fetching profile for %s: %w", username, err)
	}
	p := w.toDomain()
	if p.Username == "" {
		p.Username = username
	}
	return p, nil
}

type updateProfileRequest struct {
	Bio string `json:"bio"`
}

func (s *accountService) UpdateBio(ctx context.Context, bio string) (domain.Profile, error) {
	var resp struct {
		Profile *wireProfile `json:"profile"`
	}
	if err := s.client.Put(ctx, "/profile", updateProfileRequest{Bio: strings.TrimSpace(bio)}, &resp); err != nil {
		return domain.Profile{}, fmt.Errorf("updating bio: %w", err)
	}
	if resp.Profile == nil {
		return s.CurrentProfile(ctx)
	}
	return resp.Profile.toDomain(), nil
}

func (s *accountService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	var resp struct {
		AvatarURL string `json:"avatar_url"`
	}
	if err := s.client.Upload(ctx, "/upload_avatar", "avatar", filename, r, &resp); err != nil {
		return "", fmt.Errorf("uploading avatar: %w", err)
	}
	return sanitizeForTerminal(resp.AvatarURL), nil
}

func (s *accountService) Follow(ctx context.Context, username string) error {
	if err := s.client.Post(ctx, "/follow/"+url.PathEscape(username), nil, nil); err != nil {
		return fmt.Errorf("following %s: %w", username, err)
	}
	return nil
}

func (s *accountService) Unfollow(ctx context.Context, username string) error {
	if err := s.client.Post(ctx, "/unfollow/"+url.PathEscape(username), nil, nil); err != nil {
		return fmt.Errorf("unfollowing %s: %w", username, err)
	}
	return nil
}
