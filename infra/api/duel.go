package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/duelterm/domain"
)

// duelService implements app.DuelService.
type duelService struct {
	client *Client
}

// NewDuelService creates a DuelService backed by the duel API.
func NewDuelService(client *Client) *duelService {
	return &duelService{client: client}
}

func (s *duelService) Comments(ctx context.Context, id string) ([]domain.Comment, error) {
	return fetchComments(ctx, s.client, "/duel_comments/"+url.PathEscape(id))
}

func (s *duelService) Comment(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyComment
	}
	if err := s.client.Post(ctx, "/duel_comment/"+url.PathEscape(id), commentRequest{Text: text}, nil); err != nil {
		return fmt.Errorf("posting duel comment: %w", err)
	}
	return nil
}

func (s *duelService) Like(ctx context.Context, id string) error {
	return s.action(ctx, "/like/", id, "liking duel")
}

func (s *duelService) Flag(ctx context.Context, id string) error {
	return s.action(ctx, "/flag/", id, "flagging duel")
}

func (s *duelService) Complete(ctx context.Context, id string) error {
	return s.action(ctx, "/complete_duel/", id, "completing duel")
}

func (s *duelService) action(ctx context.Context, prefix, id, what string) error {
	if err := s.client.Post(ctx, prefix+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
