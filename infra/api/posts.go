package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/domain"
)

// postService implements app.PostService.
type postService struct {
	client *Client
	newID  func() string
}

// NewPostService creates a PostService backed by the duel API.
func NewPostService(client *Client) *postService {
	return &postService{
		client: client,
		newID:  uuid.NewString,
	}
}

type createPostRequest struct {
	Body        string  `json:"body"`
	VotingHours float64 `json:"voting_hours,omitempty"`
}

type createPostResponse struct {
	Tags  []string `json:"tags"`
	Media []string `json:"media"`
}

func (s *postService) Create(ctx context.Context, body string, votingHours float64) (domain.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Post{}, domain.ErrEmptyPost
	}

	id := s.newID()
	var resp createPostResponse
	if err := s.client.Post(ctx, "/create_post/"+url.PathEscape(id), createPostRequest{
		Body:        body,
		VotingHours: votingHours,
	}, &resp); err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}

	log.Info().Str("post", id).Msg("post created")
	return domain.Post{
		ID:    id,
		Body:  body,
		Tags:  sanitizeAll(resp.Tags),
		Media: sanitizeAll(resp.Media),
	}, nil
}

func (s *postService) Status(ctx context.Context, id string) (domain.Post, error) {
	var w wirePost
	if err := s.client.Get(ctx, "/status/"+url.PathEscape(id), &w); err != nil {
		return domain.Post{}, fmt.Errorf("fetching status: %w", err)
	}
	p := w.toDomain()
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

func (s *postService) Comments(ctx context.Context, id string) ([]domain.Comment, error) {
	return fetchComments(ctx, s.client, "/comments/"+url.PathEscape(id))
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *postService) Comment(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyComment
	}
	if err := s.client.Post(ctx, "/comment/"+url.PathEscape(id), commentRequest{Text: text}, nil); err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}

type voteRequest struct {
	Candidate string `json:"candidate"`
}

func (s *postService) Vote(ctx context.Context, id, candidate string) error {
	if err := s.client.Post(ctx, "/vote/"+url.PathEscape(id), voteRequest{Candidate: candidate}, nil); err != nil {
		return fmt.Errorf("voting: %w", err)
	}
	return nil
}

func (s *postService) Unvote(ctx context.Context, id string) error {
	if err := s.client.Post(ctx, "/unvote/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("revoking vote: %w", err)
	}
	return nil
}

// fetchComments accepts both {"comments": [...]} and a bare array.
func fetchComments(ctx context.Context, c *Client, path string) ([]domain.Comment, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}

	var list []wireComment
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parsing comments: %w", err)
		}
	} else if trimmed != "" {
		var wrapped struct {
			Comments []wireComment `json:"comments"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing comments: %w", err)
		}
		list = wrapped.Comments
	}
	return mapComments(list), nil
}
