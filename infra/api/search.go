package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
)

const maxSearchLimit = 100

// searchService implements app.SearchService.
type searchService struct {
	client *Client
}

// NewSearchService creates a SearchService backed by the duel API.
func NewSearchService(client *Client) *searchService {
	return &searchService{client: client}
}

type searchResponse struct {
	Users []string   `json:"users"`
	Posts []wirePost `json:"posts"`
}

func (s *searchService) Search(ctx context.Context, q app.SearchQuery) (domain.SearchResults, error) {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(q.Text))
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(min(q.Limit, maxSearchLimit)))
	}
	if q.Sort != "" {
		params.Set("sort", string(q.Sort))
	}

	var resp searchResponse
	if err := s.client.Get(ctx, "/search?"+params.Encode(), &resp); err != nil {
		return domain.SearchResults{}, fmt.Errorf("searching: %w", err)
	}

	res := domain.SearchResults{
		Users: sanitizeAll(resp.Users),
		Posts: make([]domain.Post, 0, len(resp.Posts)),
	}
	for _, p := range resp.Posts {
		res.Posts = append(res.Posts, p.toDomain())
	}
	return res, nil
}
