package app

import (
	"context"

	"github.com/CrestNiraj12/duelterm/domain"
)

// SearchQuery holds /search parameters.
type SearchQuery struct {
	Text  string
	Type  domain.SearchType
	Limit int
	Sort  domain.SortOrder
}

// SearchService finds users and posts.
type SearchService interface {
	Search(ctx context.Context, q SearchQuery) (domain.SearchResults, error)
}
