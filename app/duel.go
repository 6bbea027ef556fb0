package app

import (
	"context"

	"github.com/CrestNiraj12/duelterm/domain"
)

// DuelService drives the post-voting duel.
type DuelService interface {
	// Comments returns duel comments in insertion order.
	Comments(ctx context.Context, id string) ([]domain.Comment, error)

	// Comment posts the viewer's next duel comment.
	Comment(ctx context.Context, id, text string) error

	// Like likes the duel.
	Like(ctx context.Context, id string) error

	// Flag flags the duel winner for replacement.
	Flag(ctx context.Context, id string) error

	// Complete resolves the duel.
	Complete(ctx context.Context, id string) error
}
