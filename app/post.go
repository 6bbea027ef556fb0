package app

import (
	"context"

	"github.com/CrestNiraj12/duelterm/domain"
)

// PostService reads and mutates posts during the voting phase.
type PostService interface {
	// Create publishes a new post. The ID is generated client-side.
	Create(ctx context.Context, body string, votingHours float64) (domain.Post, error)

	// Status returns the latest post snapshot.
	Status(ctx context.Context, id string) (domain.Post, error)

	// Comments returns voting-phase comments in insertion order.
	Comments(ctx context.Context, id string) ([]domain.Comment, error)

	// Comment adds the viewer's voting-phase comment.
	Comment(ctx context.Context, id, text string) error

	// Vote votes for the comment written by candidate.
	Vote(ctx context.Context, id, candidate string) error

	// Unvote revokes the viewer's vote.
	Unvote(ctx context.Context, id string) error
}
