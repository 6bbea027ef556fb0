package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/countdown"
	"github.com/CrestNiraj12/duelterm/domain"
)

// watch prints a post's voting countdown once per second and re-fetches the
// status exactly once when it reaches zero. It returns when the window was
// already closed, after the re-fetch, or when ctx is cancelled.
func watch(ctx context.Context, posts app.PostService, id string, clock clockwork.Clock, out io.Writer) error {
	p, err := posts.Status(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching post %s: %w", id, err)
	}
	fmt.Fprintf(out, "%s by %s\n", id, p.Author)

	expired := make(chan struct{}, 1)
	ticker := countdown.NewTicker(clock, countdown.Hooks{
		OnStart: func(_ countdown.Generation, end time.Time) {
			fmt.Fprintf(out, "voting ends at %s\n", end.Format(time.Kitchen))
		},
		OnTick: func(left int) {
			fmt.Fprintf(out, "%s\n", countdown.FormatTimeLeft(left))
		},
		OnExpire: func() {
			select {
			case expired <- struct{}{}:
			default:
			}
		},
	})
	defer ticker.Stop()

	if ticker.Start(ctx, p.VotingEndsIn) == countdown.Closed {
		fmt.Fprintln(out, "voting closed")
		printOutcome(out, p)
		return nil
	}

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-expired:
	}

	log.Info().Str("post_id", id).Msg("voting window expired; refreshing")
	p, err = posts.Status(ctx, id)
	if err != nil {
		return fmt.Errorf("refreshing post %s: %w", id, err)
	}
	fmt.Fprintln(out, "voting ended")
	printOutcome(out, p)
	return nil
}

func printOutcome(out io.Writer, p domain.Post) {
	switch {
	case p.Completed && p.Winner != "":
		fmt.Fprintf(out, "duel completed, winner: %s\n", p.Winner)
	case p.DuelReady():
		fmt.Fprintf(out, "duel: %s vs %s\n", p.Author, p.Winner)
	case p.Postponed:
		fmt.Fprintln(out, "voting postponed")
	default:
		fmt.Fprintln(out, "waiting for a winner")
	}
}
