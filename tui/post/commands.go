package post

import (
	"context"
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/countdown"
)

// fetch loads status, comments and the viewer's profile concurrently and
// delivers them as one message stamped with reqSeq.
func (m Model) fetch(reqSeq int) tea.Cmd {
	posts, account, id := m.posts, m.account, m.id
	return func() tea.Msg {
		ctx := context.Background()
		msg := LoadedMsg{ReqSeq: reqSeq}
		var statusErr, listErr, profileErr error

		var wg sync.WaitGroup
		wg.Add(3)
		go func() {
			defer wg.Done()
			msg.Post, statusErr = posts.Status(ctx, id)
		}()
		go func() {
			defer wg.Done()
			msg.Comments, listErr = posts.Comments(ctx, id)
		}()
		go func() {
			defer wg.Done()
			me, err := account.CurrentProfile(ctx)
			msg.Viewer, profileErr = me.Username, err
		}()
		wg.Wait()

		if err := errors.Join(statusErr, listErr, profileErr); err != nil {
			return ErrorMsg{PostID: id, Err: err, ReqSeq: reqSeq}
		}
		return msg
	}
}

func tick(gen countdown.Generation) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

func (m Model) vote(candidate string) tea.Cmd {
	posts, id := m.posts, m.id
	return func() tea.Msg {
		err := posts.Vote(context.Background(), id, candidate)
		return ActionResultMsg{PostID: id, What: "Voted for " + candidate, Err: err}
	}
}

func (m Model) unvote() tea.Cmd {
	posts, id := m.posts, m.id
	return func() tea.Msg {
		err := posts.Unvote(context.Background(), id)
		return ActionResultMsg{PostID: id, What: "Vote revoked", Err: err}
	}
}

func (m Model) comment(text string) tea.Cmd {
	posts, id := m.posts, m.id
	return func() tea.Msg {
		err := posts.Comment(context.Background(), id, text)
		if err == nil {
			log.Info().Str("post_id", id).Msg("comment submitted")
		}
		return ActionResultMsg{PostID: id, What: "Comment submitted", Err: err}
	}
}
