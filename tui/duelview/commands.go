package duelview

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// fetch loads status, duel comments, voting comments and the viewer
// concurrently and delivers them as one message stamped with reqSeq.
func (m Model) fetch(reqSeq int) tea.Cmd {
	posts, duels, account, id := m.posts, m.duels, m.account, m.id
	return func() tea.Msg {
		ctx := context.Background()
		msg := LoadedMsg{ReqSeq: reqSeq}
		errs := make([]error, 4)

		var wg sync.WaitGroup
		wg.Add(4)
		go func() {
			defer wg.Done()
			msg.Post, errs[0] = posts.Status(ctx, id)
		}()
		go func() {
			defer wg.Done()
			msg.Duel, errs[1] = duels.Comments(ctx, id)
		}()
		go func() {
			defer wg.Done()
			msg.Voting, errs[2] = posts.Comments(ctx, id)
		}()
		go func() {
			defer wg.Done()
			me, err := account.CurrentProfile(ctx)
			msg.Viewer, errs[3] = me.Username, err
		}()
		wg.Wait()

		if err := errors.Join(errs...); err != nil {
			return ErrorMsg{PostID: id, Err: err, ReqSeq: reqSeq}
		}
		return msg
	}
}

func (m Model) action(what string, call func(context.Context, string) error) tea.Cmd {
	id := m.id
	return func() tea.Msg {
		err := call(context.Background(), id)
		if err == nil {
			log.Info().Str("post_id", id).Str("action", what).Msg("duel action")
		}
		return ActionResultMsg{PostID: id, What: what, Err: err}
	}
}

func (m Model) comment(text string) tea.Cmd {
	duels, id := m.duels, m.id
	return func() tea.Msg {
		err := duels.Comment(context.Background(), id, text)
		return ActionResultMsg{PostID: id, What: "Duel comment sent", Err: err}
	}
}
