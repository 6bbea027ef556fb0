package post

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/countdown"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// Update handles messages for the post view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LoadedMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		return m.applyLoaded(msg)

	case ErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, common.Fail("Loading post failed", msg.Err)

	case TickMsg:
		step := m.cd.Tick(msg.Gen)
		switch {
		case step.Expired:
			log.Debug().Str("post_id", m.id).Uint64("gen", uint64(msg.Gen)).Msg("voting window expired; refreshing")
			return m.refresh()
		case step.Live:
			return m, tick(msg.Gen)
		}
		return m, nil

	case SubmitCommentMsg:
		return m.submitComment(msg.Text)

	case ActionResultMsg:
		if msg.Err != nil {
			m = m.dropPending()
			return m, common.Fail(msg.What+" failed", msg.Err)
		}
		m, cmd := m.refresh()
		return m, tea.Batch(cmd, common.Status(msg.What+"."))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) applyLoaded(msg LoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	m.loaded = true
	m.err = nil
	m.post = msg.Post
	m.comments = msg.Comments
	if msg.Viewer != "" {
		m.viewer = msg.Viewer
	}
	if m.cursor >= len(m.comments) {
		m.cursor = max(len(m.comments)-1, 0)
	}

	gen := m.cd.Snapshot(m.post.VotingEndsIn)
	if m.cd.State() == countdown.Counting {
		return m, tick(gen)
	}
	return m, nil
}

// refresh starts a new fetch; older in-flight responses become stale.
func (m Model) refresh() (Model, tea.Cmd) {
	m.reqSeq = common.NextReqSeq()
	m.loading = true
	return m, tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

func (m Model) submitComment(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, common.Fail("Comment not sent", domain.ErrEmptyComment)
	}
	if reason := commentBlock(m.post, m.viewer, m.comments); reason != "" {
		return m, common.Fail("Comment not sent", errors.New(reason))
	}
	m.comments = append(append([]domain.Comment(nil), m.comments...), domain.Comment{
		Commenter: m.viewer,
		Text:      text,
		Pending:   true,
	})
	return m, m.comment(text)
}

func (m Model) dropPending() Model {
	kept := make([]domain.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		if !c.Pending {
			kept = append(kept, c)
		}
	}
	m.comments = kept
	if m.cursor >= len(m.comments) {
		m.cursor = max(len(m.comments)-1, 0)
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, common.Emit(common.BackMsg{})
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.comments)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	}

	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Vote), key.Matches(msg, m.keys.Unvote):
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		action := voteActionFor(m.post, m.viewer, c, votedFor(m.comments, m.viewer))
		switch {
		case action == voteCast && key.Matches(msg, m.keys.Vote):
			return m, m.vote(c.Commenter)
		case action == voteRevoke && key.Matches(msg, m.keys.Unvote):
			return m, m.unvote()
		case action == voteRevoke:
			return m, common.Status("You already voted for " + c.Commenter + ". Press u to revoke.")
		}
		return m, common.Status("You cannot vote on this comment.")

	case key.Matches(msg, m.keys.Comment), key.Matches(msg, m.keys.CommentInline):
		if reason := commentBlock(m.post, m.viewer, m.comments); reason != "" {
			return m, common.Status(reason)
		}
		return m, common.Emit(common.ComposeMsg{
			Target:  common.ComposeComment,
			PostID:  m.id,
			Heading: "Commenting on " + m.post.Author + "'s post",
			Inline:  key.Matches(msg, m.keys.CommentInline),
		})

	case key.Matches(msg, m.keys.Duel):
		if !duelOpen(m.post) {
			return m, common.Status("The duel has not started yet.")
		}
		return m, common.Emit(common.OpenDuelMsg{ID: m.id})

	case key.Matches(msg, m.keys.Author):
		return m, common.Emit(common.OpenProfileMsg{Username: m.post.Author})

	case key.Matches(msg, m.keys.Open):
		if c, ok := m.selected(); ok {
			return m, common.Emit(common.OpenProfileMsg{Username: c.Commenter})
		}

	case key.Matches(msg, m.keys.OpenMedia):
		return m, common.OpenURLs(m.post.Media)
	}
	return m, nil
}
