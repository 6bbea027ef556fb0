package duelview

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/duel"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

// Update handles messages for the duel view.
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
		m.loading = false
		m.loaded = true
		m.err = nil
		m.post = msg.Post
		m.comments = duel.Filter(duel.DuelersOf(msg.Post), msg.Duel)
		m.voting = msg.Voting
		if msg.Viewer != "" {
			m.viewer = msg.Viewer
		}
		m.arbitrate()
		return m, nil

	case ErrorMsg:
		if msg.ReqSeq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, common.Fail("Loading duel failed", msg.Err)

	case SubmitCommentMsg:
		return m.submitComment(msg.Text)

	case ActionResultMsg:
		m.busy = false
		if msg.Err != nil {
			m = m.dropPending()
			return m, common.Fail(msg.What+" failed", msg.Err)
		}
		m, cmd := m.Refresh()
		return m, tea.Batch(cmd, common.Status(msg.What+"."))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// Refresh re-fetches the duel; in-flight responses become stale.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.reqSeq = common.NextReqSeq()
	m.loading = true
	return m, tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

func (m Model) submitComment(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, common.Fail("Duel comment not sent", domain.ErrEmptyComment)
	}
	if m.turnErr != nil {
		return m, common.Fail("Duel comment not sent", m.turnErr)
	}
	if !m.canComment() {
		return m, common.Fail("Duel comment not sent", domain.ErrNotYourTurn)
	}
	m.comments = append(append([]domain.Comment(nil), m.comments...), domain.Comment{
		Commenter: m.viewer,
		Text:      text,
		Pending:   true,
	})
	m.arbitrate()
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
	m.arbitrate()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirm {
		m.confirm = false
		if msg.String() == "y" && m.canComplete() {
			m.busy = true
			return m, m.action("Duel completed", m.duels.Complete)
		}
		return m, common.Status("Cancelled.")
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, common.Emit(common.BackMsg{})
	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()
	}

	if !m.loaded || m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Comment), key.Matches(msg, m.keys.CommentInline):
		switch {
		case m.post.Completed:
			return m, common.Status("This duel has ended.")
		case errors.Is(m.turnErr, domain.ErrDuelNotReady):
			return m, common.Status("Waiting for both duelers.")
		case !m.duelers().Has(m.viewer):
			return m, common.Status("Only duel participants can comment.")
		case !m.canComment():
			return m, common.Status("Not your turn. Waiting for " + m.turn.Current + ".")
		}
		return m, common.Emit(common.ComposeMsg{
			Target:  common.ComposeDuelComment,
			PostID:  m.id,
			Heading: "Your turn in the duel against " + m.opponent(),
			Inline:  key.Matches(msg, m.keys.CommentInline),
		})

	case key.Matches(msg, m.keys.Like):
		if !m.canLike() {
			return m, common.Status("You cannot like this duel.")
		}
		m.busy = true
		return m, m.action("Liked", m.duels.Like)

	case key.Matches(msg, m.keys.Flag):
		if !m.canFlag() {
			return m, common.Status("You cannot flag this duel.")
		}
		m.busy = true
		return m, m.action("Flagged", m.duels.Flag)

	case key.Matches(msg, m.keys.Complete):
		if !m.canComplete() {
			return m, common.Status("Only duelers can complete an open duel.")
		}
		m.confirm = true
		return m, nil

	case key.Matches(msg, m.keys.Author):
		return m, common.Emit(common.OpenProfileMsg{Username: m.post.Author})
	}
	return m, nil
}

func (m Model) opponent() string {
	d := m.duelers()
	if duel.Normalize(d[0]) == duel.Normalize(m.viewer) {
		return d[1]
	}
	return d[0]
}
