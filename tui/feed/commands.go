package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
)

func (m Model) fetch(reqSeq int) tea.Cmd {
	search := m.search
	q := app.SearchQuery{
		Text:  m.query,
		Type:  m.kind,
		Limit: m.limit,
		Sort:  m.sort,
	}
	// The API rejects an empty user-only search.
	if q.Type == domain.SearchUsers && q.Text == "" {
		return func() tea.Msg {
			return ResultsLoadedMsg{ReqSeq: reqSeq}
		}
	}
	return func() tea.Msg {
		res, err := search.Search(context.Background(), q)
		if err != nil {
			return ResultsErrorMsg{Err: err, ReqSeq: reqSeq}
		}
		return ResultsLoadedMsg{Results: res, ReqSeq: reqSeq}
	}
}

func (m Model) emitPrefsChanged() tea.Cmd {
	msg := PrefsChangedMsg{Query: m.query, Sort: m.sort}
	return func() tea.Msg { return msg }
}
