package feed

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/tui/common"
)

const defaultLimit = 20

// --- Messages ---

// ResultsLoadedMsg is sent when a search completes.
type ResultsLoadedMsg struct {
	Results domain.SearchResults
	ReqSeq  int
}

// ResultsErrorMsg is sent when a search fails.
type ResultsErrorMsg struct {
	Err    error
	ReqSeq int
}

// PrefsChangedMsg asks the root to persist the search preferences.
type PrefsChangedMsg struct {
	Query string
	Sort  domain.SortOrder
}

// --- Model ---

// item is one selectable row: a user or a post.
type item struct {
	user string
	post *domain.Post
}

// Model is the search / post list view.
type Model struct {
	search    app.SearchService
	limit     int
	query     string
	kind      domain.SearchType
	sort      domain.SortOrder
	input     textinput.Model
	searching bool // Search box focused
	results   domain.SearchResults
	items     []item
	cursor    int
	loading   bool
	err       error
	reqSeq    int
	keys      common.KeyMap
	spinner   spinner.Model
	showHints bool
	width     int
	height    int
	now       func() time.Time
}

// New creates the feed view. An empty query lists every post.
func New(search app.SearchService, limit int, query string, sort domain.SortOrder) Model {
	if limit <= 0 {
		limit = defaultLimit
	}
	if sort != domain.SortAsc {
		sort = domain.SortDesc
	}

	in := textinput.New()
	in.Placeholder = "search users and posts"
	in.Prompt = "/ "
	in.CharLimit = 120
	in.SetValue(query)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		search:  search,
		limit:   limit,
		query:   query,
		kind:    domain.SearchAll,
		sort:    sort,
		input:   in,
		keys:    common.DefaultKeyMap(),
		spinner: s,
		loading: true,
		now:     time.Now,
	}
}

// Init starts the first search.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

// Refresh re-runs the current search.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.reqSeq++
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.fetch(m.reqSeq), m.spinner.Tick)
}

// Searching reports whether the search box has focus, so the root can hold
// back global keys.
func (m Model) Searching() bool { return m.searching }

// Query returns the active search text.
func (m Model) Query() string { return m.query }

// Sort returns the active sort order.
func (m Model) Sort() domain.SortOrder { return m.sort }

func (m *Model) rebuildItems() {
	m.items = make([]item, 0, len(m.results.Users)+len(m.results.Posts))
	for _, u := range m.results.Users {
		m.items = append(m.items, item{user: u})
	}
	for i := range m.results.Posts {
		m.items = append(m.items, item{post: &m.results.Posts[i]})
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(len(m.items)-1, 0)
	}
}

func (m Model) selected() (item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return item{}, false
	}
	return m.items[m.cursor], true
}

func nextKind(k domain.SearchType) domain.SearchType {
	switch k {
	case domain.SearchAll:
		return domain.SearchPosts
	case domain.SearchPosts:
		return domain.SearchUsers
	default:
		return domain.SearchAll
	}
}
