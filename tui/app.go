package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/app"
	"github.com/CrestNiraj12/duelterm/domain"
	"github.com/CrestNiraj12/duelterm/infra/auth"
	"github.com/CrestNiraj12/duelterm/infra/config"
	"github.com/CrestNiraj12/duelterm/infra/editor"
	"github.com/CrestNiraj12/duelterm/tui/common"
	"github.com/CrestNiraj12/duelterm/tui/compose"
	"github.com/CrestNiraj12/duelterm/tui/duelview"
	"github.com/CrestNiraj12/duelterm/tui/feed"
	"github.com/CrestNiraj12/duelterm/tui/login"
	"github.com/CrestNiraj12/duelterm/tui/post"
	"github.com/CrestNiraj12/duelterm/tui/profile"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Session     *auth.Session
	Auth        app.AuthService
	Posts       app.PostService
	Duels       app.DuelService
	Account     app.AccountService
	Search      app.SearchService
	Editor      *editor.EnvEditor
	Clock       clockwork.Clock // Drives post countdowns; nil means wall clock
	SearchLimit int
	StatePath   string // Where search preferences are persisted; empty disables
	UIState     config.UIState
}

type activeView int

const (
	loginView activeView = iota
	feedView
	postView
	duelView
	profileView
	composeView
)

// --- Messages ---

// viewerMsg reports the logged-in user's canonical username.
type viewerMsg struct {
	username string
	err      error
}

// postCreatedMsg reports the outcome of publishing a new post.
type postCreatedMsg struct {
	post domain.Post
	err  error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	stack   []activeView // Views to return to on BackMsg
	login   login.Model
	feed    feed.Model
	post    post.Model
	duel    duelview.Model
	profile profile.Model
	compose compose.Model
	postOn  bool // a.post is open somewhere in the stack
	duelOn  bool
	keys    common.KeyMap
	status  string
	isErr   bool
	width   int
	height  int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	a := App{
		deps:  deps,
		login: login.New(deps.Auth),
		feed:  feed.New(deps.Search, deps.SearchLimit, deps.UIState.LastQuery, domain.SortOrder(deps.UIState.Sort)),
		keys:  common.DefaultKeyMap(),
	}
	if deps.Session != nil && deps.Session.LoggedIn() {
		a.active = feedView
	}
	return a
}

// Init starts the login form, or the feed when a saved session exists.
func (a App) Init() tea.Cmd {
	if a.active == loginView {
		return a.login.Init()
	}
	return tea.Batch(a.feed.Init(), a.fetchViewer())
}

func (a App) fetchViewer() tea.Cmd {
	account := a.deps.Account
	return func() tea.Msg {
		p, err := account.CurrentProfile(context.Background())
		return viewerMsg{username: p.Username, err: err}
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.feed, _ = a.feed.Update(msg)
		a.post, _ = a.post.Update(msg)
		a.duel, _ = a.duel.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.active == feedView && !a.feed.Searching() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.NewEditor), key.Matches(msg, a.keys.NewInline):
				return a.openCompose(common.ComposeMsg{
					Target:  common.ComposePost,
					Heading: "New post",
					Inline:  key.Matches(msg, a.keys.NewInline),
				})
			case key.Matches(msg, a.keys.MyProfile):
				return a.openProfile("")
			case key.Matches(msg, a.keys.Logout):
				return a.logout("Logged out.")
			}
		}

	// --- Session ---

	case common.LoggedInMsg:
		if err := a.deps.Session.Login(msg.Username, msg.Token); err != nil {
			a.setStatus("Login failed: "+err.Error(), true)
			return a, nil
		}
		a.active = feedView
		a.stack = nil
		a.setStatus("Welcome, "+msg.Username+".", false)
		return a, tea.Batch(a.feed.Init(), a.fetchViewer())

	case viewerMsg:
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrUnauthorized) {
				return a.logout("Session expired. Please log in again.")
			}
			log.Warn().Err(msg.err).Msg("fetching viewer profile")
			return a, nil
		}
		a.deps.Session.SetUsername(msg.username)
		return a, nil

	case common.StatusMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrUnauthorized) {
				return a.logout("Session expired. Please log in again.")
			}
			log.Warn().Err(msg.Err).Msg(msg.Text)
			a.setStatus(msg.Text+": "+msg.Err.Error(), true)
			return a, nil
		}
		a.setStatus(msg.Text, false)
		return a, nil

	// --- Navigation ---

	case common.OpenPostMsg:
		if a.postOn {
			a.post = a.post.Stop()
		}
		a.post = post.New(a.deps.Posts, a.deps.Account, msg.ID, a.deps.Clock)
		a.post, _ = a.post.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.postOn = true
		a.push(postView)
		return a, a.post.Init()

	case common.OpenDuelMsg:
		a.duel = duelview.New(a.deps.Posts, a.deps.Duels, a.deps.Account, msg.ID)
		a.duel, _ = a.duel.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.duelOn = true
		a.push(duelView)
		return a, a.duel.Init()

	case common.OpenProfileMsg:
		return a.openProfile(msg.Username)

	case common.BackMsg:
		a.pop()
		return a, nil

	case common.ComposeMsg:
		return a.openCompose(msg)

	case compose.DoneMsg:
		a.pop()
		return a.composed(msg)

	case postCreatedMsg:
		if msg.err != nil {
			return a, common.Fail("Publishing failed", msg.err)
		}
		a.setStatus("Post published.", false)
		var refresh tea.Cmd
		a.feed, refresh = a.feed.Refresh()
		next, open := a.Update(common.OpenPostMsg{ID: msg.post.ID})
		return next, tea.Batch(refresh, open)

	case feed.PrefsChangedMsg:
		a.savePrefs(msg)
		return a, nil

	// --- Async results, routed by type so background views keep their state ---

	case feed.ResultsLoadedMsg, feed.ResultsErrorMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case post.LoadedMsg:
		return a.toPost(msg.Post.ID, msg)
	case post.ErrorMsg:
		return a.toPost(msg.PostID, msg)
	case post.TickMsg:
		if !a.postOn {
			return a, nil
		}
		var cmd tea.Cmd
		a.post, cmd = a.post.Update(msg)
		return a, cmd
	case post.ActionResultMsg:
		if !a.postOn || msg.PostID != a.post.ID() {
			return a, orphanResult(msg.What, msg.Err)
		}
		return a.toPost(msg.PostID, msg)

	case duelview.LoadedMsg:
		return a.toDuel(msg.Post.ID, msg)
	case duelview.ErrorMsg:
		return a.toDuel(msg.PostID, msg)
	case duelview.ActionResultMsg:
		if !a.duelOn || msg.PostID != a.duel.ID() {
			return a, orphanResult(msg.What, msg.Err)
		}
		return a.toDuel(msg.PostID, msg)
	}

	return a.delegate(msg)
}

// toPost hands msg to the open post view, dropping it when that view is
// closed or now shows another post.
func (a App) toPost(id string, msg tea.Msg) (tea.Model, tea.Cmd) {
	if !a.postOn || id != a.post.ID() {
		return a, nil
	}
	var cmd tea.Cmd
	a.post, cmd = a.post.Update(msg)
	return a, cmd
}

// toDuel is toPost for the duel view.
func (a App) toDuel(id string, msg tea.Msg) (tea.Model, tea.Cmd) {
	if !a.duelOn || id != a.duel.ID() {
		return a, nil
	}
	var cmd tea.Cmd
	a.duel, cmd = a.duel.Update(msg)
	return a, cmd
}

// orphanResult surfaces a failed mutation whose view has been closed.
func orphanResult(what string, err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return common.Fail(what+" failed", err)
}

// delegate hands msg to the active sub-model.
func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case loginView:
		a.login, cmd = a.login.Update(msg)
	case feedView:
		a.feed, cmd = a.feed.Update(msg)
	case postView:
		a.post, cmd = a.post.Update(msg)
	case duelView:
		a.duel, cmd = a.duel.Update(msg)
	case profileView:
		a.profile, cmd = a.profile.Update(msg)
	case composeView:
		a.compose, cmd = a.compose.Update(msg)
	}
	return a, cmd
}

func (a *App) push(v activeView) {
	if a.active != v {
		a.stack = append(a.stack, a.active)
	}
	a.active = v
	a.status = ""
}

// pop returns to the previous view. Leaving the post view stops its
// countdown; the duel view is simply forgotten.
func (a *App) pop() {
	leaving := a.active
	if len(a.stack) == 0 {
		a.active = feedView
	} else {
		a.active = a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]
	}
	if !a.inStack(leaving) && leaving != a.active {
		switch leaving {
		case postView:
			a.post = a.post.Stop()
			a.postOn = false
		case duelView:
			a.duelOn = false
		}
	}
}

func (a App) inStack(v activeView) bool {
	for _, s := range a.stack {
		if s == v {
			return true
		}
	}
	return false
}

func (a App) openProfile(username string) (tea.Model, tea.Cmd) {
	a.profile = profile.New(a.deps.Account, username)
	a.push(profileView)
	return a, a.profile.Init()
}

func (a App) openCompose(req common.ComposeMsg) (tea.Model, tea.Cmd) {
	ed := a.deps.Editor
	if req.Inline {
		ed = nil
	}
	a.compose = compose.New(ed, req)
	a.push(composeView)
	return a, a.compose.Init()
}

// composed acts on a finished compose session.
func (a App) composed(msg compose.DoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return a, common.Fail("Compose failed", msg.Err)
	}
	if msg.Content == "" {
		a.setStatus("Cancelled.", false)
		return a, nil
	}

	var cmd tea.Cmd
	switch msg.Target {
	case common.ComposePost:
		a.setStatus("Publishing...", false)
		posts, body, hours := a.deps.Posts, msg.Content, msg.VotingHours
		return a, func() tea.Msg {
			p, err := posts.Create(context.Background(), body, hours)
			return postCreatedMsg{post: p, err: err}
		}
	case common.ComposeComment:
		if !a.postOn || a.post.ID() != msg.PostID {
			return a, nil
		}
		a.setStatus("Sending comment...", false)
		a.post, cmd = a.post.Update(post.SubmitCommentMsg{Text: msg.Content})
	case common.ComposeDuelComment:
		if !a.duelOn || a.duel.ID() != msg.PostID {
			return a, nil
		}
		a.setStatus("Sending...", false)
		a.duel, cmd = a.duel.Update(duelview.SubmitCommentMsg{Text: msg.Content})
	}
	return a, cmd
}

// logout clears the session and shows the login form.
func (a App) logout(status string) (tea.Model, tea.Cmd) {
	if err := a.deps.Session.Logout(); err != nil {
		log.Error().Err(err).Msg("clearing session")
	}
	if a.postOn {
		a.post = a.post.Stop()
	}
	a.postOn, a.duelOn = false, false
	a.stack = nil
	a.active = loginView
	a.login = login.New(a.deps.Auth)
	a.setStatus(status, false)
	return a, a.login.Init()
}

func (a *App) savePrefs(msg feed.PrefsChangedMsg) {
	if a.deps.StatePath == "" {
		return
	}
	st := config.UIState{LastQuery: msg.Query, Sort: string(msg.Sort)}
	if err := config.SaveUIState(a.deps.StatePath, st); err != nil {
		log.Warn().Err(err).Msg("saving ui state")
	}
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.isErr = isErr
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case loginView:
		s = a.login.View()
	case feedView:
		s = a.feed.View()
	case postView:
		s = a.post.View()
	case duelView:
		s = a.duel.View()
	case profileView:
		s = a.profile.View()
	case composeView:
		s = a.compose.View()
	}

	if a.status != "" {
		style := common.SuccessStyle
		if a.isErr {
			style = common.ErrorStyle
		}
		s += "\n" + common.StatusBarStyle.Render(style.Render(a.status))
	}
	return s
}
