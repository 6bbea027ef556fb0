package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/CrestNiraj12/duelterm/infra/api"
	"github.com/CrestNiraj12/duelterm/infra/auth"
	"github.com/CrestNiraj12/duelterm/infra/config"
	"github.com/CrestNiraj12/duelterm/infra/editor"
	"github.com/CrestNiraj12/duelterm/infra/logging"
	"github.com/CrestNiraj12/duelterm/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliWatch
	cliLogout
	cliInvalid
)

// parseCLIArgs returns the mode and, for cliWatch, the post id. For
// cliInvalid the string is the error message.
func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	case "logout":
		return cliLogout, ""
	case "watch":
		if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
			return cliInvalid, "watch needs exactly one post id"
		}
		return cliWatch, strings.TrimSpace(args[1])
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: duelterm [--version|-version|-v] [--help|-h] [watch <post-id>] [logout]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	mode, arg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("duelterm %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", arg, usage())
		os.Exit(2)
	}

	// 1. Load config from .env, config file and environment.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logging. The TUI owns the terminal, so it logs to a file.
	if mode == cliRun {
		closer, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()
	} else {
		logging.Console(cfg.LogLevel)
	}

	// 3. Build infrastructure.
	session := auth.NewSession(auth.NewFileStore(cfg.TokenPath))
	if mode == cliLogout {
		if err := session.Logout(); err != nil {
			fmt.Fprintf(os.Stderr, "logout: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Logged out.")
		return
	}
	httpClient := api.NewClient(cfg.APIURL, session, api.WithRetry(cfg.Retries, cfg.RetryDelay))

	// 4. Build services (concrete types satisfy app.* interfaces).
	postSvc := api.NewPostService(httpClient)

	if mode == cliWatch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch(ctx, postSvc, arg, clockwork.NewRealClock(), os.Stdout); err != nil {
			log.Error().Err(err).Str("post_id", arg).Msg("watch failed")
			stop()
			os.Exit(1)
		}
		return
	}

	uiState, err := config.LoadUIState(cfg.UIStatePath)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring ui state")
	}

	// 5. Wire root TUI model.
	rootModel := tui.NewApp(tui.Deps{
		Session:     session,
		Auth:        api.NewAuthService(httpClient),
		Posts:       postSvc,
		Duels:       api.NewDuelService(httpClient),
		Account:     api.NewAccountService(httpClient),
		Search:      api.NewSearchService(httpClient),
		Editor:      editor.NewEnvEditor(),
		SearchLimit: cfg.SearchLimit,
		StatePath:   cfg.UIStatePath,
		UIState:     uiState,
	})

	// 6. Run.
	log.Info().Str("api", cfg.APIURL).Str("version", version).Msg("starting")
	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "duelterm: %v\n", err)
		os.Exit(1)
	}
}
