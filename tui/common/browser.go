package common

import (
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func opener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	default:
		return "xdg-open"
	}
}

// SafeURLs trims, filters and de-duplicates http(s) URLs.
func SafeURLs(urls []string) []string {
	clean := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || !IsSafeExternalURL(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		clean = append(clean, u)
	}
	return clean
}

// OpenURLs opens every safe URL in the system browser.
func OpenURLs(urls []string) tea.Cmd {
	clean := SafeURLs(urls)
	if len(clean) == 0 {
		return nil
	}
	bin := opener()
	return func() tea.Msg {
		for _, u := range clean {
			_ = exec.Command(bin, u).Start()
		}
		return nil
	}
}
