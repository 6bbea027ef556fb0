package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL      = "http://localhost:5000"
	defaultRetries     = 1
	defaultRetryDelay  = 500 * time.Millisecond
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Config holds application-level configuration.
type Config struct {
	APIURL      string        // e.g. "https://duels.example.com"
	AuthDir     string        // Directory for token, UI state and log
	TokenPath   string        // Path to file containing the access token
	UIStatePath string        // Path to persisted UI preferences
	LogPath     string        // Path to the log file used while the TUI runs
	LogLevel    string        // zerolog level name
	Retries     int           // Extra attempts for transient failures
	RetryDelay  time.Duration // Fixed delay between attempts
	SearchLimit int           // Page size for /search
}

// fileConfig mirrors the optional YAML config file. Zero values mean unset.
type fileConfig struct {
	API         string `yaml:"api"`
	AuthDir     string `yaml:"auth_dir"`
	LogLevel    string `yaml:"log_level"`
	Retries     *int   `yaml:"retries"`
	RetryDelay  string `yaml:"retry_delay"`
	SearchLimit int    `yaml:"search_limit"`
}

// Load reads configuration from .env, an optional YAML file and environment
// variables, in increasing order of precedence.
//
//	DUELTERM_API           API base URL (default: http://localhost:5000)
//	DUELTERM_AUTH_DIR      Token/state directory (default: ~/.config/duelterm)
//	DUELTERM_CONFIG        YAML file (default: <auth dir>/config.yaml)
//	DUELTERM_RETRIES       Extra attempts for transient failures (default: 1)
//	DUELTERM_RETRY_DELAY   Delay between attempts (default: 500ms)
//	DUELTERM_SEARCH_LIMIT  Search page size, max 100 (default: 20)
//	DUELTERM_LOG_LEVEL     Log level (default: info)
func Load() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	authDir := os.Getenv("DUELTERM_AUTH_DIR")
	if authDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		authDir = filepath.Join(home, ".config", "duelterm")
	}

	cfgPath := os.Getenv("DUELTERM_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(authDir, "config.yaml")
	}
	fc, err := loadFile(cfgPath)
	if err != nil {
		return Config{}, err
	}
	if fc.AuthDir != "" && os.Getenv("DUELTERM_AUTH_DIR") == "" {
		authDir = fc.AuthDir
	}

	cfg := Config{
		APIURL:      firstNonEmpty(os.Getenv("DUELTERM_API"), fc.API, defaultAPIURL),
		AuthDir:     authDir,
		TokenPath:   filepath.Join(authDir, "token"),
		UIStatePath: filepath.Join(authDir, "ui_state.json"),
		LogPath:     filepath.Join(authDir, "duelterm.log"),
		LogLevel:    firstNonEmpty(os.Getenv("DUELTERM_LOG_LEVEL"), fc.LogLevel, "info"),
		Retries:     defaultRetries,
		RetryDelay:  defaultRetryDelay,
		SearchLimit: defaultSearchLimit,
	}

	cfg.APIURL, err = normalizeAPIURL(cfg.APIURL)
	if err != nil {
		return Config{}, err
	}

	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if v := os.Getenv("DUELTERM_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DUELTERM_RETRIES: %w", err)
		}
		cfg.Retries = n
	}
	if cfg.Retries < 0 {
		return Config{}, errors.New("invalid retries: must not be negative")
	}

	if delay := firstNonEmpty(os.Getenv("DUELTERM_RETRY_DELAY"), fc.RetryDelay); delay != "" {
		d, err := time.ParseDuration(delay)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid retry delay %q", delay)
		}
		cfg.RetryDelay = d
	}

	if fc.SearchLimit > 0 {
		cfg.SearchLimit = fc.SearchLimit
	}
	if v := os.Getenv("DUELTERM_SEARCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid DUELTERM_SEARCH_LIMIT: %q", v)
		}
		cfg.SearchLimit = n
	}
	cfg.SearchLimit = min(cfg.SearchLimit, maxSearchLimit)

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return fc, nil
}

// normalizeAPIURL requires an absolute URL. Plain http is only allowed for
// loopback hosts so tokens are never sent in the clear over a network.
func normalizeAPIURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid DUELTERM_API: must be an absolute URL")
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid DUELTERM_API: http is only allowed for localhost")
		}
	default:
		return "", fmt.Errorf("invalid DUELTERM_API: unsupported scheme %q", parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
