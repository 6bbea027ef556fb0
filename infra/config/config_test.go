package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DUELTERM_AUTH_DIR", dir)
	for _, k := range []string{"DUELTERM_API", "DUELTERM_CONFIG", "DUELTERM_RETRIES", "DUELTERM_RETRY_DELAY", "DUELTERM_SEARCH_LIMIT", "DUELTERM_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "http://localhost:5000" {
		t.Fatalf("unexpected default api: %q", cfg.APIURL)
	}
	if cfg.TokenPath != filepath.Join(dir, "token") || cfg.UIStatePath != filepath.Join(dir, "ui_state.json") {
		t.Fatalf("unexpected paths: %#v", cfg)
	}
	if cfg.Retries != 1 || cfg.RetryDelay != 500*time.Millisecond || cfg.SearchLimit != 20 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoad_ParsesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DUELTERM_API", "https://duels.example.com/")
	t.Setenv("DUELTERM_RETRIES", "3")
	t.Setenv("DUELTERM_RETRY_DELAY", "2s")
	t.Setenv("DUELTERM_SEARCH_LIMIT", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://duels.example.com" {
		t.Fatalf("api must be normalized: %q", cfg.APIURL)
	}
	if cfg.Retries != 3 || cfg.RetryDelay != 2*time.Second {
		t.Fatalf("unexpected retry config: %#v", cfg)
	}
	if cfg.SearchLimit != 100 {
		t.Fatalf("search limit must be capped at 100, got %d", cfg.SearchLimit)
	}
}

func TestLoad_YAMLBelowEnv(t *testing.T) {
	dir := isolate(t)
	yml := "api: https://yaml.example.com\nretries: 0\nsearch_limit: 7\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatalf("write yaml failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://yaml.example.com" || cfg.Retries != 0 || cfg.SearchLimit != 7 || cfg.LogLevel != "debug" {
		t.Fatalf("yaml values not applied: %#v", cfg)
	}

	t.Setenv("DUELTERM_API", "https://env.example.com")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://env.example.com" {
		t.Fatalf("env must win over yaml: %q", cfg.APIURL)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("DUELTERM_API")
	t.Cleanup(func() { os.Unsetenv("DUELTERM_API") })
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DUELTERM_API=https://dotenv.example.com\n"), 0o600); err != nil {
		t.Fatalf("write .env failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.APIURL != "https://dotenv.example.com" {
		t.Fatalf(".env not applied: %q", cfg.APIURL)
	}
}

func TestLoad_RejectsInsecureRemote(t *testing.T) {
	tests := []struct {
		api     string
		wantErr bool
	}{
		{api: "http://insecure.example.com", wantErr: true},
		{api: "ftp://example.com", wantErr: true},
		{api: "not a url", wantErr: true},
		{api: "http://127.0.0.1:5000", wantErr: false},
		{api: "http://localhost:8080/", wantErr: false},
	}
	for _, tc := range tests {
		t.Run(tc.api, func(t *testing.T) {
			isolate(t)
			t.Setenv("DUELTERM_API", tc.api)
			_, err := Load()
			if (err != nil) != tc.wantErr {
				t.Fatalf("err mismatch got=%v wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_RejectsBadNumbers(t *testing.T) {
	for k, v := range map[string]string{
		"DUELTERM_RETRIES":      "many",
		"DUELTERM_RETRY_DELAY":  "soon",
		"DUELTERM_SEARCH_LIMIT": "-1",
	} {
		t.Run(k, func(t *testing.T) {
			isolate(t)
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{LastQuery: "ai", Sort: "asc"}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}
