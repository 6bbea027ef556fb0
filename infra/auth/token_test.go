package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_LoadSaveClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	st := NewFileStore(path)

	if _, err := st.Load(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken for missing file, got %v", err)
	}
	if err := st.Save("  abc123 \n"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token file must be 0600, got %v", info.Mode().Perm())
	}
	got, err := st.Load()
	if err != nil || got != "abc123" {
		t.Fatalf("unexpected load: %q %v", got, err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("clearing twice must not fail: %v", err)
	}
}

func TestFileStore_EmptyFileIsNoToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(" \n\t"), 0o600); err != nil {
		t.Fatalf("write empty token failed: %v", err)
	}
	if _, err := NewFileStore(path).Load(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}
