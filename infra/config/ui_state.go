package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// UIState holds preferences remembered between runs.
type UIState struct {
	LastQuery string `json:"last_query,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

// LoadUIState reads UI state. A missing file yields an empty state.
func LoadUIState(path string) (UIState, error) {
	var st UIState
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("reading ui state: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return UIState{}, fmt.Errorf("parsing ui state: %w", err)
	}
	return st, nil
}

// SaveUIState writes UI state with owner-only permissions.
func SaveUIState(path string, st UIState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("serializing ui state: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
