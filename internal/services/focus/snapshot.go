// Package focus reads the browser focus bridge file and watches it for changes.
//
// A bridge (browser extension native host or script) keeps a small JSON file up
// to date with the OS window focus and the active tab of the focused window:
//
//	{"windowFocused": true, "activeTab": {"url": "https://claude.ai/", "windowId": 3},
//	 "event": "tab_activated", "updatedAt": "2026-03-01T09:00:00Z"}
package focus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Tab is the active tab of the focused window.
type Tab struct {
	URL      string `json:"url"`
	WindowID int    `json:"windowId,omitempty"`
}

// Snapshot is the bridge file content.
type Snapshot struct {
	WindowFocused bool      `json:"windowFocused"`
	ActiveTab     *Tab      `json:"activeTab,omitempty"`
	Event         string    `json:"event,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero"`
}

// FocusedURL returns the active tab URL, or "" when no window is focused or
// the focused window has no active tab.
func (s Snapshot) FocusedURL() string {
	if !s.WindowFocused || s.ActiveTab == nil {
		return ""
	}
	return s.ActiveTab.URL
}

// ReadSnapshot loads the bridge file. A missing file yields an unfocused snapshot.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read focus file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse focus file: %w", err)
	}
	return snap, nil
}

// WriteSnapshot atomically replaces the bridge file.
func WriteSnapshot(path string, snap Snapshot) error {
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal focus snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create focus directory: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
