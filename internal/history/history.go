package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	historyFileName = "history.json"
	MaxEntries      = 500
)

// configDirOverride is set during tests to avoid polluting the real config.
var configDirOverride string

// Entry is one command line typed into the shell.
type Entry struct {
	Line string    `json:"line"`
	At   time.Time `json:"at"`
}

// History is the on-disk shell history, oldest entry first.
type History struct {
	Entries []Entry `json:"entries"`
}

// configDir returns the kvwire config directory, creating it if necessary when create is true.
func configDir(create bool) (string, error) {
	var dir string
	if configDirOverride != "" {
		dir = configDirOverride
	} else {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "kvwire")
	}
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func historyPath(create bool) (string, error) {
	dir, err := configDir(create)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyFileName), nil
}

// Add appends a line, skipping blanks and immediate repeats, and drops the
// oldest entries beyond MaxEntries. It reports whether the line was kept.
func (h *History) Add(line string, at time.Time) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if n := len(h.Entries); n > 0 && h.Entries[n-1].Line == line {
		return false
	}
	h.Entries = append(h.Entries, Entry{Line: line, At: at})
	if len(h.Entries) > MaxEntries {
		h.Entries = append([]Entry(nil), h.Entries[len(h.Entries)-MaxEntries:]...)
	}
	return true
}

// Lines returns the recorded lines, oldest first.
func (h *History) Lines() []string {
	lines := make([]string, len(h.Entries))
	for i, e := range h.Entries {
		lines[i] = e.Line
	}
	return lines
}

// Save writes the history to disk.
func Save(h *History) error {
	path, err := historyPath(true)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load reads the history from disk. A missing or corrupt file yields an
// empty history.
func Load() (*History, error) {
	path, err := historyPath(false)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		return nil, err
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return &History{}, nil
	}
	if len(h.Entries) > MaxEntries {
		h.Entries = h.Entries[len(h.Entries)-MaxEntries:]
	}
	return &h, nil
}

// Clear removes the history file.
func Clear() error {
	path, err := historyPath(false)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
