package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkootstra/kvwire/internal/history"
)

func seedHistory(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	h := &history.History{}
	for _, l := range lines {
		h.Add(l, time.Now())
	}
	require.NoError(t, history.Save(h))
	path := filepath.Join(dir, "kvwire", "history.json")
	require.FileExists(t, path)
	return path
}

func TestLoadHistory(t *testing.T) {
	seedHistory(t, "set age 12", "get age")

	h := loadHistory(false, false, zerolog.Nop())
	assert.Equal(t, []string{"set age 12", "get age"}, h.Lines())
}

func TestLoadHistory_Clear(t *testing.T) {
	path := seedHistory(t, "set age 12")

	h := loadHistory(true, false, zerolog.Nop())
	assert.Empty(t, h.Lines())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadHistory_Disabled(t *testing.T) {
	path := seedHistory(t, "set age 12")

	h := loadHistory(false, true, zerolog.Nop())
	assert.Empty(t, h.Lines())
	assert.FileExists(t, path)

	h = loadHistory(true, true, zerolog.Nop())
	assert.Empty(t, h.Lines())
	assert.NoFileExists(t, path)
}
