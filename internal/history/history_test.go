package history

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDir(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	configDirOverride = tmp
	t.Cleanup(func() { configDirOverride = "" })
}

func TestSaveAndLoad(t *testing.T) {
	setupTestDir(t)

	h := &History{}
	now := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	h.Add("set age 12", now)
	h.Add("get age", now.Add(time.Second))
	require.NoError(t, Save(h))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"set age 12", "get age"}, loaded.Lines())
	assert.True(t, now.Equal(loaded.Entries[0].At))
}

func TestLoad_MissingFile(t *testing.T) {
	setupTestDir(t)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}

func TestLoad_CorruptFile(t *testing.T) {
	setupTestDir(t)

	require.NoError(t, os.WriteFile(filepath.Join(configDirOverride, historyFileName), []byte("not json"), 0o644))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries, "corrupt file should load as empty")
}

func TestAdd_SkipsBlankAndRepeats(t *testing.T) {
	h := &History{}
	now := time.Now()

	assert.True(t, h.Add("keys", now))
	assert.False(t, h.Add("  keys ", now))
	assert.False(t, h.Add("   ", now))
	assert.True(t, h.Add("get age", now))
	assert.True(t, h.Add("keys", now))

	assert.Equal(t, []string{"keys", "get age", "keys"}, h.Lines())
}

func TestAdd_Caps(t *testing.T) {
	h := &History{}
	now := time.Now()
	for i := 0; i < MaxEntries+20; i++ {
		h.Add("get k"+strconv.Itoa(i), now)
	}

	assert.Len(t, h.Entries, MaxEntries)
	assert.Equal(t, "get k20", h.Entries[0].Line)
	assert.Equal(t, "get k"+strconv.Itoa(MaxEntries+19), h.Entries[MaxEntries-1].Line)
}

func TestClear(t *testing.T) {
	setupTestDir(t)

	h := &History{}
	h.Add("keys", time.Now())
	require.NoError(t, Save(h))

	require.NoError(t, Clear())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries, "after Clear, Load should return an empty history")
}

func TestClear_NoFile(t *testing.T) {
	setupTestDir(t)

	assert.NoError(t, Clear(), "Clear on missing file should not error")
}
