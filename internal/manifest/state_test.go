package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRun verifies that a run record is stamped with a unique ID and a
// UTC completion time.
func TestNewRun(t *testing.T) {
	before := time.Now().UTC()
	run := NewRun("/proj", "/proj/.venv/bin/python", "uv 0.5.1", "chromium", []string{"dev"})
	after := time.Now().UTC()

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "/proj", run.ProjectRoot)
	assert.Equal(t, "/proj/.venv/bin/python", run.Interpreter)
	assert.Equal(t, "uv 0.5.1", run.ToolVersion)
	assert.Equal(t, "chromium", run.Browser)
	assert.Equal(t, []string{"dev"}, run.Extras)

	assert.False(t, run.CompletedAt.Before(before), "completion time should not predate the call")
	assert.False(t, run.CompletedAt.After(after), "completion time should not postdate the call")
	assert.Equal(t, time.UTC, run.CompletedAt.Location(), "timestamps are recorded in UTC")

	other := NewRun("/proj", "/proj/.venv/bin/python", "", "", nil)
	assert.NotEqual(t, run.ID, other.ID, "each run gets its own ID")
}

// TestAppendRunAndLoadState verifies the append/read cycle: runs accumulate
// in order and LastRun reflects the newest one.
func TestAppendRunAndLoadState(t *testing.T) {
	venv := t.TempDir()

	// No state file yet — LoadState reports "no runs" without error.
	state, err := LoadState(venv)
	require.NoError(t, err)
	assert.Nil(t, state)

	first := NewRun("/proj", "/proj/.venv/bin/python", "uv 0.5.1", "chromium", nil)
	require.NoError(t, AppendRun(venv, first))

	second := NewRun("/proj", "/proj/.venv/bin/python", "uv 0.5.2", "firefox", []string{"dev"})
	require.NoError(t, AppendRun(venv, second))

	state, err = LoadState(venv)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Len(t, state.Runs, 2, "runs should accumulate across appends")

	assert.Equal(t, first.ID, state.Runs[0].ID)
	assert.Equal(t, second.ID, state.Runs[1].ID)

	last := state.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, "firefox", last.Browser)
	assert.Equal(t, second.ID, last.ID)
}

// TestSaveState_Header verifies the generated-file header so users opening
// the state file know it is machine-managed.
func TestSaveState_Header(t *testing.T) {
	venv := t.TempDir()
	require.NoError(t, AppendRun(venv, NewRun("/proj", "python", "", "", nil)))

	data, err := os.ReadFile(filepath.Join(venv, StateFileName))
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# Generated by venvctl"),
		"state file should start with the generated-file header")
	assert.Contains(t, content, "runs:")
}

// TestAppendRun_CorruptState verifies that a corrupt existing state file is
// replaced instead of failing the bootstrap run that just succeeded.
func TestAppendRun_CorruptState(t *testing.T) {
	venv := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(venv, StateFileName), []byte("{{not yaml"), 0o600))

	// The corrupt file makes LoadState fail...
	_, err := LoadState(venv)
	require.Error(t, err)

	// ...but AppendRun starts fresh rather than propagating the failure.
	run := NewRun("/proj", "python", "", "chromium", nil)
	require.NoError(t, AppendRun(venv, run))

	state, err := LoadState(venv)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Len(t, state.Runs, 1)
	assert.Equal(t, run.ID, state.Runs[0].ID)
}
