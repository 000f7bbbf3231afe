package pythonenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// TestNewManager_ToolMissing verifies the explicit missing-tool branch:
// when uv cannot be resolved on PATH, the error carries the fixed exit
// code 1, names the tool, and includes an installation hint — and no
// Manager is returned, so no later step can run.
func TestNewManager_ToolMissing(t *testing.T) {
	// Point PATH at an empty directory so LookPath cannot find uv,
	// regardless of what is installed on the test host.
	t.Setenv("PATH", t.TempDir())

	mgr, err := NewManager()
	require.Error(t, err)
	assert.Nil(t, mgr)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitToolMissing, cliErr.Code)
	assert.Contains(t, cliErr.Message, `"uv"`, "message should name the missing tool")
	assert.Contains(t, cliErr.Message, "astral.sh", "message should include an installation hint")
}

// TestEditableTarget verifies the editable install target formatting for
// optional dependency groups.
func TestEditableTarget(t *testing.T) {
	tests := []struct {
		name   string
		extras []string
		want   string
	}{
		{
			name:   "no extras",
			extras: nil,
			want:   ".",
		},
		{
			name:   "empty slice",
			extras: []string{},
			want:   ".",
		},
		{
			name:   "single group",
			extras: []string{"dev"},
			want:   ".[dev]",
		},
		{
			name:   "multiple groups",
			extras: []string{"dev", "test"},
			want:   ".[dev,test]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EditableTarget(tt.extras))
		})
	}
}
