// state.go reads and writes the bootstrap state file.
//
// The state file lives at <venv>/bootstrap-state.yaml and is the only
// artifact venvctl adds to the environment directory. It is written only
// after a run has fully succeeded, so its presence doubles as the
// "environment is complete" marker that status and verify rely on.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// StateFileName is the bootstrap record inside the venv directory.
const StateFileName = "bootstrap-state.yaml"

// stateVersion is the current state file schema version.
const stateVersion = 1

// stateHeader is prepended to the generated YAML so users opening the file
// know where it came from and that it is machine-managed.
const stateHeader = "# Generated by venvctl — records completed bootstrap runs.\n" +
	"# Do not edit; delete the virtual environment to reset.\n"

// NewRun constructs a BootstrapRun record for a run that just completed,
// stamped with a fresh UUID and the current UTC time.
func NewRun(projectRoot, interpreter, toolVersion, browser string, extras []string) model.BootstrapRun {
	return model.BootstrapRun{
		ID:          uuid.NewString(),
		CompletedAt: time.Now().UTC(),
		ProjectRoot: projectRoot,
		Interpreter: interpreter,
		ToolVersion: toolVersion,
		Extras:      extras,
		Browser:     browser,
	}
}

// LoadState reads the bootstrap state file from the venv directory.
//
// A missing file returns (nil, nil): the environment simply has no recorded
// runs yet. A present-but-unparseable file is an error — the caller decides
// whether that is fatal (status treats it as "incomplete").
func LoadState(venvDir string) (*model.BootstrapState, error) {
	path := filepath.Join(venvDir, StateFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", StateFileName, err)
	}

	state := &model.BootstrapState{}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", StateFileName, err)
	}
	return state, nil
}

// AppendRun loads the existing state (if any), appends the run, and writes
// the file back. An unreadable existing state file is replaced rather than
// failing the run — the bootstrap itself succeeded, and a corrupt record
// must not mask that.
func AppendRun(venvDir string, run model.BootstrapRun) error {
	state, err := LoadState(venvDir)
	if err != nil || state == nil {
		state = &model.BootstrapState{}
	}
	state.Version = stateVersion
	state.Runs = append(state.Runs, run)
	return SaveState(venvDir, state)
}

// SaveState serializes the state to YAML (with the generated-file header)
// and writes it into the venv directory.
func SaveState(venvDir string, state *model.BootstrapState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", StateFileName, err)
	}

	path := filepath.Join(venvDir, StateFileName)
	content := append([]byte(stateHeader), data...)

	// 0600: the file records local paths only, but there is no reason for
	// it to be world-readable either.
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", StateFileName, err)
	}
	return nil
}
