// manager.go wraps the uv CLI (https://docs.astral.sh/uv) for environment
// creation and package installation.
//
// Design decisions:
//   - We shell out to `uv` rather than reimplementing resolver/installer
//     behavior, for the same reason venvctl shells out at all: uv's CLI is
//     its only stable interface, and the user's uv configuration
//     (index URLs, caches, pins) must apply unchanged.
//   - The Manager holds the resolved uv binary path so the PATH lookup
//     happens exactly once, at the explicit missing-tool check.
//   - All uv failures are wrapped in model.CLIError carrying the child
//     process's own exit code, which the CLI layer propagates verbatim.
package pythonenv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// toolName is the required external package-management tool.
const toolName = "uv"

// installHint is printed when the tool is missing, so the failure is
// actionable without consulting documentation.
const installHint = "install it from https://docs.astral.sh/uv/ " +
	"(e.g. curl -LsSf https://astral.sh/uv/install.sh | sh, or pipx install uv)"

// Manager provides virtual-environment operations by invoking the uv CLI.
//
// Construct it with NewManager, which performs the PATH lookup. A Manager
// is only ever created after the tool-presence check succeeds, so its
// methods can assume the binary path is valid.
type Manager struct {
	// uvBin is the resolved absolute path to the uv binary.
	uvBin string
}

// NewManager locates the uv binary on PATH and returns a Manager bound to it.
//
// This is the single explicit error branch of the bootstrap contract: when
// the tool cannot be resolved, the returned CLIError carries ExitToolMissing
// and a remediation hint, and the caller must not have performed any
// filesystem writes yet.
func NewManager() (*Manager, error) {
	path, err := exec.LookPath(toolName)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitToolMissing,
			fmt.Sprintf("required tool %q not found on PATH; %s", toolName, installHint), err)
	}
	return &Manager{uvBin: path}, nil
}

// ToolPath returns the resolved path to the uv binary.
func (m *Manager) ToolPath() string {
	return m.uvBin
}

// ToolVersion returns the uv version string (output of `uv --version`,
// trimmed). Failures are non-fatal for callers that only record the
// version, so this returns the error rather than wrapping it.
func (m *Manager) ToolVersion(ctx context.Context) (string, error) {
	out, err := m.runUV(ctx, "", nil, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CreateVenv creates (or re-creates, per uv's own idempotence behavior) the
// virtual environment at venvDir, relative to projectRoot.
//
// No pre-existence check is performed: repeated runs invoke uv identically
// and inherit whatever reuse/overwrite semantics it implements.
func (m *Manager) CreateVenv(ctx context.Context, projectRoot, venvDir string) error {
	_, err := m.runUV(ctx, projectRoot, nil, "venv", venvDir)
	return err
}

// InstallProject installs the project at projectRoot in editable mode, with
// its declared dependencies, into the environment owned by interpreter.
//
// The target interpreter is passed explicitly via --python rather than
// relying on PATH manipulation, so the install lands in the right
// environment even if activation was skipped or shadowed.
func (m *Manager) InstallProject(ctx context.Context, projectRoot, interpreter string, extras []string, env []string) error {
	args := []string{"pip", "install", "--python", interpreter, "-e", EditableTarget(extras)}
	_, err := m.runUV(ctx, projectRoot, env, args...)
	return err
}

// EditableTarget formats the local-project install target for the given
// optional dependency groups.
//
// Example:
//
//	nil              → "."
//	["dev", "test"]  → ".[dev,test]"
func EditableTarget(extras []string) string {
	if len(extras) == 0 {
		return "."
	}
	return fmt.Sprintf(".[%s]", strings.Join(extras, ","))
}

// runUV executes uv with the given arguments in the specified directory.
//
// It captures both stdout and stderr. On success (exit code 0), it returns
// the stdout output. On failure, it returns a model.CLIError whose code is
// the child process's own exit code, including the stderr output in the
// error message for diagnostics. This is what makes the CLI's fail-fast
// contract propagate external exit codes verbatim.
func (m *Manager) runUV(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, m.uvBin, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if env != nil {
		cmd.Env = env
	}

	// Capture stdout and stderr separately so we can include stderr
	// in error messages while returning stdout on success.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("uv %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(exitCodeFromError(err), message, err)
	}

	return stdout.String(), nil
}

// exitCodeFromError extracts the child process exit code from an exec
// error. Errors that carry no exit status (e.g., the context was cancelled
// before the process started) map to ExitGeneralError.
func exitCodeFromError(err error) model.ExitCode {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return model.ExitCode(exitErr.ExitCode())
	}
	return model.ExitGeneralError
}
