// installer.go runs the Playwright browser installer through the virtual
// environment's interpreter.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// Installer invokes the Playwright CLI installer for a single named browser
// engine, using an explicit interpreter path.
type Installer struct {
	// interpreter is the absolute path to the venv's Python interpreter.
	interpreter string
}

// NewInstaller creates an Installer bound to the given interpreter.
func NewInstaller(interpreter string) *Installer {
	return &Installer{interpreter: interpreter}
}

// InstallArgs returns the interpreter arguments for installing the given
// engine. Exported for testing purposes (tested in installer_test.go).
//
// Example:
//
//	InstallArgs("chromium") → ["-m", "playwright", "install", "chromium"]
func InstallArgs(engine string) []string {
	return []string{"-m", "playwright", "install", engine}
}

// Install downloads the named browser engine into Playwright's managed
// cache. The subprocess runs with the activated environment (env) and its
// output streams directly to the terminal, since engine downloads are
// large and the progress output is the only sign of life.
//
// On failure, the returned CLIError carries the installer's own exit code,
// preserving the fail-fast propagation contract.
func (i *Installer) Install(ctx context.Context, projectRoot, engine string, env []string) error {
	if err := model.ValidateBrowser(engine); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid browser engine", err)
	}

	// #nosec G204 — interpreter path and engine name are validated internally
	cmd := exec.CommandContext(ctx, i.interpreter, InstallArgs(engine)...)
	cmd.Dir = projectRoot
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		code := model.ExitGeneralError
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			code = model.ExitCode(exitErr.ExitCode())
		}
		return model.WrapCLIError(code,
			fmt.Sprintf("playwright install %s failed", engine), err)
	}
	return nil
}
