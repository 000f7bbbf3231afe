// config.go locates the project root and parses the optional
// bootstrap.jsonc configuration file.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// manifestNames are the files whose presence identifies a Python project
// root. Checked in order; pyproject.toml is the modern standard, setup.py
// the legacy one.
var manifestNames = []string{"pyproject.toml", "setup.py"}

// ConfigFileName is the optional per-project bootstrap configuration file,
// expected at the project root.
const ConfigFileName = "bootstrap.jsonc"

// BootstrapConfig holds the project-level bootstrap settings parsed from
// bootstrap.jsonc. Every field is optional; zero values mean "use the
// built-in default". Flags override file values (see the cli package).
//
// Unknown fields are silently ignored, so projects can carry settings for
// newer venvctl versions without breaking older ones.
type BootstrapConfig struct {
	// VenvDir is the environment directory, relative to the project root.
	// Default: ".venv".
	VenvDir string `json:"venvDir,omitempty"`

	// Extras lists optional dependency groups to include in the editable
	// install (e.g., ["dev"] → `-e .[dev]`).
	Extras []string `json:"extras,omitempty"`

	// Browser is the browser engine to install. Default: "chromium".
	Browser string `json:"browser,omitempty"`

	// SkipBrowser disables the browser installation step entirely.
	SkipBrowser bool `json:"skipBrowser,omitempty"`

	// VerifyURL is the page the verify command navigates to.
	// Default: "about:blank".
	VerifyURL string `json:"verifyUrl,omitempty"`
}

// FindProjectRoot walks upward from startDir to the nearest directory
// containing a Python project manifest and returns its absolute path.
//
// The walk stops at the filesystem root. Returns a CLIError with
// ExitManifestNotFound when no manifest is found, since without one there
// is nothing for the editable install to target.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to resolve start directory", err)
	}

	for {
		for _, name := range manifestNames {
			candidate := filepath.Join(dir, name)
			if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the filesystem root without finding a manifest.
			return "", model.NewCLIError(model.ExitManifestNotFound,
				fmt.Sprintf("no Python project manifest (%s) found in %s or any parent directory",
					joinNames(manifestNames), startDir))
		}
		dir = parent
	}
}

// HasManifest reports whether dir directly contains a Python project
// manifest. Used when --project is given explicitly: the flag names the
// root, so no upward walk is performed, but the manifest must still exist.
func HasManifest(dir string) bool {
	for _, name := range manifestNames {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// LoadConfig reads the bootstrap.jsonc file from the project root, strips
// JSONC comments, and parses it into a BootstrapConfig.
//
// A missing file is not an error — the zero-value config is returned and
// defaults apply. A present-but-unparseable file IS an error (with
// ExitManifestNotFound), because silently ignoring a broken config would
// bootstrap the wrong environment.
func LoadConfig(projectRoot string) (*BootstrapConfig, error) {
	path := filepath.Join(projectRoot, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &BootstrapConfig{}, nil
		}
		return nil, model.WrapCLIError(model.ExitManifestNotFound,
			fmt.Sprintf("failed to read %s", ConfigFileName), err)
	}

	// jsonc.ToJSON strips comments and trailing commas, producing valid
	// JSON for the standard library parser.
	cfg := &BootstrapConfig{}
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitManifestNotFound,
			fmt.Sprintf("invalid %s", ConfigFileName), err)
	}

	if cfg.Browser != "" {
		if err := model.ValidateBrowser(cfg.Browser); err != nil {
			return nil, model.WrapCLIError(model.ExitManifestNotFound,
				fmt.Sprintf("invalid %s", ConfigFileName), err)
		}
	}

	return cfg, nil
}

// joinNames formats the manifest candidate list for error messages.
func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " or "
		}
		out += n
	}
	return out
}
