// Package cli — setup.go implements the "venvctl setup" command.
//
// The setup command is the primary user-facing operation: it provisions
// the project's isolated Python environment end to end.
//
// Orchestration steps:
//  1. Resolve the project root (so relative paths work from any directory)
//  2. Load bootstrap.jsonc and merge flags over it
//  3. Verify uv is present on PATH (the only explicit error branch)
//  4. Create the virtual environment
//  5. Resolve the platform path set and build the activation environment
//  6. Install the project editable with its dependencies
//  7. Install the browser engine via the environment's own interpreter
//  8. Record the run in the state file and print the activation reminder
//
// Every step after the tool check is fail-fast: the first failing external
// command aborts the run and its exit code becomes the process exit code.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/browser"
	"github.com/mmr-tortoise/venvctl/internal/manifest"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/pythonenv"
)

// defaultVenvDir is the environment directory relative to the project root.
const defaultVenvDir = ".venv"

// defaultBrowser is the engine installed when neither flag nor config says
// otherwise.
const defaultBrowser = "chromium"

// setupFlags holds the flag values for the setup command.
// These are bound to cobra flags in NewSetupCommand.
type setupFlags struct {
	project   string   // --project: project root (default: walk up from cwd)
	venvDir   string   // --venv-dir: environment directory relative to the root
	browserL  string   // --browser: engine to install
	noBrowser bool     // --no-browser: skip the browser installation step
	extras    []string // --extras: optional dependency groups for the install
}

// setupSettings is the merged, effective configuration for a setup run:
// flags take precedence over bootstrap.jsonc, which takes precedence over
// built-in defaults.
type setupSettings struct {
	venvDir     string
	browser     string
	skipBrowser bool
	extras      []string
}

// NewSetupCommand creates the "setup" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the virtual environment and install everything",
		Long: `Create the project's virtual environment, install the project in editable
mode with its dependencies, and fetch the browser engine binary.

The command automatically:
  - Locates the project root by its Python manifest (pyproject.toml/setup.py)
  - Verifies the uv package manager is installed
  - Creates .venv (reusing it on re-runs, per uv's own behavior)
  - Runs the editable install and the Playwright browser installer through
    the environment's own interpreter

Examples:
  venvctl setup
  venvctl setup --extras dev
  venvctl setup --browser firefox
  venvctl setup --no-browser --project ~/src/scraper`,

		// No positional arguments: the whole contract is flag-driven.
		Args: cobra.NoArgs,

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVar(&flags.project, "project", "", "Project root directory (default: nearest manifest above cwd)")
	cmd.Flags().StringVar(&flags.venvDir, "venv-dir", "", "Virtual environment directory relative to the project root (default: .venv)")
	cmd.Flags().StringVar(&flags.browserL, "browser", "", "Browser engine to install: chromium, firefox, webkit, chrome, msedge (default: chromium)")
	cmd.Flags().BoolVar(&flags.noBrowser, "no-browser", false, "Skip the browser installation step")
	cmd.Flags().StringSliceVar(&flags.extras, "extras", nil, "Optional dependency groups for the editable install (e.g. dev)")

	return cmd
}

// runSetup is the main orchestration function for the setup command.
// It coordinates all the steps needed to bootstrap the environment.
func runSetup(ctx context.Context, flags *setupFlags) error {
	// Step 1: Resolve the project root. All relative paths (venv dir,
	// editable install target) resolve against it, so the command works
	// regardless of the caller's current directory.
	projectRoot, err := resolveProjectRoot(flags.project)
	if err != nil {
		return err
	}
	VerboseLog("Project root: %s", projectRoot)

	// Step 2: Load the optional bootstrap.jsonc and merge flag overrides.
	cfg, err := manifest.LoadConfig(projectRoot)
	if err != nil {
		return err
	}
	settings, err := mergeSettings(flags, cfg)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid setup options", err)
	}
	venvDir := filepath.Join(projectRoot, settings.venvDir)
	VerboseLog("Environment directory: %s", venvDir)

	// Step 3: Verify the package-management tool is present. This is the
	// only explicit error branch; it must run before any filesystem write.
	mgr, err := pythonenv.NewManager()
	if err != nil {
		return err
	}
	toolVersion, versionErr := mgr.ToolVersion(ctx)
	if versionErr == nil {
		VerboseLog("Found %s at %s", toolVersion, mgr.ToolPath())
	}

	// Step 4: Create the virtual environment. No pre-existence check —
	// re-runs invoke uv identically and inherit its idempotence behavior.
	fmt.Printf("Creating virtual environment in %s...\n", settings.venvDir)
	if err := mgr.CreateVenv(ctx, projectRoot, venvDir); err != nil {
		return err
	}

	// Step 5: Resolve the platform path set and build the process-scoped
	// activation environment used by every subsequent subprocess.
	paths := pythonenv.ResolvePaths(venvDir)
	VerboseLog("Interpreter: %s", paths.Interpreter)
	activatedEnv := pythonenv.ActivationEnv(os.Environ(), paths)

	// Step 6: Install the project editable with its dependencies.
	fmt.Printf("Installing project (editable) with dependencies...\n")
	if err := mgr.InstallProject(ctx, projectRoot, paths.Interpreter, settings.extras, activatedEnv); err != nil {
		return err
	}

	// Step 7: Install the browser engine, via the environment's own
	// interpreter rather than PATH resolution, unless skipped.
	installedBrowser := ""
	if settings.skipBrowser {
		VerboseLog("Skipping browser installation")
	} else {
		fmt.Printf("Installing %s browser engine...\n", settings.browser)
		installer := browser.NewInstaller(paths.Interpreter)
		if err := installer.Install(ctx, projectRoot, settings.browser, activatedEnv); err != nil {
			return err
		}
		installedBrowser = settings.browser
	}

	// Step 8: Record the completed run. Written only now, after every
	// step has succeeded, so the file's presence marks a complete env.
	run := manifest.NewRun(projectRoot, paths.Interpreter, toolVersion, installedBrowser, settings.extras)
	if err := manifest.AppendRun(venvDir, run); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to record bootstrap state", err)
	}

	// Step 9: Output results, including the manual activation reminder —
	// activation inside this process cannot outlive it.
	printSetupResult(projectRoot, settings, paths, run)
	return nil
}

// resolveProjectRoot determines the project root directory.
//
// With --project, the given directory is used as-is (after absolutization)
// and must directly contain a manifest. Without it, the walk starts at the
// current working directory and climbs to the nearest manifest.
func resolveProjectRoot(projectFlag string) (string, error) {
	if projectFlag != "" {
		root, err := filepath.Abs(projectFlag)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to resolve project path", err)
		}
		if !manifest.HasManifest(root) {
			return "", model.NewCLIError(model.ExitManifestNotFound,
				fmt.Sprintf("no Python project manifest (pyproject.toml or setup.py) in %s", root))
		}
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}
	return manifest.FindProjectRoot(cwd)
}

// mergeSettings computes the effective setup settings with the precedence
// flags > bootstrap.jsonc > defaults. It validates the resulting browser
// engine name. Exported for testing purposes within the package
// (tested in setup_test.go).
func mergeSettings(flags *setupFlags, cfg *manifest.BootstrapConfig) (setupSettings, error) {
	s := setupSettings{
		venvDir: defaultVenvDir,
		browser: defaultBrowser,
	}

	// File-level settings override the defaults.
	if cfg.VenvDir != "" {
		s.venvDir = cfg.VenvDir
	}
	if cfg.Browser != "" {
		s.browser = cfg.Browser
	}
	if len(cfg.Extras) > 0 {
		s.extras = cfg.Extras
	}
	s.skipBrowser = cfg.SkipBrowser

	// Flags override the file.
	if flags.venvDir != "" {
		s.venvDir = flags.venvDir
	}
	if flags.browserL != "" {
		s.browser = flags.browserL
	}
	if len(flags.extras) > 0 {
		s.extras = flags.extras
	}
	if flags.noBrowser {
		s.skipBrowser = true
	}

	if !s.skipBrowser {
		if err := model.ValidateBrowser(s.browser); err != nil {
			return setupSettings{}, err
		}
	}
	return s, nil
}

// printSetupResult outputs the setup command results in text or JSON format.
func printSetupResult(projectRoot string, settings setupSettings, paths model.EnvPaths, run model.BootstrapRun) {
	if IsJSONOutput() {
		printSetupResultJSON(projectRoot, settings, paths, run)
	} else {
		printSetupResultText(projectRoot, settings, paths, run)
	}
}

// printSetupResultJSON outputs the setup result as structured JSON.
func printSetupResultJSON(projectRoot string, settings setupSettings, paths model.EnvPaths, run model.BootstrapRun) {
	type resultJSON struct {
		ProjectRoot string   `json:"projectRoot"`
		VenvDir     string   `json:"venvDir"`
		Interpreter string   `json:"interpreter"`
		Browser     string   `json:"browser,omitempty"`
		Extras      []string `json:"extras,omitempty"`
		RunID       string   `json:"runId"`
		Activate    string   `json:"activate"`
	}

	result := resultJSON{
		ProjectRoot: projectRoot,
		VenvDir:     paths.VenvDir,
		Interpreter: paths.Interpreter,
		Browser:     run.Browser,
		Extras:      settings.extras,
		RunID:       run.ID,
		Activate:    paths.ActivateHint,
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// printSetupResultText outputs the setup result as human-readable text,
// ending with the manual activation reminder.
func printSetupResultText(projectRoot string, settings setupSettings, paths model.EnvPaths, run model.BootstrapRun) {
	fmt.Println()
	fmt.Println("Bootstrap complete.")
	fmt.Printf("  Project:      %s\n", projectRoot)
	fmt.Printf("  Environment:  %s\n", paths.VenvDir)
	fmt.Printf("  Interpreter:  %s\n", paths.Interpreter)
	if run.Browser != "" {
		fmt.Printf("  Browser:      %s\n", run.Browser)
	}
	if len(settings.extras) > 0 {
		fmt.Printf("  Extras:       %s\n", FormatExtras(settings.extras))
	}
	fmt.Println()
	fmt.Println("To activate the environment in your shell:")
	fmt.Printf("  %s\n", paths.ActivateHint)
}
