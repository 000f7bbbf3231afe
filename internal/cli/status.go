// Package cli — status.go implements the "venvctl status" command.
//
// The status command reports on the managed virtual environment without
// changing anything: whether it exists, which interpreter/activation paths
// apply on this host, and what the last recorded bootstrap run installed.
//
// An optional --check flag turns the query into an assertion: the command
// exits non-zero when the environment is missing or incomplete, which lets
// CI pipelines gate on "bootstrap has been run here".
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/manifest"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/pythonenv"
)

// statusFlags holds the flag values for the status command.
type statusFlags struct {
	project string // --project: project root (default: walk up from cwd)
	venvDir string // --venv-dir: environment directory override
	check   bool   // --check: exit non-zero unless the environment is ready
}

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	flags := &statusFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the virtual environment",
		Long: `Show whether the project's virtual environment exists, which interpreter
and activation paths apply on this host, and what the last bootstrap run
installed.

Examples:
  venvctl status
  venvctl status --json
  venvctl status --check`,

		// No positional arguments are required for the status command.
		Args: cobra.NoArgs,

		// RunE returns an error to the root command's error handler.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(flags)
		},
	}

	cmd.Flags().StringVar(&flags.project, "project", "", "Project root directory (default: nearest manifest above cwd)")
	cmd.Flags().StringVar(&flags.venvDir, "venv-dir", "", "Virtual environment directory relative to the project root (default: .venv)")
	cmd.Flags().BoolVar(&flags.check, "check", false, "Exit non-zero unless the environment is ready")

	return cmd
}

// runStatus is the main logic function for the status command.
// It resolves the environment location, derives its lifecycle status,
// and outputs results in the appropriate format.
func runStatus(flags *statusFlags) error {
	// Step 1: Resolve the project root and environment directory.
	projectRoot, err := resolveProjectRoot(flags.project)
	if err != nil {
		return err
	}

	cfg, err := manifest.LoadConfig(projectRoot)
	if err != nil {
		return err
	}
	venvRel := defaultVenvDir
	if cfg.VenvDir != "" {
		venvRel = cfg.VenvDir
	}
	if flags.venvDir != "" {
		venvRel = flags.venvDir
	}
	venvDir := filepath.Join(projectRoot, venvRel)
	VerboseLog("Environment directory: %s", venvDir)

	// Step 2: Resolve platform paths and inspect what is on disk.
	paths := pythonenv.ResolvePaths(venvDir)

	venvExists := false
	if info, statErr := os.Stat(venvDir); statErr == nil && info.IsDir() {
		venvExists = pythonenv.LooksLikeVenv(venvDir)
	}
	interpreterExists := pythonenv.InterpreterExists(paths)

	// Step 3: Read the bootstrap state file. A corrupt state file is
	// reported as an incomplete environment rather than a hard failure.
	var lastRun *model.BootstrapRun
	stateOK := false
	if venvExists {
		state, stateErr := manifest.LoadState(venvDir)
		if stateErr != nil {
			VerboseLog("Warning: %v", stateErr)
		} else if state != nil {
			lastRun = state.LastRun()
			stateOK = lastRun != nil
		}
	}

	status := DeriveStatus(venvExists, interpreterExists, stateOK)

	// Step 4: Output results.
	printStatusResult(projectRoot, paths, status, lastRun)

	// Step 5: Enforce --check semantics after printing, so the user still
	// sees WHY the check failed.
	if flags.check && status != model.StatusReady {
		return model.NewCLIError(model.ExitEnvMissing,
			fmt.Sprintf("environment is %s (run `venvctl setup`)", status))
	}
	return nil
}

// DeriveStatus maps what exists on disk to an environment lifecycle status.
// This function is exported for testing purposes (tested in status_test.go).
//
//	venv missing                        → missing
//	venv present, interpreter or state
//	record absent                       → incomplete
//	everything present                  → ready
func DeriveStatus(venvExists, interpreterExists, stateOK bool) model.EnvStatus {
	switch {
	case !venvExists:
		return model.StatusMissing
	case !interpreterExists || !stateOK:
		return model.StatusIncomplete
	default:
		return model.StatusReady
	}
}

// printStatusResult outputs the status in text or JSON format,
// depending on the global --json flag.
func printStatusResult(projectRoot string, paths model.EnvPaths, status model.EnvStatus, lastRun *model.BootstrapRun) {
	if IsJSONOutput() {
		printStatusResultJSON(projectRoot, paths, status, lastRun)
	} else {
		printStatusResultText(projectRoot, paths, status, lastRun)
	}
}

// printStatusResultJSON outputs the environment status as structured JSON.
func printStatusResultJSON(projectRoot string, paths model.EnvPaths, status model.EnvStatus, lastRun *model.BootstrapRun) {
	type resultJSON struct {
		ProjectRoot string              `json:"projectRoot"`
		Status      string              `json:"status"`
		VenvDir     string              `json:"venvDir"`
		Interpreter string              `json:"interpreter"`
		Activate    string              `json:"activate"`
		LastRun     *model.BootstrapRun `json:"lastRun,omitempty"`
	}

	result := resultJSON{
		ProjectRoot: projectRoot,
		Status:      status.String(),
		VenvDir:     paths.VenvDir,
		Interpreter: paths.Interpreter,
		Activate:    paths.ActivateHint,
		LastRun:     lastRun,
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// printStatusResultText outputs the environment status as human-readable text.
func printStatusResultText(projectRoot string, paths model.EnvPaths, status model.EnvStatus, lastRun *model.BootstrapRun) {
	fmt.Printf("Project:      %s\n", projectRoot)
	fmt.Printf("Environment:  %s\n", paths.VenvDir)
	fmt.Printf("Status:       %s\n", status)
	fmt.Printf("Interpreter:  %s\n", paths.Interpreter)

	if lastRun != nil {
		fmt.Println()
		fmt.Println("Last bootstrap run:")
		fmt.Printf("  Completed:  %s\n", lastRun.CompletedAt.Format("2006-01-02 15:04:05 MST"))
		if lastRun.ToolVersion != "" {
			fmt.Printf("  Tool:       %s\n", lastRun.ToolVersion)
		}
		if lastRun.Browser != "" {
			fmt.Printf("  Browser:    %s\n", lastRun.Browser)
		}
		if len(lastRun.Extras) > 0 {
			fmt.Printf("  Extras:     %s\n", FormatExtras(lastRun.Extras))
		}
	}

	if status != model.StatusReady {
		fmt.Println()
		fmt.Println("Run `venvctl setup` to bootstrap the environment.")
	} else {
		fmt.Println()
		fmt.Println("To activate the environment in your shell:")
		fmt.Printf("  %s\n", paths.ActivateHint)
	}
}

// FormatExtras converts a slice of extras group names into a comma-separated
// string. Returns "-" if no extras are present.
//
// This function is exported for testing purposes (tested in status_test.go).
//
// Example:
//
//	["dev", "test"] → "dev,test"
//	[]              → "-"
func FormatExtras(extras []string) string {
	if len(extras) == 0 {
		return "-"
	}
	return strings.Join(extras, ",")
}
