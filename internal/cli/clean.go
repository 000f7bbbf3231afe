// Package cli — clean.go implements the "venvctl clean" command.
//
// The clean command removes the virtual environment directory so the next
// setup starts from scratch. Setup itself never destroys the environment,
// so this is the only destructive operation in the CLI.
//
// Two safety rails apply:
//   - The target must look like a venv (contain pyvenv.cfg). This keeps a
//     mistyped --venv-dir from deleting an arbitrary directory.
//   - The command prompts for confirmation unless --force is specified.
package cli

import (
	"bufio"
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

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	// force skips the interactive confirmation prompt when true.
	force bool

	project string // --project: project root (default: walk up from cwd)
	venvDir string // --venv-dir: environment directory override
}

// NewCleanCommand creates the "clean" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the virtual environment",
		Long: `Remove the project's virtual environment directory entirely, including
installed packages and the bootstrap state record. Browser engine binaries
live in Playwright's shared per-user cache and are NOT removed.

Unless --force is specified, the command prompts for confirmation.

Examples:
  venvctl clean
  venvctl clean --force`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")
	cmd.Flags().StringVar(&flags.project, "project", "", "Project root directory (default: nearest manifest above cwd)")
	cmd.Flags().StringVar(&flags.venvDir, "venv-dir", "", "Virtual environment directory relative to the project root (default: .venv)")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(flags *cleanFlags) error {
	// Step 1: Resolve the environment directory.
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

	// Step 2: Refuse anything that does not look like a venv. A missing
	// directory is not an error — clean is idempotent.
	if _, statErr := os.Stat(venvDir); os.IsNotExist(statErr) {
		printCleanResult(venvDir, false)
		return nil
	}
	if !pythonenv.LooksLikeVenv(venvDir) {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s does not look like a virtual environment (no pyvenv.cfg); refusing to remove it", venvDir))
	}

	// Step 3: Prompt for confirmation unless --force is specified.
	if !flags.force {
		confirmed, promptErr := promptConfirmation(venvDir)
		if promptErr != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", promptErr)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	// Step 4: Remove the directory.
	VerboseLog("Removing %s...", venvDir)
	if err := os.RemoveAll(venvDir); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove %s", venvDir), err)
	}

	// Step 5: Output the result.
	printCleanResult(venvDir, true)
	return nil
}

// promptConfirmation asks the user to confirm the clean operation.
// It reads a single line from stdin and checks for "y" or "yes".
// Returns true if the user confirmed, false otherwise.
func promptConfirmation(venvDir string) (bool, error) {
	fmt.Printf("About to remove the virtual environment at %s:\n", venvDir)
	fmt.Printf("  - all installed packages will be deleted\n")
	fmt.Printf("  - the bootstrap state record (%s) will be deleted\n", manifest.StateFileName)
	fmt.Print("\nContinue? [y/N] ")

	// Read a line from stdin. bufio.Scanner handles different line endings
	// across platforms (LF on Unix, CRLF on Windows).
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}

	// If stdin is closed or an error occurred, treat it as "no".
	if err := scanner.Err(); err != nil {
		return false, err
	}

	return false, nil
}

// printCleanResult outputs the clean command result in text or JSON format.
func printCleanResult(venvDir string, removed bool) {
	if IsJSONOutput() {
		result := map[string]interface{}{
			"venvDir": venvDir,
			"removed": removed,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if removed {
		fmt.Printf("Removed virtual environment %s\n", filepath.Base(venvDir))
	} else {
		fmt.Printf("Nothing to remove: %s does not exist\n", venvDir)
	}
}
