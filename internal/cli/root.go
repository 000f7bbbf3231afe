// Package cli implements the cobra-based CLI commands for venvctl.
//
// The root command defined here carries the global flags and the error-to-
// exit-code translation; the actual operations live in their own files
// (setup.go, status.go, verify.go, clean.go), one subcommand each.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// Flag variables bound to persistent flags on the root command, so every
// subcommand sees them without re-declaring anything.
var (
	// jsonOutput switches successful command output from human-readable
	// text to structured JSON on stdout.
	jsonOutput bool

	// verbose turns on the step-by-step trace written to stderr.
	verbose bool
)

// Version, Commit, and Date identify the build. main.go copies the ldflags
// values in before executing the root command.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command performs no work of its own — it exists to hold the
// help text, the --version output, and the persistent flags, and to parent
// the setup/status/verify/clean subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "venvctl",
		Short: "Python virtual-environment bootstrapper for Playwright projects",
		Long: `venvctl provisions the isolated Python environment a Playwright-based
project needs: it creates the virtual environment with uv, installs the local
project in editable mode with its dependencies, and fetches the browser
engine binary.

The environment is created once and reused; re-running setup is safe and
inherits uv's own idempotence behavior.`,

		// Errors are formatted by Execute below (text or JSON), so cobra's
		// own usage/error printing is turned off to avoid double output.
		SilenceUsage:  true,
		SilenceErrors: true,

		// Shown by the --version flag.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewVerifyCommand())
	rootCmd.AddCommand(NewCleanCommand())

	return rootCmd
}

// Execute runs the root command and exits the process with the right code.
//
// A CLIError names its own exit code: either one of the fixed codes from
// the model package, or — for external command failures — the child
// process's exit status carried up unchanged, so the first failing
// subprocess decides what the shell sees. Anything else exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// A single-level type assertion is enough here; nothing wraps
		// CLIError before it reaches this point.
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes an error to stderr, honoring the --json flag.
// Errors go to stderr even in JSON mode — stdout carries only the
// successful command result.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog writes a trace line to stderr when --verbose is set.
// Subcommands use it to narrate which step is running and why a
// non-fatal condition was skipped over.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput reports whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
