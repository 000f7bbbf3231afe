// Package cli — verify.go implements the "venvctl verify" command.
//
// The verify command proves the browser toolchain actually works on this
// host: it launches the installed engine headlessly, opens a page, and
// navigates it. Setup only downloads the engine binary; verify is what
// catches missing system libraries, broken caches, and sandboxing issues
// before any downstream automation hits them.
package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/venvctl/internal/browser"
	"github.com/mmr-tortoise/venvctl/internal/manifest"
	"github.com/mmr-tortoise/venvctl/internal/model"
	"github.com/mmr-tortoise/venvctl/internal/pythonenv"
)

// verifyFlags holds the flag values for the verify command.
type verifyFlags struct {
	project string        // --project: project root (default: walk up from cwd)
	venvDir string        // --venv-dir: environment directory override
	engine  string        // --browser: engine to launch (default: last installed)
	url     string        // --url: page to navigate to
	timeout time.Duration // --timeout: navigation time budget
}

// NewVerifyCommand creates the "verify" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewVerifyCommand() *cobra.Command {
	flags := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Launch the installed browser engine to verify the toolchain",
		Long: `Launch the installed browser engine headlessly, open a page, and navigate
it, proving the bootstrap produced a working toolchain.

By default the engine recorded in the last bootstrap run is launched and
navigated to about:blank, which exercises the full launch path without
touching the network.

Examples:
  venvctl verify
  venvctl verify --browser firefox
  venvctl verify --url https://example.com --timeout 60s`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(flags)
		},
	}

	cmd.Flags().StringVar(&flags.project, "project", "", "Project root directory (default: nearest manifest above cwd)")
	cmd.Flags().StringVar(&flags.venvDir, "venv-dir", "", "Virtual environment directory relative to the project root (default: .venv)")
	cmd.Flags().StringVar(&flags.engine, "browser", "", "Browser engine to launch (default: engine from the last bootstrap run)")
	cmd.Flags().StringVar(&flags.url, "url", "", "Page to navigate to (default: about:blank)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "Navigation timeout")

	return cmd
}

// runVerify is the main logic function for the verify command.
func runVerify(flags *verifyFlags) error {
	// Step 1: Resolve the environment and require it to exist. Verifying
	// without a bootstrap would only ever test the Go driver's own cache.
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

	if !pythonenv.LooksLikeVenv(venvDir) {
		return model.NewCLIError(model.ExitEnvMissing,
			fmt.Sprintf("no virtual environment at %s (run `venvctl setup` first)", venvDir))
	}

	// Step 2: Decide which engine to launch: flag > last recorded run >
	// config > default.
	engine := flags.engine
	if engine == "" {
		if state, stateErr := manifest.LoadState(venvDir); stateErr == nil {
			if last := state.LastRun(); last != nil && last.Browser != "" {
				engine = last.Browser
				VerboseLog("Using engine from last bootstrap run: %s", engine)
			}
		}
	}
	if engine == "" && cfg.Browser != "" {
		engine = cfg.Browser
	}

	url := flags.url
	if url == "" && cfg.VerifyURL != "" {
		url = cfg.VerifyURL
	}

	// Step 3: Launch, navigate, report.
	VerboseLog("Launching %s headless...", engine)
	report, err := browser.Verify(browser.VerifyOptions{
		Engine:  engine,
		URL:     url,
		Timeout: flags.timeout,
	})
	if err != nil {
		return err
	}

	printVerifyResult(report)
	return nil
}

// printVerifyResult outputs the verify command result in text or JSON format.
func printVerifyResult(report *browser.VerifyReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println("Browser toolchain verified.")
	fmt.Printf("  Engine:    %s %s\n", report.Engine, report.Version)
	fmt.Printf("  Loaded:    %s\n", report.URL)
	fmt.Printf("  Took:      %s\n", report.Duration.Round(10*time.Millisecond))
}
