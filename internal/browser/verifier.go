// verifier.go proves the installed browser toolchain works end to end.
//
// The check launches the engine headlessly through playwright-go, opens a
// page, and navigates it. Playwright's engine binaries live in a shared
// per-user cache keyed by engine build, so the binary exercised here is
// the same one `venvctl setup` installed for the Python side.
package browser

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// VerifyOptions configures a verification run.
type VerifyOptions struct {
	// Engine is the browser engine to launch (chromium/firefox/webkit,
	// or the chrome/msedge channels).
	Engine string

	// URL is the page to navigate to. Defaults to about:blank, which
	// exercises the full launch/page/navigation path without touching
	// the network.
	URL string

	// Timeout bounds the navigation step.
	Timeout time.Duration
}

// VerifyReport summarizes a successful verification run.
type VerifyReport struct {
	// Engine is the engine that was launched.
	Engine string `json:"engine"`

	// Version is the browser version string reported by the engine.
	Version string `json:"version"`

	// URL is the page that was loaded.
	URL string `json:"url"`

	// Duration is the total wall time of the check.
	Duration time.Duration `json:"-"`
}

// Verify launches the engine headlessly, opens a page, and navigates it.
//
// The playwright-go driver is installed on first use (driver only — the
// Browsers list limits any engine download to the one under test, and a
// previously installed engine is reused from the shared cache). All
// failures map to ExitBrowserFailed with a hint to re-run setup.
func Verify(opts VerifyOptions) (*VerifyReport, error) {
	if opts.Engine == "" {
		opts.Engine = "chromium"
	}
	if err := model.ValidateBrowser(opts.Engine); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "invalid browser engine", err)
	}
	if opts.URL == "" {
		opts.URL = "about:blank"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	start := time.Now()

	// Discard driver output: stdout is reserved for the command result.
	runOpts := &playwright.RunOptions{
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
		Browsers: []string{driverEngine(opts.Engine)},
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, model.WrapCLIError(model.ExitBrowserFailed,
			"failed to prepare the Playwright driver", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitBrowserFailed,
			"failed to start the Playwright driver", err)
	}
	defer func() { _ = pw.Stop() }()

	browserType, launchOpts := launchTarget(pw, opts.Engine)

	b, err := browserType.Launch(launchOpts)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitBrowserFailed,
			fmt.Sprintf("failed to launch %s (run `venvctl setup` to install it)", opts.Engine), err)
	}
	defer func() { _ = b.Close() }()

	page, err := b.NewPage()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitBrowserFailed, "failed to open a page", err)
	}

	if _, err := page.Goto(opts.URL, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(opts.Timeout.Milliseconds())),
	}); err != nil {
		return nil, model.WrapCLIError(model.ExitBrowserFailed,
			fmt.Sprintf("failed to navigate to %s", opts.URL), err)
	}

	return &VerifyReport{
		Engine:   opts.Engine,
		Version:  b.Version(),
		URL:      opts.URL,
		Duration: time.Since(start),
	}, nil
}

// driverEngine maps a requested engine to the engine family the driver
// needs available. The branded channels (chrome, msedge) are launched
// through the Chromium browser type.
func driverEngine(engine string) string {
	switch strings.ToLower(engine) {
	case "chrome", "msedge":
		return "chromium"
	default:
		return strings.ToLower(engine)
	}
}

// launchTarget selects the playwright BrowserType and launch options for
// the requested engine. Headless is always on — verification must work on
// CI hosts with no display.
func launchTarget(pw *playwright.Playwright, engine string) (playwright.BrowserType, playwright.BrowserTypeLaunchOptions) {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	}

	switch strings.ToLower(engine) {
	case "firefox":
		return pw.Firefox, launchOpts
	case "webkit":
		return pw.WebKit, launchOpts
	case "chrome", "msedge":
		launchOpts.Channel = playwright.String(strings.ToLower(engine))
		return pw.Chromium, launchOpts
	default:
		return pw.Chromium, launchOpts
	}
}
