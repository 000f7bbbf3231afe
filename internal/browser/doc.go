// Package browser handles browser engine installation and verification for
// the venvctl CLI.
//
// Installation runs `python -m playwright install <engine>` through the
// virtual environment's own interpreter — not whatever python PATH
// resolution finds — so the engine registered belongs to the environment
// that was just bootstrapped. The downloaded engine binaries land in
// Playwright's shared per-user cache, which all Playwright language
// bindings read.
//
// Verification uses github.com/playwright-community/playwright-go to
// launch the installed engine headlessly and load a page, proving the
// binary in that shared cache actually runs on this host.
package browser
