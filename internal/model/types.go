// Package model defines the domain types for the venvctl CLI.
//
// All entities in this package represent the small amount of state the
// bootstrapper deals in: the resolved virtual-environment path set, the
// lifecycle status of the environment, and the record of completed
// bootstrap runs persisted in the state file under the venv directory.
package model

import (
	"fmt"
	"strings"
	"time"
)

// EnvStatus represents the lifecycle state of a managed virtual environment.
// The state transitions are:
//
//	[Missing] → setup → Ready
//	Ready → (venv deleted or partially created) → Missing / Incomplete
type EnvStatus string

const (
	// StatusReady indicates the venv directory exists, the interpreter is
	// present, and a completed bootstrap run is recorded in the state file.
	StatusReady EnvStatus = "ready"

	// StatusIncomplete indicates the venv directory exists but either the
	// interpreter or the bootstrap state file is missing. This typically
	// happens when a previous setup run was interrupted partway through.
	StatusIncomplete EnvStatus = "incomplete"

	// StatusMissing indicates the venv directory does not exist at all.
	StatusMissing EnvStatus = "missing"
)

// String returns the string representation of EnvStatus.
// This method satisfies the fmt.Stringer interface, enabling
// human-readable output in CLI commands.
func (s EnvStatus) String() string {
	return string(s)
}

// IsValid checks whether the EnvStatus value is one of the
// predefined valid states.
func (s EnvStatus) IsValid() bool {
	switch s {
	case StatusReady, StatusIncomplete, StatusMissing:
		return true
	default:
		return false
	}
}

// ParseEnvStatus converts a string to an EnvStatus.
// Returns an error if the string does not match any valid status.
func ParseEnvStatus(s string) (EnvStatus, error) {
	status := EnvStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid environment status: %q (valid: ready, incomplete, missing)", s)
	}
	return status, nil
}

// EnvPaths is the platform-resolved path set for a virtual environment.
//
// A venv lays out its interpreter and activation script differently on
// Windows (Scripts\) and POSIX (bin/) hosts. The path set is resolved once
// per command and passed around, so every subprocess the CLI spawns agrees
// on which interpreter it is using.
type EnvPaths struct {
	// VenvDir is the absolute path to the virtual environment directory.
	VenvDir string `json:"venvDir"`

	// Interpreter is the absolute path to the venv's Python interpreter
	// (bin/python or Scripts\python.exe).
	Interpreter string `json:"interpreter"`

	// ActivateScript is the absolute path to the shell activation script
	// (bin/activate or Scripts\activate).
	ActivateScript string `json:"activateScript"`

	// BinDir is the directory containing the venv's executables. This is
	// what gets prepended to PATH for child processes.
	BinDir string `json:"binDir"`

	// ActivateHint is the command a user would type to activate the
	// environment in their own shell. Activation performed by this process
	// cannot outlive it, so commands print this hint instead.
	ActivateHint string `json:"activateHint"`

	// Windows reports whether the Windows-style layout was selected.
	Windows bool `json:"windows"`
}

// knownBrowsers lists the browser engines the Playwright installer accepts.
// "chromium" is the default engine; the channel names (chrome, msedge)
// install branded builds instead of the bundled engine.
var knownBrowsers = map[string]bool{
	"chromium": true,
	"firefox":  true,
	"webkit":   true,
	"chrome":   true,
	"msedge":   true,
}

// ValidateBrowser checks whether the given name is a browser engine the
// Playwright installer knows how to fetch.
func ValidateBrowser(name string) error {
	if name == "" {
		return fmt.Errorf("browser engine name must not be empty")
	}
	if !knownBrowsers[strings.ToLower(name)] {
		return fmt.Errorf("unknown browser engine %q (valid: chromium, firefox, webkit, chrome, msedge)", name)
	}
	return nil
}

// BootstrapRun records one completed, fully successful bootstrap run.
// Runs that fail partway are never recorded — the state file is only
// written after every step has succeeded.
type BootstrapRun struct {
	// ID is a UUID identifying this run.
	ID string `yaml:"id" json:"id"`

	// CompletedAt is the timestamp when the run finished (UTC).
	CompletedAt time.Time `yaml:"completedAt" json:"completedAt"`

	// ProjectRoot is the absolute path to the project that was installed.
	ProjectRoot string `yaml:"projectRoot" json:"projectRoot"`

	// Interpreter is the venv interpreter path the run used.
	Interpreter string `yaml:"interpreter" json:"interpreter"`

	// ToolVersion is the output of `uv --version` at run time.
	ToolVersion string `yaml:"toolVersion,omitempty" json:"toolVersion,omitempty"`

	// Extras lists the optional dependency groups installed alongside the
	// editable project install (e.g., "dev").
	Extras []string `yaml:"extras,omitempty" json:"extras,omitempty"`

	// Browser is the browser engine that was installed, or empty when the
	// browser step was skipped.
	Browser string `yaml:"browser,omitempty" json:"browser,omitempty"`
}

// BootstrapState is the persisted record of bootstrap runs, stored as YAML
// at <venv>/bootstrap-state.yaml. The venv directory itself is owned by the
// environment tool; this file is the only thing venvctl adds to it.
type BootstrapState struct {
	// Version is the state file schema version, for forward compatibility.
	Version int `yaml:"version" json:"version"`

	// Runs holds all recorded runs in chronological order.
	Runs []BootstrapRun `yaml:"runs" json:"runs"`
}

// LastRun returns the most recent recorded run, or nil if none exist.
func (s *BootstrapState) LastRun() *BootstrapRun {
	if s == nil || len(s.Runs) == 0 {
		return nil
	}
	return &s.Runs[len(s.Runs)-1]
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
//
// External command failures do not map to this table: their own exit codes
// are propagated verbatim through CLIError, so the first failing subprocess
// decides the process exit status.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitToolMissing indicates the required package-management tool could
	// not be found on PATH. Pinned to 1 by the CLI contract so shell
	// wrappers can rely on it.
	ExitToolMissing ExitCode = 1

	// ExitManifestNotFound indicates no Python project manifest
	// (pyproject.toml / setup.py) was found, or the bootstrap config
	// file was present but invalid.
	ExitManifestNotFound ExitCode = 2

	// ExitEnvMissing indicates the virtual environment does not exist or
	// is incomplete when a command required it to be ready.
	ExitEnvMissing ExitCode = 3

	// ExitBrowserFailed indicates the browser engine could not be launched
	// during verification.
	ExitBrowserFailed ExitCode = 4

	// ExitUserCancelled indicates the user cancelled an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
// This follows Go's error wrapping convention introduced in Go 1.13.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
