// Package model defines the domain types and value objects for the
// venvctl CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (EnvPaths, BootstrapState, BootstrapRun, EnvStatus) are
// transient representations of what lives on disk under the virtual
// environment directory — the YAML state file written after a successful
// bootstrap run is the only persistent record.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
