// Package pythonenv provides virtual-environment provisioning for the
// venvctl CLI.
//
// All environment operations are performed via os/exec calls to the uv
// binary, rather than binding a library. This approach:
//   - Uses the exact same uv behavior the user sees in their terminal
//   - Inherits uv's own idempotence semantics for repeated venv creation
//   - Keeps the CLI free of any Python runtime dependency
//
// The Manager struct provides methods for detecting uv, creating the
// environment, and installing the local project in editable mode. The
// package also resolves the platform-specific venv path set (Scripts\ on
// Windows-style hosts, bin/ elsewhere) and builds the process-scoped
// activation environment used for every child process.
package pythonenv
