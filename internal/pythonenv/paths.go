// paths.go resolves the platform-specific layout of a virtual environment.
//
// The same venv directory looks different depending on the host convention:
//
//	POSIX:    .venv/bin/python        .venv/bin/activate
//	Windows:  .venv\Scripts\python.exe  .venv\Scripts\activate
//
// Selection checks for an existing Windows-style activation script first,
// then falls back to host identification (GOOS, or the OS=Windows_NT
// environment marker that compatibility shells like Git Bash and MSYS
// inherit from the host). The existence check comes first because a venv
// created under a Windows Python keeps the Scripts\ layout even when later
// inspected from a Unix-flavored shell.
package pythonenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// windowsOSMarker is the value of the OS environment variable on Windows
// hosts, including compatibility shells running on top of them.
const windowsOSMarker = "windows_nt"

// ResolvePaths returns the platform-appropriate path set for the virtual
// environment at venvDir. The directory does not need to exist yet — for a
// venv that has not been created, selection falls back to host
// identification alone.
func ResolvePaths(venvDir string) model.EnvPaths {
	hasWindowsActivate := false
	if _, err := os.Stat(filepath.Join(venvDir, "Scripts", "activate")); err == nil {
		hasWindowsActivate = true
	}
	return resolvePathSet(venvDir, runtime.GOOS, os.Getenv("OS"), hasWindowsActivate)
}

// resolvePathSet is the pure core of ResolvePaths, split out so the
// branching logic is testable without manipulating the test host.
//
// Windows-style paths are selected when ANY of the following holds:
//   - the Windows activation script already exists in the venv
//   - GOOS is windows
//   - the OS environment variable identifies a Windows host
func resolvePathSet(venvDir, goos, osEnv string, hasWindowsActivate bool) model.EnvPaths {
	windows := hasWindowsActivate ||
		goos == "windows" ||
		strings.EqualFold(osEnv, windowsOSMarker)

	if windows {
		binDir := filepath.Join(venvDir, "Scripts")
		return model.EnvPaths{
			VenvDir:        venvDir,
			Interpreter:    filepath.Join(binDir, "python.exe"),
			ActivateScript: filepath.Join(binDir, "activate"),
			BinDir:         binDir,
			// PowerShell users dot-source Activate.ps1; the plain activate
			// script covers cmd.exe and compatibility shells.
			ActivateHint: filepath.Join(venvDir, "Scripts", "activate"),
			Windows:      true,
		}
	}

	binDir := filepath.Join(venvDir, "bin")
	return model.EnvPaths{
		VenvDir:        venvDir,
		Interpreter:    filepath.Join(binDir, "python"),
		ActivateScript: filepath.Join(binDir, "activate"),
		BinDir:         binDir,
		ActivateHint:   "source " + filepath.Join(venvDir, "bin", "activate"),
		Windows:        false,
	}
}

// LooksLikeVenv reports whether dir appears to be a virtual environment
// directory. Every venv created by the standard tooling contains a
// pyvenv.cfg file at its root; checking for it prevents destructive
// commands from operating on an arbitrary directory.
func LooksLikeVenv(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// InterpreterExists reports whether the path set's interpreter binary is
// present on disk. Used by status/verify to distinguish an incomplete
// environment from a ready one.
func InterpreterExists(paths model.EnvPaths) bool {
	info, err := os.Stat(paths.Interpreter)
	return err == nil && !info.IsDir()
}

// ActivationEnv builds the child-process environment for commands that must
// run "inside" the virtual environment. Activation performed here is
// process-scoped: it affects only subprocesses this CLI spawns, never the
// invoking shell (a child process cannot rewrite its parent's environment).
//
// The transformations mirror what the venv activation script does:
//   - VIRTUAL_ENV is set to the venv directory
//   - the venv's bin directory is prepended to PATH
//   - PYTHONHOME is removed, since it would override the venv's layout
func ActivationEnv(base []string, paths model.EnvPaths) []string {
	env := make([]string, 0, len(base)+2)
	pathSeen := false

	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			env = append(env, kv)
			continue
		}
		switch {
		case strings.EqualFold(key, "VIRTUAL_ENV"), strings.EqualFold(key, "PYTHONHOME"):
			// Dropped: VIRTUAL_ENV is re-set below, PYTHONHOME must not leak in.
			continue
		case strings.EqualFold(key, "PATH"):
			// Windows spells this "Path"; match case-insensitively and keep
			// the original key so exactly one search path entry survives.
			env = append(env, key+"="+paths.BinDir+string(os.PathListSeparator)+value)
			pathSeen = true
		default:
			env = append(env, kv)
		}
	}

	if !pathSeen {
		env = append(env, "PATH="+paths.BinDir)
	}
	env = append(env, "VIRTUAL_ENV="+paths.VenvDir)
	return env
}
