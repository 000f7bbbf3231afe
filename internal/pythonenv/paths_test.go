package pythonenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolvePathSet verifies the platform branching that selects between
// the Windows (Scripts\) and POSIX (bin/) venv layouts. The selection must
// prefer an existing Windows activation script over host identification,
// and must honor the OS=Windows_NT marker that compatibility shells carry.
func TestResolvePathSet(t *testing.T) {
	venv := filepath.Join("proj", ".venv")

	tests := []struct {
		name               string
		goos               string
		osEnv              string
		hasWindowsActivate bool
		wantWindows        bool
	}{
		{
			name:        "linux host",
			goos:        "linux",
			wantWindows: false,
		},
		{
			name:        "darwin host",
			goos:        "darwin",
			wantWindows: false,
		},
		{
			name:        "windows host",
			goos:        "windows",
			wantWindows: true,
		},
		{
			name:        "compatibility shell with OS marker",
			goos:        "linux",
			osEnv:       "Windows_NT",
			wantWindows: true,
		},
		{
			name:        "OS marker is case insensitive",
			goos:        "linux",
			osEnv:       "WINDOWS_NT",
			wantWindows: true,
		},
		{
			name:               "existing Scripts activate wins over GOOS",
			goos:               "linux",
			hasWindowsActivate: true,
			wantWindows:        true,
		},
		{
			name:        "unrelated OS value is ignored",
			goos:        "linux",
			osEnv:       "plan9",
			wantWindows: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := resolvePathSet(venv, tt.goos, tt.osEnv, tt.hasWindowsActivate)

			assert.Equal(t, tt.wantWindows, paths.Windows)
			assert.Equal(t, venv, paths.VenvDir)

			if tt.wantWindows {
				assert.Equal(t, filepath.Join(venv, "Scripts", "python.exe"), paths.Interpreter)
				assert.Equal(t, filepath.Join(venv, "Scripts", "activate"), paths.ActivateScript)
				assert.Equal(t, filepath.Join(venv, "Scripts"), paths.BinDir)
			} else {
				assert.Equal(t, filepath.Join(venv, "bin", "python"), paths.Interpreter)
				assert.Equal(t, filepath.Join(venv, "bin", "activate"), paths.ActivateScript)
				assert.Equal(t, filepath.Join(venv, "bin"), paths.BinDir)
				assert.Equal(t, "source "+filepath.Join(venv, "bin", "activate"), paths.ActivateHint)
			}
		})
	}
}

// TestResolvePaths_ExistingWindowsLayout verifies that a venv carrying a
// Scripts\activate file is treated as Windows-style regardless of the host
// the test runs on.
func TestResolvePaths_ExistingWindowsLayout(t *testing.T) {
	venv := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(venv, "Scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(venv, "Scripts", "activate"), []byte("@echo off\n"), 0o644))

	paths := ResolvePaths(venv)
	assert.True(t, paths.Windows, "existing Scripts/activate should select the Windows layout")
	assert.Equal(t, filepath.Join(venv, "Scripts", "python.exe"), paths.Interpreter)
}

// TestLooksLikeVenv verifies the pyvenv.cfg guard used by destructive
// commands.
func TestLooksLikeVenv(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, LooksLikeVenv(dir), "empty directory is not a venv")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0o644))
	assert.True(t, LooksLikeVenv(dir), "directory with pyvenv.cfg is a venv")

	assert.False(t, LooksLikeVenv(filepath.Join(dir, "nope")), "missing directory is not a venv")
}

// TestActivationEnv verifies the process-scoped activation transformations:
// VIRTUAL_ENV is set, the venv bin dir is prepended to PATH, PYTHONHOME is
// stripped, and unrelated variables pass through untouched.
func TestActivationEnv(t *testing.T) {
	paths := resolvePathSet(filepath.Join("p", ".venv"), "linux", "", false)
	sep := string(os.PathListSeparator)

	base := []string{
		"HOME=/home/user",
		"PATH=/usr/bin" + sep + "/bin",
		"PYTHONHOME=/opt/python",
		"VIRTUAL_ENV=/somewhere/else",
	}

	env := ActivationEnv(base, paths)

	var gotPath, gotVenv string
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			gotPath = strings.TrimPrefix(kv, "PATH=")
		}
		if strings.HasPrefix(kv, "VIRTUAL_ENV=") {
			gotVenv = strings.TrimPrefix(kv, "VIRTUAL_ENV=")
		}
		assert.False(t, strings.HasPrefix(kv, "PYTHONHOME="), "PYTHONHOME must be stripped")
	}

	assert.Equal(t, paths.BinDir+sep+"/usr/bin"+sep+"/bin", gotPath,
		"venv bin dir should be prepended to the existing PATH")
	assert.Equal(t, paths.VenvDir, gotVenv,
		"VIRTUAL_ENV should point at the venv, replacing any stale value")
	assert.Contains(t, env, "HOME=/home/user", "unrelated variables pass through")
}

// TestActivationEnv_WindowsPathCasing verifies that the search path merge
// matches the variable name case-insensitively. Windows conventionally
// spells it "Path"; the venv bin dir must be prepended to that entry, not
// appended as a second conflicting PATH variable.
func TestActivationEnv_WindowsPathCasing(t *testing.T) {
	paths := resolvePathSet(filepath.Join("C:", "proj", ".venv"), "windows", "", false)
	sep := string(os.PathListSeparator)

	base := []string{
		"SystemRoot=C:\\Windows",
		"Path=C:\\Windows\\system32",
	}

	env := ActivationEnv(base, paths)

	var pathEntries []string
	for _, kv := range env {
		key, _, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(key, "PATH") {
			pathEntries = append(pathEntries, kv)
		}
	}

	require.Len(t, pathEntries, 1, "exactly one search path entry must survive the merge")
	assert.Equal(t, "Path="+paths.BinDir+sep+"C:\\Windows\\system32", pathEntries[0],
		"venv bin dir should be prepended under the original key casing")
	assert.Contains(t, env, "SystemRoot=C:\\Windows")
}

// TestActivationEnv_NoPath verifies that a base environment without PATH
// still ends up with the venv bin dir on PATH.
func TestActivationEnv_NoPath(t *testing.T) {
	paths := resolvePathSet(".venv", "linux", "", false)

	env := ActivationEnv([]string{"HOME=/home/user"}, paths)

	assert.Contains(t, env, "PATH="+paths.BinDir)
	assert.Contains(t, env, "VIRTUAL_ENV="+paths.VenvDir)
}
