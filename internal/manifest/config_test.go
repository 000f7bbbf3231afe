package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/venvctl/internal/model"
)

// writeFile is a small fixture helper for the tests in this file.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestFindProjectRoot verifies the upward walk to the nearest Python
// project manifest, starting from a nested directory.
func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[project]\nname = \"scraper\"\n")

	nested := filepath.Join(root, "src", "scraper", "pages")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got, "walk should stop at the nearest manifest")
}

// TestFindProjectRoot_LegacyManifest verifies that setup.py also
// identifies a project root.
func TestFindProjectRoot_LegacyManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.py"), "from setuptools import setup\nsetup()\n")

	got, err := FindProjectRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

// TestFindProjectRoot_NotFound verifies the failure mode: no manifest
// anywhere up the tree yields a CLIError with the manifest exit code.
func TestFindProjectRoot_NotFound(t *testing.T) {
	empty := t.TempDir()

	_, err := FindProjectRoot(empty)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitManifestNotFound, cliErr.Code)
	assert.Contains(t, cliErr.Message, "pyproject.toml")
}

// TestHasManifest verifies the direct-containment check used by --project.
func TestHasManifest(t *testing.T) {
	root := t.TempDir()
	assert.False(t, HasManifest(root))

	writeFile(t, filepath.Join(root, "pyproject.toml"), "[project]\n")
	assert.True(t, HasManifest(root))

	// A child directory does not inherit the parent's manifest here —
	// HasManifest is deliberately non-recursive.
	child := filepath.Join(root, "child")
	require.NoError(t, os.MkdirAll(child, 0o755))
	assert.False(t, HasManifest(child))
}

// TestLoadConfig_Missing verifies that an absent bootstrap.jsonc yields the
// zero-value config (defaults apply) rather than an error.
func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.VenvDir)
	assert.Empty(t, cfg.Browser)
	assert.False(t, cfg.SkipBrowser)
}

// TestLoadConfig_JSONC verifies that comments and trailing commas — the
// whole point of using JSONC for this file — parse cleanly.
func TestLoadConfig_JSONC(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), `{
	// Install the dev tooling alongside the project.
	"extras": ["dev"],
	/* firefox renders closer to production here */
	"browser": "firefox",
	"venvDir": ".venv",
	"verifyUrl": "https://example.com",
}`)

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.Equal(t, []string{"dev"}, cfg.Extras)
	assert.Equal(t, "https://example.com", cfg.VerifyURL)
}

// TestLoadConfig_Invalid verifies that a present-but-broken config file is
// a hard error — silently falling back to defaults would bootstrap the
// wrong environment.
func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed json",
			content: `{"extras": [`,
		},
		{
			name:    "unknown browser engine",
			content: `{"browser": "netscape"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, ConfigFileName), tt.content)

			_, err := LoadConfig(root)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, model.ExitManifestNotFound, cliErr.Code)
		})
	}
}
