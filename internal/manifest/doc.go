// Package manifest handles project discovery and configuration for the
// venvctl CLI.
//
// Three file formats live here:
//
//   - The Python project manifest (pyproject.toml or setup.py), which is
//     never parsed — its presence is what identifies the project root that
//     the editable install targets.
//   - bootstrap.jsonc, an optional project-level configuration file. JSONC
//     (JSON with Comments) is supported via github.com/tidwall/jsonc, so
//     the file can document itself the way devcontainer.json files do.
//   - bootstrap-state.yaml, written under the venv directory after each
//     fully successful bootstrap run. It records run IDs, timestamps, and
//     what was installed, and is what `status` and `verify` read back.
package manifest
