package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llc/report"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lltypes.toml", `
backend = "ir"
log-level = "warn"
target-triple = "x86_64-unknown-linux-gnu"
module-name = "demo"
lltypes-version = "0.1.0"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := &Config{
		Path:         path,
		Backend:      "ir",
		LogLevel:     report.LogLevelWarn,
		LogLevelName: "warn",
		TargetTriple: "x86_64-unknown-linux-gnu",
		ModuleName:   "demo",
	}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lltypes.yml", `
log-level: silent
target-triple: wasm32-unknown-unknown
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, report.LogLevelSilent, cfg.LogLevel)
	assert.Equal(t, "wasm32-unknown-unknown", cfg.TargetTriple)

	// Unset fields keep their defaults.
	assert.Equal(t, Default().Backend, cfg.Backend)
	assert.Equal(t, Default().ModuleName, cfg.ModuleName)
}

func TestLoadVersionMismatch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "lltypes.toml", `lltypes-version = "9.9"`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "lltypes v9.9")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name, content, errText string
	}{
		{"lltypes.toml", `backend = "gcc"`, "unknown backend `gcc`"},
		{"lltypes.yaml", `log-level: chatty`, `unknown log level "chatty"`},
		{"lltypes.yml", "module-name: \"it's\"", "must not contain quotes"},
		{"broken.toml", `backend = `, "error parsing config file"},
		{"lltypes.json", `{}`, "unknown format `.json`"},
	}

	for _, test := range tests {
		_, err := Load(writeFile(t, dir, test.name, test.content))
		assert.ErrorContains(t, err, test.errText, test.name)
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	_, found := Find(nested)
	assert.False(t, found)

	yml := writeFile(t, root, "lltypes.yml", "backend: ir\n")
	path, found := Find(nested)
	require.True(t, found)
	assert.Equal(t, yml, path)

	// TOML takes precedence over YAML in the same directory.
	toml := writeFile(t, root, "lltypes.toml", `backend = "ir"`)
	path, _ = Find(nested)
	assert.Equal(t, toml, path)

	// The closest directory wins.
	closer := writeFile(t, nested, "lltypes.yaml", "backend: ir\n")
	path, _ = Find(nested)
	assert.Equal(t, closer, path)
}
