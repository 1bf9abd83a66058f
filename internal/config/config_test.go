package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644)) //nolint:gosec // test file
}

func isolated(t *testing.T) Options {
	t.Helper()
	return Options{GlobalDir: t.TempDir(), WorkDir: t.TempDir()}
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load(isolated(t))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Jobs)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Noop)
	assert.True(t, cfg.Status.Untracked)
	assert.Empty(t, cfg.OverrideMap())
}

func TestLoad_layers(t *testing.T) {
	opts := isolated(t)
	write(t, filepath.Join(opts.GlobalDir, "config.toml"), `
jobs = 8
verbose = true

[[link.overrides]]
name = "lodash.merge"
link = true
`)
	write(t, filepath.Join(opts.WorkDir, ".siblink.yaml"), `
jobs: 3
status:
  untracked: false
link:
  overrides:
    - name: "@acme/ui"
      link: false
`)

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Jobs, "working directory file wins over the global one")
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Status.Untracked)
	// Lists are replaced, not merged, by later layers.
	assert.Equal(t, map[string]bool{"@acme/ui": false}, cfg.OverrideMap())
}

func TestLoad_explicitFileAndEnv(t *testing.T) {
	opts := isolated(t)
	write(t, filepath.Join(opts.WorkDir, ".siblink.yaml"), "jobs: 3\n")
	opts.File = filepath.Join(t.TempDir(), "custom.yml")
	write(t, opts.File, "jobs: 5\nnoop: true\n")
	t.Setenv("SIBLINK_JOBS", "7")
	t.Setenv("SIBLINK_STATUS_UNTRACKED", "false")

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Jobs)
	assert.True(t, cfg.Noop)
	assert.False(t, cfg.Status.Untracked)
}

func TestLoad_errors(t *testing.T) {
	opts := isolated(t)
	write(t, filepath.Join(opts.WorkDir, ".siblink.yaml"), "jobs: [\n")
	_, err := Load(opts)
	assert.ErrorContains(t, err, "failed to load config")

	opts = isolated(t)
	opts.File = filepath.Join(t.TempDir(), "settings.ini")
	write(t, opts.File, "jobs=2\n")
	_, err = Load(opts)
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoad_jobsFloor(t *testing.T) {
	opts := isolated(t)
	write(t, filepath.Join(opts.WorkDir, ".siblink.yaml"), "jobs: 0\n")
	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Jobs)
}

func TestAddOverrides(t *testing.T) {
	cfg := &Config{Link: LinkConfig{Overrides: []Override{{Name: "a", Link: false}}}}
	require.NoError(t, cfg.AddOverrides(map[string]string{"a": "true", "b": "false"}))
	assert.Equal(t, map[string]bool{"a": true, "b": false}, cfg.OverrideMap())

	assert.Error(t, cfg.AddOverrides(map[string]string{"c": "maybe"}))
}
