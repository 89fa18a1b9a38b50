package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijm11/becas-extractor/pkg/validate"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, validate.DefaultMinLeaves, cfg.Validator.MinLeaves)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "becas.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
input_dir = "docs"
workers = 8

[validator]
min_leaves = 70
max_leaves = 90
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.InputDir)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 70, cfg.Validator.MinLeaves)
	assert.Equal(t, 90, cfg.Validator.MaxLeaves)

	// Untouched keys keep their defaults.
	assert.Equal(t, Default().OutputDir, cfg.OutputDir)
	assert.True(t, cfg.TruncatePrograms)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "becas.toml")
	require.NoError(t, os.WriteFile(path, []byte("workers = 0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestLoadRejectsInvertedValidatorRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "becas.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[validator]
min_leaves = 90
max_leaves = 70
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range inverted")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "becas.toml")

	want := Default()
	want.Workers = 2
	want.RegistryPath = "registry.yaml"
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "becas.toml")
	require.NoError(t, Default().Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
