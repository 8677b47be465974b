package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	root := t.TempDir()
	want := Config{SpecDir: "test/unit", Suffix: "_test_spec.rb", Database: "db/outline.db"}
	require.NoError(t, Save(root, want))

	got, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_FillsBlankFields(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	require.NoError(t, os.WriteFile(Path(root), []byte("spec_dir: specs\n"), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "specs", cfg.SpecDir)
	assert.Equal(t, DefaultSuffix, cfg.Suffix)
	assert.Equal(t, DefaultDatabase, cfg.Database)
}

func TestLoad_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0o755))
	require.NoError(t, os.WriteFile(Path(root), []byte("spec_dir: [unclosed\n"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestIsSpecFile(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.IsSpecFile("spec/models/user_spec.rb"))
	assert.True(t, cfg.IsSpecFile("/abs/path/a_spec.rb"))
	assert.False(t, cfg.IsSpecFile("app/models/user.rb"))
	assert.False(t, cfg.IsSpecFile("spec/spec_helper.rb"))
	assert.False(t, cfg.IsSpecFile(""))
}
