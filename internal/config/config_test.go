package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Bodies, cfg.Bodies)
	assert.Equal(t, def.Integrator, cfg.Integrator)
	assert.Equal(t, def.Sink, cfg.Sink)
	assert.Equal(t, def.BucketFrames, cfg.BucketFrames)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nbody.yaml")
	contents := "bodies: 42\nintegrator: rk4\nsink: sqlite\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Bodies)
	assert.Equal(t, IntegratorRK4, cfg.Integrator)
	assert.Equal(t, SinkSQLite, cfg.Sink)
	// fields absent from the file keep their code default.
	assert.Equal(t, Default().Years, cfg.Years)
}

func TestLoadFlagsBoundAheadOfLoadOverrideFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nbody.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bodies: 42\n"), 0644))

	v := viper.New()
	v.Set("bodies", 99) // simulates a flag bound and set by the caller

	cfg, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.Bodies, "an explicitly set value outranks the file's")
}

func TestLoadMissingConfigFileErrors(t *testing.T) {
	_, err := Load(viper.New(), "/nonexistent/path/nbody.yaml")
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bodies: [this is not: valid\n"), 0644))

	_, err := Load(viper.New(), path)
	assert.Error(t, err)
}
