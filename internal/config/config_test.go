package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Sleeping, cfg.State())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 20, cfg.DwellLimit)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.SetState(Thinking)
	cfg.DBPath = "/tmp/x.db"
	cfg.TimeScopeHours = 48
	require.NoError(t, cfg.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Thinking, loaded.State())
	assert.Equal(t, "/tmp/x.db", loaded.DBPath)
	assert.Equal(t, 48, loaded.TimeScopeHours)
}

func TestDreamingNeverPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.SetState(Dreaming)
	require.NoError(t, cfg.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Sleeping, loaded.State())
}

func TestUnknownStateNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mind_state: confused\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Sleeping, cfg.State())
}
