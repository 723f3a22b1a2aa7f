package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.InitialBPM = 96
	cfg.Voicing = "guitar"
	cfg.PushRecentFile("a.chordsheet")
	cfg.PushRecentFile("b.chordsheet")

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPushRecentFileDedupesAndCaps(t *testing.T) {
	cfg := Default()
	for i := 0; i < 15; i++ {
		cfg.PushRecentFile(filepath.Join("songs", string(rune('a'+i))+".chordsheet"))
	}
	assert.Len(t, cfg.RecentFiles, maxRecentFiles)

	target := cfg.RecentFiles[3]
	cfg.PushRecentFile(target)
	assert.Equal(t, target, cfg.RecentFiles[0])
}
