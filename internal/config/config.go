// Package config persists the player's UI-facing settings (tempo baseline,
// notation, voicing, instrument, font, window geometry, recent files) to a
// YAML file, grounded on the same gopkg.in/yaml.v3 shape the rest of the
// toolchain already persists track files with.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// maxRecentFiles bounds the recent-files list per the collaborator contract.
const maxRecentFiles = 10

// PlayerConfig is the persisted settings object the caller reads to set up
// playback (initial tempo, voicing); nothing in the core mutates ambient
// globals.
type PlayerConfig struct {
	InitialBPM        float64  `yaml:"initial_bpm"`
	Notation          string   `yaml:"notation"` // "american", "european", "roman"
	Voicing           string   `yaml:"voicing"`  // "piano", "guitar"
	InstrumentProgram int      `yaml:"instrument_program"`
	FontFamily        string   `yaml:"font_family"`
	FontSize          int      `yaml:"font_size"`
	WindowGeometry    string   `yaml:"window_geometry"`
	RecentFiles       []string `yaml:"recent_files,omitempty"`
}

// Default returns the baseline configuration a fresh install starts from.
func Default() PlayerConfig {
	return PlayerConfig{
		InitialBPM: 120,
		Notation:   "american",
		Voicing:    "piano",
		FontFamily: "monospace",
		FontSize:   14,
	}
}

// Load reads and parses a PlayerConfig from filename. A missing file is not
// an error: the caller gets Default() back.
func Load(filename string) (PlayerConfig, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return PlayerConfig{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PlayerConfig{}, err
	}
	return cfg, nil
}

// Save writes cfg to filename as YAML.
func Save(filename string, cfg PlayerConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// PushRecentFile records path as the most recently opened file, moving it
// to the front and trimming the list to maxRecentFiles.
func (c *PlayerConfig) PushRecentFile(path string) {
	filtered := make([]string, 0, len(c.RecentFiles)+1)
	filtered = append(filtered, path)
	for _, p := range c.RecentFiles {
		if p != path {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) > maxRecentFiles {
		filtered = filtered[:maxRecentFiles]
	}
	c.RecentFiles = filtered
}
