// Package config loads engine configuration from TOML. A missing file is
// not an error; every field has a default. The GEOEDIT_CONFIG environment
// variable overrides the config path.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath overrides the configuration file path when set.
const EnvConfigPath = "GEOEDIT_CONFIG"

// Config holds the tunable engine settings.
type Config struct {
	// UndoDepth bounds the undo stack; oldest entries drop on overflow.
	UndoDepth int `toml:"undo_depth"`

	// CoalesceMS is the undo coalescing window in milliseconds: rapid
	// same-kind edits inside the window share one undo step.
	CoalesceMS int `toml:"coalesce_ms"`

	// DebounceMS delays the reformat pass after raw input, coalescing
	// rapid keystrokes into one pass.
	DebounceMS int `toml:"debounce_ms"`

	// Collapse lists attribute names folded by default after load. The
	// sentinel "$root" collapses each whole feature.
	Collapse []string `toml:"collapse"`

	// WatchFiles enables reloading the document when the backing file
	// changes on disk.
	WatchFiles bool `toml:"watch_files"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		UndoDepth:  200,
		CoalesceMS: 500,
		DebounceMS: 150,
		Collapse:   []string{"coordinates"},
		WatchFiles: false,
	}
}

// Load reads configuration from path, falling back to defaults for a
// missing file or an empty path. GEOEDIT_CONFIG takes precedence over path.
func Load(path string) (Config, error) {
	if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg.sanitized(), nil
}

// sanitized clamps nonsense values back to defaults.
func (c Config) sanitized() Config {
	def := Default()
	if c.UndoDepth <= 0 {
		c.UndoDepth = def.UndoDepth
	}
	if c.CoalesceMS <= 0 {
		c.CoalesceMS = def.CoalesceMS
	}
	if c.DebounceMS < 0 {
		c.DebounceMS = def.DebounceMS
	}
	return c
}
