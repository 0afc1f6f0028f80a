package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UndoDepth != Default().UndoDepth {
		t.Errorf("UndoDepth = %d, want default", cfg.UndoDepth)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Collapse) != 1 || cfg.Collapse[0] != "coordinates" {
		t.Errorf("Collapse = %v", cfg.Collapse)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geoedit.toml")
	content := "undo_depth = 50\ncoalesce_ms = 250\ncollapse = [\"coordinates\", \"$root\"]\nwatch_files = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UndoDepth != 50 || cfg.CoalesceMS != 250 || !cfg.WatchFiles {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Collapse) != 2 || cfg.Collapse[1] != "$root" {
		t.Errorf("Collapse = %v", cfg.Collapse)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("undo_depth = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSanitizedClampsValues(t *testing.T) {
	c := Config{UndoDepth: -1, CoalesceMS: 0, DebounceMS: -5}.sanitized()
	def := Default()
	if c.UndoDepth != def.UndoDepth || c.CoalesceMS != def.CoalesceMS || c.DebounceMS != def.DebounceMS {
		t.Errorf("sanitized = %+v", c)
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(path, []byte("undo_depth = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	cfg, err := Load("ignored.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UndoDepth != 7 {
		t.Errorf("UndoDepth = %d, want 7 from env path", cfg.UndoDepth)
	}
}
