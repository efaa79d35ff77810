package config_test

import (
	"testing"
	"testing/fstest"

	"ciplan/internal/config"
)

func TestLoad(t *testing.T) {
	data := `log_level = "debug"
format = "json"
overlay_dir = "ci/labels"

[planner]
seed = 42
`
	fsys := fstest.MapFS{
		"ciplan.toml": &fstest.MapFile{Data: []byte(data)},
	}

	cfg, err := config.Load(fsys, "ciplan.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Format)
	}
	if cfg.OverlayDir != "ci/labels" {
		t.Errorf("overlay dir = %q, want ci/labels", cfg.OverlayDir)
	}
	if cfg.Planner.Seed == nil || *cfg.Planner.Seed != 42 {
		t.Errorf("seed = %v, want 42", cfg.Planner.Seed)
	}
}

func TestLoadDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"ciplan.toml": &fstest.MapFile{Data: []byte("")},
	}

	cfg, err := config.Load(fsys, "ciplan.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.Format != "yaml" {
		t.Errorf("format = %q, want yaml", cfg.Format)
	}
	if cfg.Planner.Seed != nil {
		t.Errorf("seed = %v, want nil", cfg.Planner.Seed)
	}
}

func TestLoadBadFormat(t *testing.T) {
	fsys := fstest.MapFS{
		"ciplan.toml": &fstest.MapFile{Data: []byte(`format = "xml"`)},
	}

	if _, err := config.Load(fsys, "ciplan.toml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(fstest.MapFS{}, "ciplan.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}
