package config

import (
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config holds the CLI settings parsed from ciplan.toml.
type Config struct {
	LogLevel   string  `toml:"log_level"`
	Format     string  `toml:"format"` // "yaml" or "json"
	OverlayDir string  `toml:"overlay_dir,omitempty"`
	Planner    Planner `toml:"planner"`
}

// Planner holds planner-specific settings.
type Planner struct {
	Seed *int64 `toml:"seed,omitempty"` // nil = time-seeded
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		LogLevel: "info",
		Format:   "yaml",
	}
}

// Load parses a ciplan.toml from the given filesystem. Missing file is not
// an error; defaults apply.
func Load(fsys fs.FS, path string) (Config, error) {
	cfg := Default()

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Format {
	case "yaml", "json":
	default:
		return cfg, fmt.Errorf("unsupported output format: %q", cfg.Format)
	}

	return cfg, nil
}
