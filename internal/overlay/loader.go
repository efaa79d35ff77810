package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"ciplan/internal/models"
)

// overlayFile is the on-disk format of an operator-supplied overlay file:
//
//	labels:
//	  ci_set_arm:
//	    run_jobs: ["Style check", "package_aarch64"]
type overlayFile struct {
	Labels map[string]models.LabelConfig `yaml:"labels"`
}

// LoadDir reads every *.yaml/*.yml file in dir and merges their label
// entries. Files are parsed in parallel; entries from lexically later files
// win on normalized-key collisions.
func LoadDir(ctx context.Context, dir string) (map[string]models.LabelConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading overlay directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	// Each goroutine writes its own slot; merge order stays lexical.
	parsed := make([]map[string]models.LabelConfig, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading overlay file %s: %w", path, err)
			}
			var file overlayFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parsing overlay file %s: %w", path, err)
			}
			slog.Debug("loaded overlay file", "path", path, "labels", len(file.Labels))
			parsed[i] = file.Labels
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]models.LabelConfig)
	for _, labels := range parsed {
		for tag, cfg := range labels {
			merged[Normalize(tag)] = cfg
		}
	}
	return merged, nil
}
