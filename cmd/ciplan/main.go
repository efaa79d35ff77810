// Command ciplan resolves the set of CI jobs to run for a trigger context
// and prints the resulting workflow plan.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ciplan/internal/config"
	"ciplan/internal/models"
	"ciplan/internal/overlay"
	"ciplan/internal/planner"
	"ciplan/internal/registry"
)

func main() {
	var (
		configPath = flag.String("config", "ciplan.toml", "path to ciplan.toml")
		mergeQueue = flag.Bool("merge-queue", false, "resolve for a merge-queue run")
		docsOnly   = flag.Bool("docs-only", false, "resolve for a docs-only change")
		master     = flag.Bool("master", false, "resolve for a master-branch push")
		labels     = flag.String("labels", "", "comma-separated active PR labels")
		overlayDir = flag.String("overlays", "", "directory with extra label overlay YAML files")
		seed       = flag.Int64("seed", -1, "randomization seed (-1 = time-based)")
		format     = flag.String("format", "", "output format: yaml or json")
		stageOf    = flag.String("stage", "", "print the stage of the named job and exit")
		required   = flag.String("required", "", "print whether the named check is required and exit")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *seed >= 0 {
		cfg.Planner.Seed = seed
	}
	if *overlayDir != "" {
		cfg.OverlayDir = *overlayDir
	}
	setupLogging(cfg.LogLevel)

	reg, err := registry.New(registry.Default())
	if err != nil {
		slog.Error("building job registry", "error", err)
		os.Exit(1)
	}

	if *stageOf != "" {
		if _, ok := reg.Job(*stageOf); !ok {
			slog.Error("unknown job", "job", *stageOf)
			os.Exit(1)
		}
		fmt.Println(reg.Stage(*stageOf))
		return
	}
	if *required != "" {
		fmt.Println(reg.IsRequired(*required))
		return
	}

	var extra []map[string]models.LabelConfig
	if cfg.OverlayDir != "" {
		loaded, err := overlay.LoadDir(context.Background(), cfg.OverlayDir)
		if err != nil {
			slog.Error("loading label overlays", "dir", cfg.OverlayDir, "error", err)
			os.Exit(1)
		}
		extra = append(extra, loaded)
	}
	ov, err := overlay.New(reg, extra...)
	if err != nil {
		slog.Error("building label overlay", "error", err)
		os.Exit(1)
	}

	opts := []planner.Option{planner.WithOverlay(ov)}
	if cfg.Planner.Seed != nil {
		opts = append(opts, planner.WithSeed(*cfg.Planner.Seed))
	}

	trigger := models.TriggerContext{
		IsMergeQueue:   *mergeQueue,
		IsDocsOnly:     *docsOnly,
		IsMasterBranch: *master,
	}
	if *labels != "" {
		for _, label := range strings.Split(*labels, ",") {
			trigger.Labels = append(trigger.Labels, strings.TrimSpace(label))
		}
	}

	plan := planner.New(reg, opts...).Plan(trigger)

	if err := render(os.Stdout, plan, cfg.Format); err != nil {
		slog.Error("rendering plan", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the TOML config; a missing file at the default path is
// fine, defaults apply.
func loadConfig(path string) (config.Config, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	cfg, err := config.Load(os.DirFS(dir), base)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func render(w io.Writer, plan *models.Plan, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	default:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	}
}
