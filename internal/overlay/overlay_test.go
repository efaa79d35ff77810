package overlay_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ciplan/internal/models"
	"ciplan/internal/overlay"
	"ciplan/internal/registry"
)

func defaultRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(registry.Default())
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return reg
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"do-not-test", "do_not_test"},
		{"Do Not Test", "do_not_test"},
		{" DO_NOT_TEST ", "do_not_test"},
		{"ci--set__arm", "ci_set_arm"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := overlay.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupNormalizationInsensitive(t *testing.T) {
	ov, err := overlay.New(defaultRegistry(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	base, ok := ov.Lookup("do not test")
	if !ok {
		t.Fatal("built-in tag config not found")
	}

	for _, spelling := range []string{"do-not-test", "Do Not Test", " DO_NOT_TEST "} {
		cfg, ok := ov.Lookup(spelling)
		if !ok {
			t.Errorf("Lookup(%q): not found", spelling)
			continue
		}
		if len(cfg.RunJobs) != len(base.RunJobs) || cfg.RunJobs[0] != base.RunJobs[0] {
			t.Errorf("Lookup(%q) resolved to a different config", spelling)
		}
	}

	if _, ok := ov.Lookup("no-such-tag"); ok {
		t.Error("unknown tag must miss")
	}
}

func TestNewRejectsUnknownJobReference(t *testing.T) {
	_, err := overlay.New(defaultRegistry(t), map[string]models.LabelConfig{
		"custom": {RunJobs: []string{"ghost job"}},
	})
	if err == nil {
		t.Fatal("expected error for unknown job reference")
	}
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Kind != models.ErrUnknownJobRef {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	writeFile("a.yaml", `labels:
  perf only:
    run_jobs: ["Performance comparison (release)"]
`)
	writeFile("b.yaml", `labels:
  arm-smoke:
    run_jobs: ["Style check", "package_aarch64"]
`)
	writeFile("ignored.txt", "not yaml")

	loaded, err := overlay.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}

	ov, err := overlay.New(defaultRegistry(t), loaded)
	if err != nil {
		t.Fatalf("New with loaded entries: %v", err)
	}

	cfg, ok := ov.Lookup("PERF-ONLY")
	if !ok {
		t.Fatal("loaded label not found via normalized lookup")
	}
	if len(cfg.RunJobs) != 1 || cfg.RunJobs[0] != registry.JobPerformanceAMD {
		t.Errorf("unexpected run jobs: %v", cfg.RunJobs)
	}
}

func TestLoadDirInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("labels: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := overlay.LoadDir(context.Background(), dir); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadDirMissing(t *testing.T) {
	if _, err := overlay.LoadDir(context.Background(), "/nonexistent/overlays"); err == nil {
		t.Error("expected error for missing directory")
	}
}
