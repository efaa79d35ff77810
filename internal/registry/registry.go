// Package registry builds the immutable, validated collection of job and
// build descriptors that workflow resolution runs against. A Registry is
// constructed once at startup via New and is read-only afterwards, so
// concurrent readers need no locking.
package registry

import (
	"fmt"
	"log/slog"

	"ciplan/internal/models"
)

// Registry is the validated job table plus the named subsets derived from it.
type Registry struct {
	jobs  map[string]models.Job
	order []string // declaration order, for deterministic iteration

	required   map[string]struct{}
	mqJobs     []string
	docsJobs   []string
	noStage    map[string]struct{}
	tagConfigs map[string]models.LabelConfig

	// builds that appear in some other job's required-build list
	consumedBuilds map[string]struct{}
}

// New validates the definitions and returns the registry. Any invariant
// violation is returned as a *models.ConfigError naming the offending job;
// a registry is never constructed from invalid definitions.
func New(defs Definitions) (*Registry, error) {
	r := &Registry{
		jobs:           make(map[string]models.Job, len(defs.Jobs)),
		order:          make([]string, 0, len(defs.Jobs)),
		required:       make(map[string]struct{}, len(defs.RequiredChecks)),
		noStage:        make(map[string]struct{}, len(defs.NoStageJobs)),
		tagConfigs:     make(map[string]models.LabelConfig, len(defs.TagConfigs)),
		consumedBuilds: make(map[string]struct{}),
	}

	for _, job := range defs.Jobs {
		if _, ok := r.jobs[job.Name]; ok {
			return nil, &models.ConfigError{Kind: models.ErrDuplicateJob, Job: job.Name}
		}
		if (job.Kind == models.KindBuild) != (job.Build != nil) {
			return nil, &models.ConfigError{
				Kind:   models.ErrKindConfigMismatch,
				Job:    job.Name,
				Detail: fmt.Sprintf("kind %q, build config present: %t", job.Kind, job.Build != nil),
			}
		}
		r.jobs[job.Name] = job
		r.order = append(r.order, job.Name)
	}

	for _, job := range defs.Jobs {
		for _, dep := range job.RequiredBuilds {
			ref, ok := r.jobs[dep]
			if !ok || ref.Kind != models.KindBuild {
				return nil, &models.ConfigError{
					Kind:   models.ErrUnknownBuildRef,
					Job:    job.Name,
					Detail: fmt.Sprintf("required build %q is not a declared build job", dep),
				}
			}
			r.consumedBuilds[dep] = struct{}{}
		}
	}

	buckets := make(map[string]int)
	for _, job := range defs.Jobs {
		if job.RandomBucket != "" {
			buckets[job.RandomBucket]++
		}
	}
	for bucket, n := range buckets {
		if n < 2 {
			return nil, &models.ConfigError{
				Kind:   models.ErrDegenerateBucket,
				Job:    bucket,
				Detail: fmt.Sprintf("random bucket has %d member(s), need at least 2", n),
			}
		}
	}

	for _, name := range defs.RequiredChecks {
		if _, ok := r.jobs[name]; !ok {
			return nil, &models.ConfigError{Kind: models.ErrUnknownRequiredCheck, Job: name}
		}
		r.required[name] = struct{}{}
	}

	resolve := func(list []string, where string) error {
		for _, name := range list {
			if _, ok := r.jobs[name]; !ok {
				return &models.ConfigError{
					Kind:   models.ErrUnknownJobRef,
					Job:    name,
					Detail: fmt.Sprintf("referenced from %s", where),
				}
			}
		}
		return nil
	}
	if err := resolve(defs.MergeQueueJobs, "merge-queue job list"); err != nil {
		return nil, err
	}
	if err := resolve(defs.DocsOnlyJobs, "docs-only job list"); err != nil {
		return nil, err
	}
	if err := resolve(defs.NoStageJobs, "no-stage job list"); err != nil {
		return nil, err
	}
	for tag, cfg := range defs.TagConfigs {
		if err := resolve(cfg.RunJobs, fmt.Sprintf("tag config %q", tag)); err != nil {
			return nil, err
		}
		r.tagConfigs[tag] = cfg
	}

	r.mqJobs = append(r.mqJobs, defs.MergeQueueJobs...)
	r.docsJobs = append(r.docsJobs, defs.DocsOnlyJobs...)
	for _, name := range defs.NoStageJobs {
		r.noStage[name] = struct{}{}
	}

	slog.Debug("registry built",
		"jobs", len(r.jobs),
		"required_checks", len(r.required),
		"random_buckets", len(buckets))
	return r, nil
}

// Job returns the descriptor for name, reporting whether it exists.
func (r *Registry) Job(name string) (models.Job, bool) {
	job, ok := r.jobs[name]
	return job, ok
}

// Jobs returns all job names in declaration order.
func (r *Registry) Jobs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// IsBuild reports whether name is a declared build job.
func (r *Registry) IsBuild(name string) bool {
	job, ok := r.jobs[name]
	return ok && job.Kind == models.KindBuild
}

// IsTest reports whether name is a test job. Docs checks count as tests;
// builds and the style check do not.
func (r *Registry) IsTest(name string) bool {
	job, ok := r.jobs[name]
	return ok && (job.Kind == models.KindTest || job.Kind == models.KindDoc)
}

// IsDoc reports whether name is the docs-check job.
func (r *Registry) IsDoc(name string) bool {
	job, ok := r.jobs[name]
	return ok && job.Kind == models.KindDoc
}

// JobParents returns the build jobs that name depends on, in declaration
// order. Unknown jobs and jobs without dependencies both return nil.
func (r *Registry) JobParents(name string) []string {
	job, ok := r.jobs[name]
	if !ok || len(job.RequiredBuilds) == 0 {
		return nil
	}
	out := make([]string, len(job.RequiredBuilds))
	copy(out, job.RequiredBuilds)
	return out
}

// RequiredBuildName returns the single build job that name depends on.
// Callers use it when the workflow wiring needs exactly one artifact; a job
// with zero or multiple required builds here is a bug in the static
// declarations, so the failure is a panic, not an error.
func (r *Registry) RequiredBuildName(name string) string {
	job, ok := r.jobs[name]
	if !ok {
		panic(fmt.Sprintf("required build lookup for undeclared job [%s]", name))
	}
	if len(job.RequiredBuilds) != 1 {
		panic(fmt.Sprintf("job [%s] has %d required builds, want exactly 1", name, len(job.RequiredBuilds)))
	}
	return job.RequiredBuilds[0]
}

// MergeQueueJobs returns the curated merge-queue job list.
func (r *Registry) MergeQueueJobs() []string {
	out := make([]string, len(r.mqJobs))
	copy(out, r.mqJobs)
	return out
}

// DocsOnlyJobs returns the curated docs-only job list.
func (r *Registry) DocsOnlyJobs() []string {
	out := make([]string, len(r.docsJobs))
	copy(out, r.docsJobs)
	return out
}

// TagConfigs returns the built-in label overrides, keyed by the tag spelling
// used in the definitions.
func (r *Registry) TagConfigs() map[string]models.LabelConfig {
	out := make(map[string]models.LabelConfig, len(r.tagConfigs))
	for tag, cfg := range r.tagConfigs {
		out[tag] = cfg
	}
	return out
}
