// Package planner turns a trigger context into the concrete set of jobs to
// run, resolving random buckets to single representatives and attaching a
// stage to every selected job.
package planner

import (
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"ciplan/internal/models"
	"ciplan/internal/overlay"
	"ciplan/internal/registry"
)

// PickFunc selects an index in [0, n). It is the planner's only source of
// nondeterminism; tests inject a fixed function, production uses a seeded
// generator owned by the planner (never the global one).
type PickFunc func(n int) int

// Option configures a Planner.
type Option func(*Planner)

// WithOverlay supplies the label overlay consulted for tag-driven subset
// overrides. Without one, active labels are ignored.
func WithOverlay(ov *overlay.Overlay) Option {
	return func(p *Planner) { p.overlay = ov }
}

// WithSeed seeds the planner's own random generator.
func WithSeed(seed int64) Option {
	return func(p *Planner) {
		rng := rand.New(rand.NewSource(seed))
		p.pick = rng.Intn
	}
}

// WithPickFunc replaces the randomness source entirely.
func WithPickFunc(pick PickFunc) Option {
	return func(p *Planner) { p.pick = pick }
}

// Planner resolves workflow plans against an immutable registry.
type Planner struct {
	reg     *registry.Registry
	overlay *overlay.Overlay
	pick    PickFunc
}

// New creates a planner for the given registry.
func New(reg *registry.Registry, opts ...Option) *Planner {
	p := &Planner{reg: reg}
	for _, opt := range opts {
		opt(p)
	}
	if p.pick == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		p.pick = rng.Intn
	}
	return p
}

// Plan resolves the job set for trigger:
//
//   - merge-queue runs get the curated merge-queue list;
//   - docs-only runs get the curated docs list;
//   - otherwise every registry job is a candidate, minus the merge-queue
//     list on master (those already passed in the queue), unless an active
//     label resolves through the overlay, in which case the union of the
//     matched label subsets replaces the default selection.
//
// Jobs sharing a random-bucket tag are mutually exclusive alternatives:
// exactly one member per bucket is selected and recorded in BucketPicks.
func (p *Planner) Plan(trigger models.TriggerContext) *models.Plan {
	var candidates []string
	switch {
	case trigger.IsMergeQueue:
		candidates = p.reg.MergeQueueJobs()
	case trigger.IsDocsOnly:
		candidates = p.reg.DocsOnlyJobs()
	default:
		if override, ok := p.labelOverride(trigger.Labels); ok {
			candidates = override
			break
		}
		mq := make(map[string]struct{})
		if trigger.IsMasterBranch {
			for _, name := range p.reg.MergeQueueJobs() {
				mq[name] = struct{}{}
			}
		}
		for _, name := range p.reg.Jobs() {
			if _, ok := mq[name]; ok {
				continue
			}
			candidates = append(candidates, name)
		}
	}

	plan := &models.Plan{Jobs: make(map[string]models.PlannedJob, len(candidates))}

	// Partition: bucketless jobs are included unconditionally, bucketed jobs
	// are grouped for the random draw.
	buckets := make(map[string][]string)
	for _, name := range candidates {
		job, ok := p.reg.Job(name)
		if !ok {
			continue
		}
		if job.RandomBucket != "" {
			buckets[job.RandomBucket] = append(buckets[job.RandomBucket], name)
			continue
		}
		plan.Jobs[name] = models.PlannedJob{Job: job, Stage: p.reg.Stage(name)}
	}

	if len(buckets) > 0 {
		plan.BucketPicks = make(map[string]string, len(buckets))
		tags := make([]string, 0, len(buckets))
		for tag := range buckets {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			members := buckets[tag]
			name := members[p.pick(len(members))]
			slog.Info("picked job from randomization bucket", "bucket", tag, "job", name)
			job, _ := p.reg.Job(name)
			plan.Jobs[name] = models.PlannedJob{Job: job, Stage: p.reg.Stage(name)}
			plan.BucketPicks[tag] = name
		}
	}

	return plan
}

// labelOverride resolves the active labels through the overlay and returns
// the union of the matched subsets in first-seen order. Labels with no
// overlay entry are skipped; with no matches at all, default selection
// applies.
func (p *Planner) labelOverride(labels []string) ([]string, bool) {
	if p.overlay == nil {
		return nil, false
	}
	var union []string
	seen := make(map[string]struct{})
	matched := false
	for _, label := range labels {
		cfg, ok := p.overlay.Lookup(label)
		if !ok {
			continue
		}
		matched = true
		slog.Debug("label override matched", "label", label, "jobs", len(cfg.RunJobs))
		for _, name := range cfg.RunJobs {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			union = append(union, name)
		}
	}
	return union, matched
}
