package planner_test

import (
	"sort"
	"testing"

	"ciplan/internal/models"
	"ciplan/internal/overlay"
	"ciplan/internal/planner"
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

func planNames(p *models.Plan) []string {
	names := make([]string, 0, len(p.Jobs))
	for name := range p.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestPlanMergeQueue(t *testing.T) {
	reg := defaultRegistry(t)
	p := planner.New(reg, planner.WithSeed(1))

	plan := p.Plan(models.TriggerContext{IsMergeQueue: true})

	want := reg.MergeQueueJobs()
	sort.Strings(want)
	got := planNames(plan)
	if len(got) != len(want) {
		t.Fatalf("merge-queue plan has %d jobs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plan job %q, want %q", got[i], want[i])
		}
	}
}

func TestPlanDocsOnly(t *testing.T) {
	reg := defaultRegistry(t)
	plan := planner.New(reg, planner.WithSeed(1)).Plan(models.TriggerContext{IsDocsOnly: true})

	want := reg.DocsOnlyJobs()
	sort.Strings(want)
	got := planNames(plan)
	if len(got) != len(want) {
		t.Fatalf("docs-only plan has %d jobs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("plan job %q, want %q", got[i], want[i])
		}
	}
}

func TestPlanMasterExcludesMergeQueueJobs(t *testing.T) {
	reg := defaultRegistry(t)
	plan := planner.New(reg, planner.WithSeed(1)).Plan(models.TriggerContext{IsMasterBranch: true})

	for _, name := range reg.MergeQueueJobs() {
		if _, ok := plan.Jobs[name]; ok {
			t.Errorf("master plan must not contain merge-queue job %q", name)
		}
	}
	if _, ok := plan.Jobs[registry.BuildPackageRelease]; !ok {
		t.Error("master plan missing ordinary build job")
	}
}

func TestPlanBucketsPickExactlyOne(t *testing.T) {
	reg := defaultRegistry(t)

	members := map[string][]string{}
	for _, name := range reg.Jobs() {
		job, _ := reg.Job(name)
		if job.RandomBucket != "" {
			members[job.RandomBucket] = append(members[job.RandomBucket], name)
		}
	}
	if len(members) == 0 {
		t.Fatal("default registry has no random buckets")
	}

	for seed := int64(0); seed < 20; seed++ {
		plan := planner.New(reg, planner.WithSeed(seed)).Plan(models.TriggerContext{})

		for bucket, jobs := range members {
			var present []string
			for _, name := range jobs {
				if _, ok := plan.Jobs[name]; ok {
					present = append(present, name)
				}
			}
			if len(present) != 1 {
				t.Fatalf("seed %d: bucket %q contributed %v, want exactly one member", seed, bucket, present)
			}
			if plan.BucketPicks[bucket] != present[0] {
				t.Errorf("seed %d: BucketPicks[%s] = %q, plan contains %q", seed, bucket, plan.BucketPicks[bucket], present[0])
			}
		}
	}
}

func TestPlanEveryBucketMemberSelectable(t *testing.T) {
	reg := defaultRegistry(t)

	bucketSizes := map[string]int{}
	for _, name := range reg.Jobs() {
		job, _ := reg.Job(name)
		if job.RandomBucket != "" {
			bucketSizes[job.RandomBucket]++
		}
	}

	// Force the picker through every index; every bucket member must be
	// reachable with some pick value.
	seen := map[string]map[string]struct{}{}
	for idx := 0; idx < 5; idx++ {
		plan := planner.New(reg, planner.WithPickFunc(func(n int) int {
			if idx < n {
				return idx
			}
			return n - 1
		})).Plan(models.TriggerContext{})

		for bucket, pick := range plan.BucketPicks {
			job, ok := reg.Job(pick)
			if !ok || job.RandomBucket != bucket {
				t.Errorf("pick %d: BucketPicks[%s] = %q is not a member of the bucket", idx, bucket, pick)
			}
			if seen[bucket] == nil {
				seen[bucket] = map[string]struct{}{}
			}
			seen[bucket][pick] = struct{}{}
		}
	}
	for bucket, size := range bucketSizes {
		if got := len(seen[bucket]); got != size {
			t.Errorf("bucket %q: %d of %d members ever selected", bucket, got, size)
		}
	}

	// With a fixed picker the whole resolution is deterministic.
	first := planner.New(reg, planner.WithPickFunc(func(n int) int { return 0 })).Plan(models.TriggerContext{})
	second := planner.New(reg, planner.WithPickFunc(func(n int) int { return 0 })).Plan(models.TriggerContext{})
	a, b := planNames(first), planNames(second)
	if len(a) != len(b) {
		t.Fatalf("deterministic picker produced different plan sizes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("deterministic picker produced different plans: %q vs %q", a[i], b[i])
		}
	}
}

func TestPlanLabelOverride(t *testing.T) {
	reg := defaultRegistry(t)
	ov, err := overlay.New(reg)
	if err != nil {
		t.Fatalf("overlay.New: %v", err)
	}
	p := planner.New(reg, planner.WithOverlay(ov), planner.WithSeed(1))

	plan := p.Plan(models.TriggerContext{Labels: []string{"Do Not Test"}})
	if len(plan.Jobs) != 1 {
		t.Fatalf("do-not-test plan has %d jobs, want 1: %v", len(plan.Jobs), planNames(plan))
	}
	if _, ok := plan.Jobs[registry.JobStyleCheck]; !ok {
		t.Error("do-not-test plan must contain the style check")
	}

	// Unmatched labels fall back to default selection.
	fallback := p.Plan(models.TriggerContext{Labels: []string{"totally unknown"}})
	if len(fallback.Jobs) <= 1 {
		t.Errorf("unknown label must not override selection, got %d jobs", len(fallback.Jobs))
	}

	// Multiple matched labels contribute the union of their subsets.
	union := p.Plan(models.TriggerContext{Labels: []string{"do-not-test", "CI Set ARM"}})
	for _, name := range []string{registry.JobStyleCheck, registry.BuildPackageAarch64, registry.JobIntegrationAarch64} {
		if _, ok := union.Jobs[name]; !ok {
			t.Errorf("union plan missing %q", name)
		}
	}
}

func TestPlanStagesAttached(t *testing.T) {
	reg := defaultRegistry(t)
	plan := planner.New(reg, planner.WithSeed(1)).Plan(models.TriggerContext{})

	for name, planned := range plan.Jobs {
		if planned.Stage != reg.Stage(name) {
			t.Errorf("job %q: plan stage %s, registry stage %s", name, planned.Stage, reg.Stage(name))
		}
		if planned.Job.Name != name {
			t.Errorf("plan key %q holds job %q", name, planned.Job.Name)
		}
	}
}
