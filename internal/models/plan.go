package models

// LabelConfig is the job subset that a tag/label selects instead of the
// default selection.
type LabelConfig struct {
	RunJobs []string `yaml:"run_jobs" json:"run_jobs"`
}

// TriggerContext holds the per-resolution facts about the triggering event.
// It is assembled by the caller from repository and PR metadata and is not
// persisted.
type TriggerContext struct {
	IsMergeQueue   bool     `yaml:"is_merge_queue" json:"is_merge_queue"`
	IsDocsOnly     bool     `yaml:"is_docs_only" json:"is_docs_only"`
	IsMasterBranch bool     `yaml:"is_master_branch" json:"is_master_branch"`
	Labels         []string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// PlannedJob is a selected job together with its resolved stage.
type PlannedJob struct {
	Job   Job   `yaml:"job" json:"job"`
	Stage Stage `yaml:"stage" json:"stage"`
}

// Plan maps job names to their resolved configuration and stage. A plan is
// produced fresh per resolution and never mutated after construction.
// BucketPicks records, for each random bucket that contributed a job, which
// member was chosen.
type Plan struct {
	Jobs        map[string]PlannedJob `yaml:"jobs" json:"jobs"`
	BucketPicks map[string]string     `yaml:"bucket_picks,omitempty" json:"bucket_picks,omitempty"`
}
