package models

// JobKind classifies a job for stage resolution and validation.
type JobKind string

const (
	KindBuild      JobKind = "build"
	KindTest       JobKind = "test"
	KindDoc        JobKind = "docs"
	KindStyleCheck JobKind = "style_check"
)

// Runner identifies the machine pool a job is scheduled on.
type Runner string

const (
	RunnerBuilder         Runner = "builder"
	RunnerBuilderARM      Runner = "builder-aarch64"
	RunnerFuncTester      Runner = "func-tester"
	RunnerFuncTesterARM   Runner = "func-tester-aarch64"
	RunnerStressTester    Runner = "stress-tester"
	RunnerStyleChecker    Runner = "style-checker"
	RunnerStyleCheckerARM Runner = "style-checker-aarch64"
	RunnerFuzzerUnit      Runner = "fuzzer-unit-tester"
)

// Stage is a coarse ordering bucket controlling when a job may start
// relative to others in a workflow.
type Stage string

const (
	StageNA      Stage = "NA"
	StageBuilds1 Stage = "Builds_1"
	StageBuilds2 Stage = "Builds_2"
	StageTests1  Stage = "Tests_1"
	StageTests3  Stage = "Tests_3"
)

// DigestConfig describes which inputs contribute to a job's result digest.
// The resolver passes it through untouched; digest computation happens
// elsewhere.
type DigestConfig struct {
	IncludePaths []string `yaml:"include_paths,omitempty" json:"include_paths,omitempty"`
	ExcludeFiles []string `yaml:"exclude_files,omitempty" json:"exclude_files,omitempty"`
	DockerImages []string `yaml:"docker,omitempty" json:"docker,omitempty"`
}

// BuildConfig carries the compiler and packaging attributes of a build job.
type BuildConfig struct {
	Compiler         string `yaml:"compiler" json:"compiler"`
	Sanitizer        string `yaml:"sanitizer,omitempty" json:"sanitizer,omitempty"`
	PackageType      string `yaml:"package_type" json:"package_type"`
	DebugBuild       bool   `yaml:"debug_build,omitempty" json:"debug_build,omitempty"`
	Coverage         bool   `yaml:"coverage,omitempty" json:"coverage,omitempty"`
	Tidy             bool   `yaml:"tidy,omitempty" json:"tidy,omitempty"`
	AdditionalPkgs   bool   `yaml:"additional_pkgs,omitempty" json:"additional_pkgs,omitempty"`
	SparseCheckout   bool   `yaml:"sparse_checkout,omitempty" json:"sparse_checkout,omitempty"`
	StaticBinaryName string `yaml:"static_binary_name,omitempty" json:"static_binary_name,omitempty"`
	Comment          string `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// Job is a single unit of CI work. Jobs are constructed once from the static
// definitions and are read-only afterwards. Build must be non-nil exactly
// when Kind is KindBuild; the registry enforces this at construction.
type Job struct {
	Name                    string        `yaml:"name" json:"name"`
	Kind                    JobKind       `yaml:"kind" json:"kind"`
	RequiredBuilds          []string      `yaml:"required_builds,omitempty" json:"required_builds,omitempty"`
	RandomBucket            string        `yaml:"random_bucket,omitempty" json:"random_bucket,omitempty"`
	RunByLabel              string        `yaml:"run_by_label,omitempty" json:"run_by_label,omitempty"`
	PROnly                  bool          `yaml:"pr_only,omitempty" json:"pr_only,omitempty"`
	ReleaseOnly             bool          `yaml:"release_only,omitempty" json:"release_only,omitempty"`
	RequiredOnReleaseBranch bool          `yaml:"required_on_release_branch,omitempty" json:"required_on_release_branch,omitempty"`
	RunAlways               bool          `yaml:"run_always,omitempty" json:"run_always,omitempty"`
	TimeoutSec              int           `yaml:"timeout_sec,omitempty" json:"timeout_sec,omitempty"`
	RunnerType              Runner        `yaml:"runner_type" json:"runner_type"`
	Digest                  *DigestConfig `yaml:"digest,omitempty" json:"digest,omitempty"`
	Build                   *BuildConfig  `yaml:"build_config,omitempty" json:"build_config,omitempty"`
}
