package registry

import "ciplan/internal/models"

// Build job names. Builds and tests share one namespace; the registry
// rejects collisions at construction.
const (
	BuildPackageRelease  = "package_release"
	BuildPackageAarch64  = "package_aarch64"
	BuildPackageASan     = "package_asan"
	BuildPackageUBSan    = "package_ubsan"
	BuildPackageTSan     = "package_tsan"
	BuildPackageMSan     = "package_msan"
	BuildPackageDebug    = "package_debug"
	BuildPackageCoverage = "package_release_coverage"
	BuildBinaryRelease   = "binary_release"
	BuildBinaryTidy      = "binary_tidy"
	BuildBinaryAarch64   = "binary_aarch64"
	BuildFuzzers         = "fuzzers"
)

// Test and check job names.
const (
	JobStyleCheck = "Style check"
	JobFastTest   = "Fast test"
	JobDocsCheck  = "Docs check"
	JobBuildCheck = "Builds"

	JobInstallTestAMD = "Install packages (release)"
	JobInstallTestARM = "Install packages (aarch64)"

	JobStatelessRelease  = "Stateless tests (release)"
	JobStatelessASan     = "Stateless tests (asan)"
	JobStatelessTSan     = "Stateless tests (tsan)"
	JobStatelessMSan     = "Stateless tests (msan)"
	JobStatelessUBSan    = "Stateless tests (ubsan)"
	JobStatelessDebug    = "Stateless tests (debug)"
	JobStatelessCoverage = "Stateless tests (coverage)"
	JobStatelessAarch64  = "Stateless tests (aarch64)"

	JobStatefulRelease = "Stateful tests (release)"
	JobStatefulASan    = "Stateful tests (asan)"
	JobStatefulTSan    = "Stateful tests (tsan)"
	JobStatefulMSan    = "Stateful tests (msan)"
	JobStatefulUBSan   = "Stateful tests (ubsan)"
	JobStatefulDebug   = "Stateful tests (debug)"
	JobStatefulAarch64 = "Stateful tests (aarch64)"

	JobParReplRelease = "Stateful tests (release, parallel replicas)"
	JobParReplASan    = "Stateful tests (asan, parallel replicas)"
	JobParReplMSan    = "Stateful tests (msan, parallel replicas)"
	JobParReplUBSan   = "Stateful tests (ubsan, parallel replicas)"
	JobParReplTSan    = "Stateful tests (tsan, parallel replicas)"

	JobStressDebug = "Stress test (debug)"
	JobStressTSan  = "Stress test (tsan)"
	JobStressASan  = "Stress test (asan)"
	JobStressUBSan = "Stress test (ubsan)"
	JobStressMSan  = "Stress test (msan)"

	JobUpgradeASan  = "Upgrade check (asan)"
	JobUpgradeTSan  = "Upgrade check (tsan)"
	JobUpgradeMSan  = "Upgrade check (msan)"
	JobUpgradeDebug = "Upgrade check (debug)"

	JobIntegrationRelease = "Integration tests (release)"
	JobIntegrationASan    = "Integration tests (asan)"
	JobIntegrationTSan    = "Integration tests (tsan)"
	JobIntegrationAarch64 = "Integration tests (aarch64)"

	JobUnitRelease = "Unit tests (release)"
	JobUnitASan    = "Unit tests (asan)"
	JobUnitTSan    = "Unit tests (tsan)"
	JobUnitMSan    = "Unit tests (msan)"
	JobUnitUBSan   = "Unit tests (ubsan)"

	JobCompatibilityAMD = "Compatibility check (release)"
	JobCompatibilityARM = "Compatibility check (aarch64)"

	JobPerformanceAMD = "Performance comparison (release)"

	JobJepsenKeeper = "Jepsen keeper check"
	JobJepsenServer = "Jepsen server check"

	JobLibFuzzer = "libFuzzer tests"

	JobBugfixValidate = "Bugfix validation"
)

// Well-known labels with built-in overrides.
const (
	TagDoNotTest      = "do not test"
	TagCISetARM       = "ci_set_arm"
	TagCISetRequired  = "ci_set_required"
	TagCISetBuilds    = "ci_set_builds"
	TagCISetSync      = "ci_set_sync"
	TagLibFuzzer      = "libFuzzer"
	TagJepsenTest     = "jepsen-test"
	TagBugfixValidate = "pr-bugfix"
)

// Definitions is the declarative input to the registry factory: the full job
// table plus every named job subset. New validates all cross-references.
type Definitions struct {
	Jobs           []models.Job
	RequiredChecks []string
	MergeQueueJobs []string
	DocsOnlyJobs   []string
	NoStageJobs    []string
	TagConfigs     map[string]models.LabelConfig
}

type jobOpt func(*models.Job)

func inBucket(bucket string) jobOpt {
	return func(j *models.Job) { j.RandomBucket = bucket }
}

func prOnly(j *models.Job) { j.PROnly = true }

func releaseOnly(j *models.Job) { j.ReleaseOnly = true }

func requiredOnReleaseBranch(j *models.Job) { j.RequiredOnReleaseBranch = true }

func runByLabel(label string) jobOpt {
	return func(j *models.Job) { j.RunByLabel = label }
}

func withTimeout(sec int) jobOpt {
	return func(j *models.Job) { j.TimeoutSec = sec }
}

var buildDigest = &models.DigestConfig{
	IncludePaths: []string{"./src", "./contrib", "./cmake", "CMakeLists.txt"},
	ExcludeFiles: []string{".md"},
	DockerImages: []string{"ci/binary-builder"},
}

func build(name string, cfg models.BuildConfig) models.Job {
	bc := cfg
	return models.Job{
		Name:       name,
		Kind:       models.KindBuild,
		TimeoutSec: 3 * 3600,
		RunnerType: models.RunnerBuilder,
		Digest:     buildDigest,
		Build:      &bc,
	}
}

func test(name string, runner models.Runner, requires string, opts ...jobOpt) models.Job {
	j := models.Job{
		Name:       name,
		Kind:       models.KindTest,
		TimeoutSec: 2 * 3600,
		RunnerType: runner,
	}
	if requires != "" {
		j.RequiredBuilds = []string{requires}
	}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

// Default returns the production job table. This is static declarative data;
// the control flow lives in the registry and planner.
func Default() Definitions {
	jobs := []models.Job{
		build(BuildPackageRelease, models.BuildConfig{
			Compiler:         "clang-18",
			PackageType:      "deb",
			StaticBinaryName: "amd64",
			AdditionalPkgs:   true,
		}),
		build(BuildPackageAarch64, models.BuildConfig{
			Compiler:         "clang-18-aarch64",
			PackageType:      "deb",
			StaticBinaryName: "aarch64",
			AdditionalPkgs:   true,
		}),
		build(BuildPackageASan, models.BuildConfig{
			Compiler:    "clang-18",
			Sanitizer:   "address",
			PackageType: "deb",
		}),
		build(BuildPackageUBSan, models.BuildConfig{
			Compiler:    "clang-18",
			Sanitizer:   "undefined",
			PackageType: "deb",
		}),
		build(BuildPackageTSan, models.BuildConfig{
			Compiler:    "clang-18",
			Sanitizer:   "thread",
			PackageType: "deb",
		}),
		build(BuildPackageMSan, models.BuildConfig{
			Compiler:    "clang-18",
			Sanitizer:   "memory",
			PackageType: "deb",
		}),
		build(BuildPackageDebug, models.BuildConfig{
			Compiler:       "clang-18",
			DebugBuild:     true,
			PackageType:    "deb",
			SparseCheckout: true,
		}),
		build(BuildPackageCoverage, models.BuildConfig{
			Compiler:    "clang-18",
			Coverage:    true,
			PackageType: "deb",
		}),
		build(BuildBinaryRelease, models.BuildConfig{
			Compiler:    "clang-18",
			PackageType: "binary",
		}),
		build(BuildBinaryTidy, models.BuildConfig{
			Compiler:         "clang-18",
			DebugBuild:       true,
			PackageType:      "binary",
			StaticBinaryName: "debug-amd64",
			Tidy:             true,
			Comment:          "clang-tidy is used for static analysis",
		}),
		build(BuildBinaryAarch64, models.BuildConfig{
			Compiler:    "clang-18-aarch64",
			PackageType: "binary",
		}),
		func() models.Job {
			j := build(BuildFuzzers, models.BuildConfig{
				Compiler:    "clang-18",
				PackageType: "fuzzers",
			})
			j.RunByLabel = TagLibFuzzer
			return j
		}(),

		{
			Name:       JobBuildCheck,
			Kind:       models.KindTest,
			TimeoutSec: 600,
			RunnerType: models.RunnerStyleChecker,
		},

		test(JobInstallTestAMD, models.RunnerStyleChecker, BuildPackageRelease),
		test(JobInstallTestARM, models.RunnerStyleCheckerARM, BuildPackageAarch64),

		test(JobStatelessRelease, models.RunnerFuncTester, BuildPackageRelease),
		test(JobStatelessASan, models.RunnerFuncTester, BuildPackageASan),
		test(JobStatelessTSan, models.RunnerFuncTester, BuildPackageTSan),
		test(JobStatelessMSan, models.RunnerFuncTester, BuildPackageMSan),
		test(JobStatelessUBSan, models.RunnerFuncTester, BuildPackageUBSan),
		test(JobStatelessDebug, models.RunnerFuncTester, BuildPackageDebug),
		test(JobStatelessCoverage, models.RunnerFuncTester, BuildPackageCoverage),
		test(JobStatelessAarch64, models.RunnerFuncTesterARM, BuildPackageAarch64),

		test(JobStatefulRelease, models.RunnerFuncTester, BuildPackageRelease),
		test(JobStatefulASan, models.RunnerFuncTester, BuildPackageASan),
		test(JobStatefulTSan, models.RunnerFuncTester, BuildPackageTSan),
		test(JobStatefulMSan, models.RunnerFuncTester, BuildPackageMSan),
		test(JobStatefulUBSan, models.RunnerFuncTester, BuildPackageUBSan),
		test(JobStatefulDebug, models.RunnerFuncTester, BuildPackageDebug),
		test(JobStatefulAarch64, models.RunnerFuncTesterARM, BuildPackageAarch64),

		test(JobParReplRelease, models.RunnerFuncTester, BuildPackageRelease),
		test(JobParReplASan, models.RunnerFuncTester, BuildPackageASan, inBucket("parrepl_with_sanitizer")),
		test(JobParReplMSan, models.RunnerFuncTester, BuildPackageMSan, inBucket("parrepl_with_sanitizer")),
		test(JobParReplUBSan, models.RunnerFuncTester, BuildPackageUBSan, inBucket("parrepl_with_sanitizer")),
		test(JobParReplTSan, models.RunnerFuncTester, BuildPackageTSan, inBucket("parrepl_with_sanitizer")),

		test(JobStressDebug, models.RunnerStressTester, BuildPackageDebug),
		test(JobStressTSan, models.RunnerStressTester, BuildPackageTSan),
		test(JobStressASan, models.RunnerStressTester, BuildPackageASan, inBucket("stress_with_sanitizer")),
		test(JobStressUBSan, models.RunnerStressTester, BuildPackageUBSan, inBucket("stress_with_sanitizer")),
		test(JobStressMSan, models.RunnerStressTester, BuildPackageMSan, inBucket("stress_with_sanitizer")),

		test(JobUpgradeASan, models.RunnerStressTester, BuildPackageASan, inBucket("upgrade_with_sanitizer"), prOnly),
		test(JobUpgradeTSan, models.RunnerStressTester, BuildPackageTSan, inBucket("upgrade_with_sanitizer"), prOnly),
		test(JobUpgradeMSan, models.RunnerStressTester, BuildPackageMSan, inBucket("upgrade_with_sanitizer"), prOnly),
		test(JobUpgradeDebug, models.RunnerStressTester, BuildPackageDebug, prOnly),

		test(JobIntegrationRelease, models.RunnerFuncTester, BuildPackageRelease, releaseOnly),
		test(JobIntegrationASan, models.RunnerFuncTester, BuildPackageASan),
		test(JobIntegrationTSan, models.RunnerFuncTester, BuildPackageTSan),
		test(JobIntegrationAarch64, models.RunnerFuncTesterARM, BuildPackageAarch64),

		test(JobUnitRelease, models.RunnerFuzzerUnit, BuildBinaryRelease),
		test(JobUnitASan, models.RunnerFuzzerUnit, BuildPackageASan),
		test(JobUnitTSan, models.RunnerFuzzerUnit, BuildPackageTSan),
		test(JobUnitMSan, models.RunnerFuzzerUnit, BuildPackageMSan),
		test(JobUnitUBSan, models.RunnerFuzzerUnit, BuildPackageUBSan),

		test(JobCompatibilityAMD, models.RunnerStyleChecker, BuildPackageRelease, requiredOnReleaseBranch),
		test(JobCompatibilityARM, models.RunnerStyleCheckerARM, BuildPackageAarch64, requiredOnReleaseBranch),

		test(JobPerformanceAMD, models.RunnerFuncTester, BuildPackageRelease),

		test(JobJepsenKeeper, models.RunnerStyleCheckerARM, BuildBinaryRelease, runByLabel(TagJepsenTest)),
		test(JobJepsenServer, models.RunnerStyleCheckerARM, BuildBinaryRelease, runByLabel(TagJepsenTest)),

		test(JobLibFuzzer, models.RunnerStyleChecker, BuildFuzzers, runByLabel(TagLibFuzzer), withTimeout(10800)),

		test(JobBugfixValidate, models.RunnerStyleChecker, "", runByLabel(TagBugfixValidate), withTimeout(900)),

		{
			Name: JobDocsCheck,
			Kind: models.KindDoc,
			Digest: &models.DigestConfig{
				IncludePaths: []string{"**/*.md", "./docs"},
				DockerImages: []string{"ci/docs-builder"},
			},
			TimeoutSec: 1800,
			RunnerType: models.RunnerFuncTester,
		},
		{
			Name:   JobFastTest,
			Kind:   models.KindTest,
			PROnly: true,
			Digest: &models.DigestConfig{
				IncludePaths: []string{"./tests/queries/0_stateless/"},
				ExcludeFiles: []string{".md"},
				DockerImages: []string{"ci/fasttest"},
			},
			TimeoutSec: 2400,
			RunnerType: models.RunnerBuilder,
		},
		{
			Name:       JobStyleCheck,
			Kind:       models.KindStyleCheck,
			RunAlways:  true,
			TimeoutSec: 1800,
			RunnerType: models.RunnerStyleCheckerARM,
		},
	}

	required := []string{
		JobStyleCheck,
		JobFastTest,
		JobDocsCheck,
		JobStatelessRelease,
		JobStatelessASan,
		JobStatefulRelease,
		JobStatefulASan,
		JobUnitRelease,
		JobUnitASan,
		JobIntegrationASan,
		BuildPackageRelease,
		BuildPackageAarch64,
		BuildBinaryRelease,
	}

	allBuildsButFuzzers := []string{
		BuildPackageRelease, BuildPackageAarch64, BuildPackageASan,
		BuildPackageUBSan, BuildPackageTSan, BuildPackageMSan,
		BuildPackageDebug, BuildPackageCoverage, BuildBinaryRelease,
		BuildBinaryTidy, BuildBinaryAarch64,
	}

	return Definitions{
		Jobs:           jobs,
		RequiredChecks: required,
		MergeQueueJobs: []string{
			JobStyleCheck,
			JobFastTest,
			BuildBinaryRelease,
			JobUnitRelease,
		},
		DocsOnlyJobs: []string{JobDocsCheck, JobStyleCheck},
		NoStageJobs: []string{
			JobStyleCheck,
			JobFastTest,
			JobJepsenKeeper,
			JobJepsenServer,
			JobBuildCheck,
		},
		TagConfigs: map[string]models.LabelConfig{
			TagDoNotTest:     {RunJobs: []string{JobStyleCheck}},
			TagCISetARM:      {RunJobs: []string{JobStyleCheck, BuildPackageAarch64, JobIntegrationAarch64}},
			TagCISetRequired: {RunJobs: required},
			TagCISetBuilds:   {RunJobs: append([]string{JobStyleCheck, JobBuildCheck}, allBuildsButFuzzers...)},
			TagCISetSync: {RunJobs: []string{
				BuildPackageASan,
				JobStyleCheck,
				JobBuildCheck,
				JobUnitASan,
				JobStatefulASan,
			}},
		},
	}
}
