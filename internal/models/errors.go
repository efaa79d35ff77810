package models

import "fmt"

// ConfigErrorKind identifies the category of a static-definition error.
type ConfigErrorKind string

const (
	// Registry invariants
	ErrDuplicateJob       ConfigErrorKind = "duplicate_job"
	ErrUnknownBuildRef    ConfigErrorKind = "unknown_build_reference"
	ErrKindConfigMismatch ConfigErrorKind = "kind_config_mismatch"
	ErrDegenerateBucket   ConfigErrorKind = "degenerate_random_bucket"

	// Reference resolution
	ErrUnknownRequiredCheck ConfigErrorKind = "unknown_required_check"
	ErrUnknownJobRef        ConfigErrorKind = "unknown_job_reference"
)

// ConfigError reports a violation of the static job declarations. These are
// bugs in the declarations, not runtime conditions: callers surface them and
// stop, they never work around them.
type ConfigError struct {
	Kind   ConfigErrorKind
	Job    string // offending job or reference name
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Job, e.Detail)
	}
	return fmt.Sprintf("%s [%s]", e.Kind, e.Job)
}
