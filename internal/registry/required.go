package registry

import "regexp"

// Batched job instances get a trailing marker like "Stateless tests (asan) [2/4]".
var batchMarker = regexp.MustCompile(`\s+\[[0-9]+/[0-9]+\]$`)

// IsRequired reports whether check gates merge eligibility. An exact match
// against the required-checks set wins; otherwise a single trailing batch
// marker of the form "<whitespace>[<digits>/<digits>]" is stripped and the
// prefix re-tested, so a batched instance inherits the status of its base
// job. No other normalization is applied.
func (r *Registry) IsRequired(check string) bool {
	if _, ok := r.required[check]; ok {
		return true
	}
	if loc := batchMarker.FindStringIndex(check); loc != nil {
		_, ok := r.required[check[:loc[0]]]
		return ok
	}
	return false
}
