package registry

import (
	"fmt"

	"ciplan/internal/models"
)

// Stage maps a job to its workflow stage:
//
//   - jobs in the fixed no-stage set run outside staged ordering (NA);
//   - a build gating some other job's required-build list runs in Builds_1,
//     any other build in Builds_2;
//   - the docs check and required test jobs run in Tests_1;
//   - remaining test jobs run in Tests_3.
//
// A job matching none of these branches is a bug in the static declarations
// (New validates every job resolves to a stage), so Stage panics rather than
// returning an error.
func (r *Registry) Stage(name string) models.Stage {
	if _, ok := r.noStage[name]; ok {
		return models.StageNA
	}
	if r.IsBuild(name) {
		if _, ok := r.consumedBuilds[name]; ok {
			return models.StageBuilds1
		}
		return models.StageBuilds2
	}
	if r.IsDoc(name) {
		return models.StageTests1
	}
	if r.IsTest(name) {
		if r.IsRequired(name) {
			return models.StageTests1
		}
		return models.StageTests3
	}
	panic(fmt.Sprintf("no stage for job [%s]", name))
}
