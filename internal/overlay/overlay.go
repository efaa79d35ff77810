// Package overlay resolves operator-facing tags and labels to fixed job
// subsets. Tag spelling varies between humans and tooling ("do-not-test",
// "Do Not Test", "DO_NOT_TEST"), so all comparisons go through Normalize.
package overlay

import (
	"fmt"
	"strings"

	"ciplan/internal/models"
	"ciplan/internal/registry"
)

// Normalize lower-cases a label and collapses runs of spaces, hyphens and
// underscores into single underscores, so spelling variants of the same tag
// compare equal.
func Normalize(label string) string {
	fields := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	return strings.Join(fields, "_")
}

// Overlay maps normalized tags to the job subsets they select.
type Overlay struct {
	entries map[string]models.LabelConfig
}

// New builds an overlay from the registry's built-in tag configs plus any
// extra entries (later maps win on normalized-key collisions). Every job a
// config references must be declared in the registry.
func New(reg *registry.Registry, extra ...map[string]models.LabelConfig) (*Overlay, error) {
	o := &Overlay{entries: make(map[string]models.LabelConfig)}

	add := func(tag string, cfg models.LabelConfig) error {
		for _, name := range cfg.RunJobs {
			if _, ok := reg.Job(name); !ok {
				return &models.ConfigError{
					Kind:   models.ErrUnknownJobRef,
					Job:    name,
					Detail: fmt.Sprintf("referenced from label config %q", tag),
				}
			}
		}
		o.entries[Normalize(tag)] = cfg
		return nil
	}

	for tag, cfg := range reg.TagConfigs() {
		if err := add(tag, cfg); err != nil {
			return nil, err
		}
	}
	for _, m := range extra {
		for tag, cfg := range m {
			if err := add(tag, cfg); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// Lookup returns the job subset registered for label, if any. A miss is an
// ordinary not-found result; callers fall back to default selection.
func (o *Overlay) Lookup(label string) (models.LabelConfig, bool) {
	cfg, ok := o.entries[Normalize(label)]
	return cfg, ok
}
