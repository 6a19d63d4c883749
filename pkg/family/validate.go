package family

import (
	"errors"
	"fmt"
)

// Validate checks structural sanity: non-empty unique person IDs, known
// gender tags, known relation types and non-empty relation endpoints. All
// problems are reported, joined with [errors.Join].
//
// Relations pointing at unknown persons are not errors; the engines ignore
// them. Use [Document.Dangling] to list them.
func (d Document) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.Persons))
	for i, p := range d.Persons {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("person %d: %w", i, ErrInvalidPersonID))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("person %s: %w", p.ID, ErrDuplicatePersonID))
		}
		seen[p.ID] = true
		if !p.Gender.Valid() {
			errs = append(errs, fmt.Errorf("person %s: %w: %q", p.ID, ErrInvalidGender, p.Gender))
		}
	}
	for i, r := range d.Relations {
		if r.Source == "" || r.Target == "" {
			errs = append(errs, fmt.Errorf("relation %d: %w", i, ErrInvalidPersonID))
		}
		if r.Type != Lineage && r.Type != Spouse {
			errs = append(errs, fmt.Errorf("relation %d: %w: %q", i, ErrUnknownRelationType, r.Type))
		}
	}
	if d.RootID != "" && !seen[d.RootID] {
		errs = append(errs, fmt.Errorf("root %s: %w", d.RootID, ErrUnknownPerson))
	}
	return errors.Join(errs...)
}

// Dangling returns the relations whose source or target is not a person of d.
func (d Document) Dangling() []Relation {
	idx := PersonIndex(d.Persons)
	var out []Relation
	for _, r := range d.Relations {
		_, okSrc := idx[r.Source]
		_, okDst := idx[r.Target]
		if !okSrc || !okDst {
			out = append(out, r)
		}
	}
	return out
}
