package family

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// NewID returns a fresh identifier for persons and relations.
var NewID = uuid.NewString

// DefaultPersonName is the display name given to persons created without one.
const DefaultPersonName = "New Person"

// Direction says where [Document.AddRelative] attaches a new person.
type Direction string

const (
	DirParent     Direction = "parent"
	DirChild      Direction = "child"
	DirSpouse     Direction = "spouse"
	DirSpouseLeft Direction = "spouse-left"
)

// ParseDirection parses a relative direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirParent, DirChild, DirSpouse, DirSpouseLeft:
		return d, nil
	}
	return "", fmt.Errorf("unknown direction %q (must be parent, child, spouse or spouse-left)", s)
}

// AddPerson appends p, assigning an ID and default name when missing.
func (d Document) AddPerson(p Person) (Document, Person, error) {
	if p.ID == "" {
		p.ID = NewID()
	}
	if d.HasPerson(p.ID) {
		return d, Person{}, fmt.Errorf("person %s: %w", p.ID, ErrDuplicatePersonID)
	}
	if !p.Gender.Valid() {
		return d, Person{}, fmt.Errorf("person %s: %w: %q", p.ID, ErrInvalidGender, p.Gender)
	}
	if p.Name == "" {
		p.Name = DefaultPersonName
	}
	p.Gender = p.Gender.Normalize()

	out := d.Clone()
	out.Persons = append(out.Persons, p)
	if out.RootID == "" {
		out.RootID = p.ID
	}
	return out, p, nil
}

// UpdatePerson changes the name and/or gender of a person. Nil arguments
// leave the field unchanged.
func (d Document) UpdatePerson(id string, name *string, gender *Gender) (Document, error) {
	i := slices.IndexFunc(d.Persons, func(p Person) bool { return p.ID == id })
	if i < 0 {
		return d, fmt.Errorf("person %s: %w", id, ErrUnknownPerson)
	}
	if gender != nil && !gender.Valid() {
		return d, fmt.Errorf("person %s: %w: %q", id, ErrInvalidGender, *gender)
	}
	out := d.Clone()
	if name != nil {
		out.Persons[i].Name = *name
	}
	if gender != nil {
		out.Persons[i].Gender = gender.Normalize()
	}
	return out, nil
}

// RemovePerson deletes a person and every relation touching it. The
// reference person cannot be removed.
func (d Document) RemovePerson(id string) (Document, error) {
	if !d.HasPerson(id) {
		return d, fmt.Errorf("person %s: %w", id, ErrUnknownPerson)
	}
	if id == d.RootID {
		return d, ErrRootDeletion
	}
	out := d.Clone()
	out.Persons = slices.DeleteFunc(out.Persons, func(p Person) bool { return p.ID == id })
	out.Relations = slices.DeleteFunc(out.Relations, func(r Relation) bool { return r.Touches(id) })
	return out, nil
}

// RemoveRelation deletes the relation with the given ID.
func (d Document) RemoveRelation(id string) (Document, error) {
	if !slices.ContainsFunc(d.Relations, func(r Relation) bool { return r.ID == id }) {
		return d, fmt.Errorf("relation %s: %w", id, ErrRelationNotFound)
	}
	out := d.Clone()
	out.Relations = slices.DeleteFunc(out.Relations, func(r Relation) bool { return r.ID == id })
	return out, nil
}

// Connect adds a relation between two existing persons. It is a no-op when an
// equal relation already exists (spouse relations match in either direction).
//
// For a lineage relation every other parent of the child that is not yet a
// spouse of source gets linked to source with an automatic spouse relation.
func (d Document) Connect(source, target string, t RelationType) (Document, error) {
	if t != Lineage && t != Spouse {
		return d, fmt.Errorf("%w: %q", ErrUnknownRelationType, t)
	}
	if source == "" || target == "" {
		return d, ErrInvalidPersonID
	}
	if source == target {
		return d, ErrSelfRelation
	}
	for _, id := range []string{source, target} {
		if !d.HasPerson(id) {
			return d, fmt.Errorf("person %s: %w", id, ErrUnknownPerson)
		}
	}
	if d.related(source, target, t) {
		return d, nil
	}

	out := d.Clone()
	out.Relations = append(out.Relations, Relation{ID: NewID(), Source: source, Target: target, Type: t})
	if t == Lineage {
		out.Relations = linkCoParents(out.Relations, source, target)
	}
	return out, nil
}

// AddRelative creates a person next to anchor and links it in the given
// direction. The new person is placed one level above (parent), one level
// below (child), or one gap to the right (spouse) or left (spouse-left) of
// the anchor. Spouse relations run from the left partner to the right one.
func (d Document) AddRelative(anchor string, dir Direction, p Person) (Document, Person, error) {
	a, ok := d.Person(anchor)
	if !ok {
		return d, Person{}, fmt.Errorf("person %s: %w", anchor, ErrUnknownPerson)
	}
	p.X, p.Y = a.X, a.Y
	switch dir {
	case DirParent:
		p.Y -= DefaultLevelHeight
	case DirChild:
		p.Y += DefaultLevelHeight
	case DirSpouse:
		p.X += DefaultSiblingGap
	case DirSpouseLeft:
		p.X -= DefaultSiblingGap
	default:
		return d, Person{}, fmt.Errorf("unknown direction %q", dir)
	}

	out, created, err := d.AddPerson(p)
	if err != nil {
		return d, Person{}, err
	}
	switch dir {
	case DirParent:
		out, err = out.Connect(created.ID, anchor, Lineage)
	case DirChild:
		out, err = out.Connect(anchor, created.ID, Lineage)
	case DirSpouse:
		out, err = out.Connect(anchor, created.ID, Spouse)
	case DirSpouseLeft:
		out, err = out.Connect(created.ID, anchor, Spouse)
	}
	if err != nil {
		return d, Person{}, err
	}
	return out, created, nil
}

// Arrange merges computed positions into the persons of d. Persons without a
// computed position keep their last-known coordinates.
func (d Document) Arrange(positions map[string]Point) Document {
	out := d.Clone()
	for i, p := range out.Persons {
		if pos, ok := positions[p.ID]; ok {
			out.Persons[i].X = pos.X
			out.Persons[i].Y = pos.Y
		}
	}
	return out
}

func (d Document) related(source, target string, t RelationType) bool {
	return slices.ContainsFunc(d.Relations, func(r Relation) bool {
		return r.Type == t && r.Connects(source, target)
	})
}

// linkCoParents adds spouse relations between parent and every other parent of
// child that is not already its spouse.
func linkCoParents(relations []Relation, parent, child string) []Relation {
	var existing []string
	for _, r := range relations {
		if r.Type == Lineage && r.Target == child && r.Source != parent {
			existing = append(existing, r.Source)
		}
	}
	for _, other := range existing {
		married := slices.ContainsFunc(relations, func(r Relation) bool {
			return r.Type == Spouse && r.Connects(parent, other)
		})
		if !married {
			relations = append(relations, Relation{ID: NewID(), Source: parent, Target: other, Type: Spouse})
		}
	}
	return relations
}
