package family

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidPersonID is returned when a person or relation endpoint has an
	// empty identifier.
	ErrInvalidPersonID = errors.New("person ID must not be empty")

	// ErrDuplicatePersonID is returned by [Document.Validate] and
	// [Document.AddPerson] when two persons share an ID.
	ErrDuplicatePersonID = errors.New("duplicate person ID")

	// ErrUnknownPerson is returned by editing operations that reference a
	// person not present in the document.
	ErrUnknownPerson = errors.New("unknown person")

	// ErrUnknownRelationType is returned when a relation type is neither
	// lineage nor spouse.
	ErrUnknownRelationType = errors.New("unknown relation type")

	// ErrInvalidGender is returned when a gender tag is not male, female or
	// neutral.
	ErrInvalidGender = errors.New("invalid gender")

	// ErrSelfRelation is returned by [Document.Connect] when source and
	// target are the same person.
	ErrSelfRelation = errors.New("person cannot be related to itself")

	// ErrRootDeletion is returned by [Document.RemovePerson] for the
	// reference person.
	ErrRootDeletion = errors.New("reference person cannot be removed")

	// ErrRelationNotFound is returned by [Document.RemoveRelation] when no
	// relation has the given ID.
	ErrRelationNotFound = errors.New("relation not found")
)

// Layout spacing defaults, in canvas units.
const (
	// DefaultSiblingGap is the horizontal distance between neighbours in a row.
	DefaultSiblingGap = 200.0

	// DefaultLevelHeight is the vertical distance between generations.
	DefaultLevelHeight = 200.0
)

// RoleMe is the override key for the reference person's own label.
const RoleMe = "me"

// =============================================================================
// Gender
// =============================================================================

// Gender selects the surface form of a kinship term.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// Valid reports whether g is one of the three known tags. The empty string is
// accepted and means neutral.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNeutral, "":
		return true
	}
	return false
}

// Normalize maps anything other than male or female to neutral.
func (g Gender) Normalize() Gender {
	if g == GenderMale || g == GenderFemale {
		return g
	}
	return GenderNeutral
}

// ParseGender parses a gender tag. The empty string yields GenderNeutral.
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
	return g.Normalize(), nil
}

// =============================================================================
// Relation Types
// =============================================================================

// RelationType distinguishes parent/child edges from marriage edges.
type RelationType string

const (
	// Lineage is a directed parent -> child edge.
	Lineage RelationType = "lineage"
	// Spouse is an undirected marriage or partnership edge.
	Spouse RelationType = "spouse"
)

// ParseRelationType parses a relation type. "spousal" is accepted as an
// alias of "spouse".
func ParseRelationType(s string) (RelationType, error) {
	switch s {
	case string(Lineage):
		return Lineage, nil
	case string(Spouse), "spousal":
		return Spouse, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRelationType, s)
}

// =============================================================================
// Person, Relation, Point
// =============================================================================

// Person is a vertex of the family graph. X and Y are owned by the editor and
// the layout engine; inference never reads them.
type Person struct {
	ID     string
	Name   string
	Gender Gender
	X, Y   float64
}

// Position returns the person's current canvas position.
func (p Person) Position() Point { return Point{X: p.X, Y: p.Y} }

// Relation is an edge of the family graph. For [Lineage] Source is the parent.
type Relation struct {
	ID     string
	Source string
	Target string
	Type   RelationType
}

// Connects reports whether r links a and b, honouring spouse symmetry.
func (r Relation) Connects(a, b string) bool {
	if r.Source == a && r.Target == b {
		return true
	}
	return r.Type == Spouse && r.Source == b && r.Target == a
}

// Touches reports whether id is either endpoint of r.
func (r Relation) Touches(id string) bool { return r.Source == id || r.Target == id }

// Point is a canvas position.
type Point struct {
	X float64
	Y float64
}

// =============================================================================
// Document
// =============================================================================

// Document is the editor's authoritative snapshot: the graph, the reference
// person and the label overrides keyed by role (see [RoleMe]).
//
// The zero value is an empty document with no reference person.
type Document struct {
	Persons   []Person
	Relations []Relation
	RootID    string
	Overrides map[string]string
}

// Person looks up a person by ID.
func (d Document) Person(id string) (Person, bool) {
	for _, p := range d.Persons {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// HasPerson reports whether id names a person of d.
func (d Document) HasPerson(id string) bool {
	_, ok := d.Person(id)
	return ok
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{
		Persons:   slices.Clone(d.Persons),
		Relations: slices.Clone(d.Relations),
		RootID:    d.RootID,
	}
	if d.Overrides != nil {
		out.Overrides = make(map[string]string, len(d.Overrides))
		for k, v := range d.Overrides {
			out.Overrides[k] = v
		}
	}
	return out
}

// PersonIndex maps person IDs to persons. On duplicate IDs the first person wins.
func PersonIndex(persons []Person) map[string]Person {
	idx := make(map[string]Person, len(persons))
	for _, p := range persons {
		if _, seen := idx[p.ID]; !seen {
			idx[p.ID] = p
		}
	}
	return idx
}

// StarterID is the ID of the single person in [NewDocument].
const StarterID = "1"

// NewDocument returns a document holding one neutral person named "Me" at the
// origin, who is also the reference person.
func NewDocument() Document {
	return Document{
		Persons: []Person{{ID: StarterID, Name: "Me", Gender: GenderNeutral}},
		RootID:  StarterID,
	}
}
