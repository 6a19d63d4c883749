package graph

import (
	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
)

// =============================================================================
// Document - Family Graph Serialization
// =============================================================================

// Document is the serialized form of a family document.
type Document struct {
	Nodes           []Node            `json:"nodes" toml:"nodes" yaml:"nodes" validate:"required,dive"`
	Edges           []Edge            `json:"edges" toml:"edges" yaml:"edges" validate:"dive"`
	RootID          string            `json:"rootId,omitempty" toml:"rootId,omitempty" yaml:"rootId,omitempty"`
	RelationshipMap map[string]string `json:"relationshipMap,omitempty" toml:"relationshipMap,omitempty" yaml:"relationshipMap,omitempty"`
}

// Node is a serialized person.
type Node struct {
	ID     string  `json:"id" toml:"id" yaml:"id" validate:"required,max=128"`
	Name   string  `json:"name" toml:"name" yaml:"name" validate:"max=256"`
	Gender string  `json:"gender,omitempty" toml:"gender,omitempty" yaml:"gender,omitempty" validate:"omitempty,oneof=male female neutral"`
	X      float64 `json:"x" toml:"x" yaml:"x"`
	Y      float64 `json:"y" toml:"y" yaml:"y"`
}

// Edge is a serialized relation. For lineage edges Source is the parent.
type Edge struct {
	ID     string `json:"id" toml:"id" yaml:"id"`
	Source string `json:"source" toml:"source" yaml:"source" validate:"required"`
	Target string `json:"target" toml:"target" yaml:"target" validate:"required"`
	Type   string `json:"type" toml:"type" yaml:"type" validate:"required,oneof=lineage spouse spousal"`
}

// =============================================================================
// Document ↔ family.Document Conversion
// =============================================================================

// FromDocument converts the in-memory model to its wire form, keeping person
// and relation order.
func FromDocument(d family.Document) Document {
	out := Document{
		Nodes:  make([]Node, len(d.Persons)),
		Edges:  make([]Edge, len(d.Relations)),
		RootID: d.RootID,
	}
	for i, p := range d.Persons {
		out.Nodes[i] = Node{ID: p.ID, Name: p.Name, Gender: string(p.Gender), X: p.X, Y: p.Y}
	}
	for i, r := range d.Relations {
		out.Edges[i] = Edge{ID: r.ID, Source: r.Source, Target: r.Target, Type: string(r.Type)}
	}
	if len(d.Overrides) > 0 {
		out.RelationshipMap = make(map[string]string, len(d.Overrides))
		for k, v := range d.Overrides {
			out.RelationshipMap[k] = v
		}
	}
	return out
}

// ToDocument converts a wire document to the in-memory model, applying the
// import defaults. It fails only when "nodes" is absent; structural problems
// are left for [family.Document.Validate].
func ToDocument(w Document) (family.Document, error) {
	if w.Nodes == nil {
		return family.Document{}, kerrors.New(kerrors.ErrCodeInvalidDocument, "document has no nodes")
	}

	d := family.Document{
		Persons:   make([]family.Person, len(w.Nodes)),
		Relations: make([]family.Relation, len(w.Edges)),
		RootID:    w.RootID,
	}
	for i, n := range w.Nodes {
		g := family.Gender(n.Gender)
		if g == "" {
			g = family.GenderNeutral
		}
		d.Persons[i] = family.Person{ID: n.ID, Name: n.Name, Gender: g, X: n.X, Y: n.Y}
	}
	for i, e := range w.Edges {
		t, err := family.ParseRelationType(e.Type)
		if err != nil {
			t = family.RelationType(e.Type)
		}
		d.Relations[i] = family.Relation{ID: e.ID, Source: e.Source, Target: e.Target, Type: t}
	}
	if d.RootID == "" && len(d.Persons) > 0 {
		d.RootID = d.Persons[0].ID
	}
	if len(w.RelationshipMap) > 0 {
		d.Overrides = make(map[string]string, len(w.RelationshipMap))
		for k, v := range w.RelationshipMap {
			d.Overrides[k] = v
		}
	}
	return d, nil
}

// =============================================================================
// Results
// =============================================================================

// Position is a serialized canvas position.
type Position struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Result is the serialized output of one pipeline run.
type Result struct {
	RootID        string              `json:"rootId"`
	Relationships map[string]string   `json:"relationships"`
	Positions     map[string]Position `json:"positions"`
	Levels        map[string]int      `json:"levels,omitempty"`
}

// Adjacency is the serialized parent, child and spouse index.
type Adjacency struct {
	ParentsOf  map[string][]string `json:"parentsOf"`
	ChildrenOf map[string][]string `json:"childrenOf"`
	SpousesOf  map[string][]string `json:"spousesOf"`
}

// FromPoints converts engine positions to their wire form.
func FromPoints(points map[string]family.Point) map[string]Position {
	out := make(map[string]Position, len(points))
	for id, p := range points {
		out[id] = Position{X: p.X, Y: p.Y}
	}
	return out
}

// ToPoints converts wire positions back to engine positions.
func ToPoints(positions map[string]Position) map[string]family.Point {
	out := make(map[string]family.Point, len(positions))
	for id, p := range positions {
		out[id] = family.Point{X: p.X, Y: p.Y}
	}
	return out
}

// FromAdjacency converts an adjacency index to its wire form. Empty lists are
// omitted and maps are never nil.
func FromAdjacency(a *family.Adjacency) Adjacency {
	return Adjacency{
		ParentsOf:  copyLists(a.ParentsOf),
		ChildrenOf: copyLists(a.ChildrenOf),
		SpousesOf:  copyLists(a.SpousesOf),
	}
}

func copyLists(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		if len(v) > 0 {
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}
