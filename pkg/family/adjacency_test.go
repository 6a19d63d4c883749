package family

import (
	"slices"
	"testing"
)

func persons(ids ...string) []Person {
	out := make([]Person, len(ids))
	for i, id := range ids {
		out[i] = Person{ID: id}
	}
	return out
}

func TestBuildAdjacency(t *testing.T) {
	tests := []struct {
		name         string
		persons      []Person
		relations    []Relation
		wantParents  map[string][]string
		wantChildren map[string][]string
		wantSpouses  map[string][]string
	}{
		{
			name:    "Empty",
			persons: persons("a"),
		},
		{
			name:    "Lineage",
			persons: persons("dad", "kid"),
			relations: []Relation{
				{ID: "e1", Source: "dad", Target: "kid", Type: Lineage},
			},
			wantParents:  map[string][]string{"kid": {"dad"}},
			wantChildren: map[string][]string{"dad": {"kid"}},
		},
		{
			name:    "SpouseIsSymmetric",
			persons: persons("a", "b"),
			relations: []Relation{
				{ID: "e1", Source: "a", Target: "b", Type: Spouse},
			},
			wantSpouses: map[string][]string{"a": {"b"}, "b": {"a"}},
		},
		{
			name:    "UnknownEndpointsDropped",
			persons: persons("a"),
			relations: []Relation{
				{ID: "e1", Source: "a", Target: "ghost", Type: Lineage},
				{ID: "e2", Source: "ghost", Target: "a", Type: Spouse},
			},
		},
		{
			name:    "UnknownTypeDropped",
			persons: persons("a", "b"),
			relations: []Relation{
				{ID: "e1", Source: "a", Target: "b", Type: "friend"},
			},
		},
		{
			name:    "RelationOrderPreserved",
			persons: persons("kid", "mum", "dad"),
			relations: []Relation{
				{ID: "e1", Source: "mum", Target: "kid", Type: Lineage},
				{ID: "e2", Source: "dad", Target: "kid", Type: Lineage},
			},
			wantParents:  map[string][]string{"kid": {"mum", "dad"}},
			wantChildren: map[string][]string{"mum": {"kid"}, "dad": {"kid"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := BuildAdjacency(tt.persons, tt.relations)
			assertLookup(t, "parents", adj.ParentsOf, tt.wantParents)
			assertLookup(t, "children", adj.ChildrenOf, tt.wantChildren)
			assertLookup(t, "spouses", adj.SpousesOf, tt.wantSpouses)
		})
	}
}

func assertLookup(t *testing.T, kind string, got, want map[string][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d entries %v, want %d %v", kind, len(got), got, len(want), want)
	}
	for k, w := range want {
		if !slices.Equal(got[k], w) {
			t.Errorf("%s[%s] = %v, want %v", kind, k, got[k], w)
		}
	}
}

func TestAdjacencyCoParents(t *testing.T) {
	adj := BuildAdjacency(persons("a", "b", "c", "k1", "k2"), []Relation{
		{Source: "a", Target: "k1", Type: Lineage},
		{Source: "b", Target: "k1", Type: Lineage},
		{Source: "a", Target: "k2", Type: Lineage},
		{Source: "c", Target: "k2", Type: Lineage},
		{Source: "b", Target: "k2", Type: Lineage},
	})

	if got, want := adj.CoParents("a"), []string{"b", "c"}; !slices.Equal(got, want) {
		t.Errorf("CoParents(a) = %v, want %v", got, want)
	}
	if got := adj.CoParents("k1"); len(got) != 0 {
		t.Errorf("CoParents(k1) = %v, want none", got)
	}
}
