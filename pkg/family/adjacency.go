package family

// Adjacency holds the three lookups derived from a relation list. Slices keep
// relation order, which fixes the exploration order of both engines.
type Adjacency struct {
	ParentsOf  map[string][]string
	ChildrenOf map[string][]string
	SpousesOf  map[string][]string
}

// BuildAdjacency derives parent, child and spouse lookups from relations.
// Relations with an endpoint that is not a known person, or with an unknown
// type, are skipped. Runs in O(len(persons) + len(relations)).
func BuildAdjacency(persons []Person, relations []Relation) *Adjacency {
	known := make(map[string]struct{}, len(persons))
	for _, p := range persons {
		known[p.ID] = struct{}{}
	}

	adj := &Adjacency{
		ParentsOf:  make(map[string][]string),
		ChildrenOf: make(map[string][]string),
		SpousesOf:  make(map[string][]string),
	}
	for _, r := range relations {
		if _, ok := known[r.Source]; !ok {
			continue
		}
		if _, ok := known[r.Target]; !ok {
			continue
		}
		switch r.Type {
		case Lineage:
			adj.ParentsOf[r.Target] = append(adj.ParentsOf[r.Target], r.Source)
			adj.ChildrenOf[r.Source] = append(adj.ChildrenOf[r.Source], r.Target)
		case Spouse:
			adj.SpousesOf[r.Source] = append(adj.SpousesOf[r.Source], r.Target)
			adj.SpousesOf[r.Target] = append(adj.SpousesOf[r.Target], r.Source)
		}
	}
	return adj
}

// Parents returns the parent IDs of id in relation order.
func (a *Adjacency) Parents(id string) []string { return a.ParentsOf[id] }

// Children returns the child IDs of id in relation order.
func (a *Adjacency) Children(id string) []string { return a.ChildrenOf[id] }

// Spouses returns the spouse IDs of id in relation order.
func (a *Adjacency) Spouses(id string) []string { return a.SpousesOf[id] }

// CoParents returns the persons other than id who share at least one child
// with id, in first-seen order without duplicates.
func (a *Adjacency) CoParents(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	for _, child := range a.ChildrenOf[id] {
		for _, p := range a.ParentsOf[child] {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}
