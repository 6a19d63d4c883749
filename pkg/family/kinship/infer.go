package kinship

import "github.com/kintree/kintree/pkg/family"

// Walk runs the breadth-first traversal from rootID and returns the raw path
// of first discovery for every reachable person, the root included (with an
// empty path). Neighbours are offered parents first, then children, then
// spouses. An unknown root yields an empty map.
func Walk(adj *family.Adjacency, known map[string]family.Person, rootID string) map[string]Path {
	paths := make(map[string]Path)
	if _, ok := known[rootID]; !ok {
		return paths
	}

	paths[rootID] = Path{Nodes: []string{rootID}}
	queue := []string{rootID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		from := paths[curr]

		visit := func(next string, s Step) {
			if _, seen := paths[next]; seen {
				return
			}
			paths[next] = from.extend(s, next)
			queue = append(queue, next)
		}
		for _, p := range adj.Parents(curr) {
			visit(p, StepUp)
		}
		for _, c := range adj.Children(curr) {
			visit(c, StepDown)
		}
		for _, sp := range adj.Spouses(curr) {
			visit(sp, StepSpouse)
		}
	}
	return paths
}

// Infer labels every person reachable from rootID relative to that person.
//
// The root gets overrides[family.RoleMe] when set, otherwise
// [DefaultRootLabel]. Unreachable persons are absent from the result, and an
// unknown root yields an empty map. Relations with unknown endpoints are
// ignored. The inputs are never modified.
func Infer(persons []family.Person, relations []family.Relation, rootID string, overrides map[string]string) map[string]string {
	known := family.PersonIndex(persons)
	adj := family.BuildAdjacency(persons, relations)

	paths := Walk(adj, known, rootID)
	out := make(map[string]string, len(paths))
	for id, path := range paths {
		if id == rootID {
			out[id] = RootLabel(overrides)
			continue
		}
		out[id] = Label(Normalize(path.Steps, path.Nodes), known[id].Gender)
	}
	return out
}

// RootLabel returns the reference person's label under the given overrides.
func RootLabel(overrides map[string]string) string {
	if me := overrides[family.RoleMe]; me != "" {
		return me
	}
	return DefaultRootLabel
}
