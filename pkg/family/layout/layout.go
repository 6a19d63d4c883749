package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/kintree/kintree/pkg/family"
)

// mergeEpsilon absorbs floating point noise in the overlap test.
const mergeEpsilon = 0.1

// tieBand is the desired-centre distance under which clusters are ordered by
// their current position instead.
const tieBand = 1.0

// Option configures [Compute].
type Option func(*config)

type config struct {
	gap         float64
	levelHeight float64
}

// WithSiblingGap sets the horizontal spacing between neighbours in a row.
// Non-positive values are ignored.
func WithSiblingGap(gap float64) Option {
	return func(c *config) {
		if gap > 0 {
			c.gap = gap
		}
	}
}

// WithLevelHeight sets the vertical spacing between generations.
// Non-positive values are ignored.
func WithLevelHeight(h float64) Option {
	return func(c *config) {
		if h > 0 {
			c.levelHeight = h
		}
	}
}

// Compute returns a position for every person reachable from rootID. An
// unknown root yields an empty map. Relations with unknown endpoints are
// ignored and the inputs are never modified.
func Compute(persons []family.Person, relations []family.Relation, rootID string, opts ...Option) map[string]family.Point {
	cfg := config{gap: family.DefaultSiblingGap, levelHeight: family.DefaultLevelHeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	known := family.PersonIndex(persons)
	adj := family.BuildAdjacency(persons, relations)
	levels := Levels(adj, known, rootID)

	positions := make(map[string]family.Point, len(levels))
	if len(levels) == 0 {
		return positions
	}

	r := rower{
		adj:    adj,
		known:  known,
		levels: levels,
		rootID: rootID,
		placed: make(map[string]float64, len(levels)),
		gap:    cfg.gap,
	}
	for _, row := range Rows(persons, levels) {
		r.place(row)
	}

	for id, lvl := range levels {
		positions[id] = family.Point{X: r.placed[id], Y: float64(lvl) * cfg.levelHeight}
	}
	return positions
}

// Levels assigns a generation level to every person reachable from rootID.
// Neighbours are offered spouses first (same level), then parents (level-1),
// then children (level+1).
func Levels(adj *family.Adjacency, known map[string]family.Person, rootID string) map[string]int {
	levels := make(map[string]int)
	if _, ok := known[rootID]; !ok {
		return levels
	}

	levels[rootID] = 0
	queue := []string{rootID}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		l := levels[curr]

		visit := func(next string, lvl int) {
			if _, seen := levels[next]; seen {
				return
			}
			levels[next] = lvl
			queue = append(queue, next)
		}
		for _, s := range adj.Spouses(curr) {
			visit(s, l)
		}
		for _, p := range adj.Parents(curr) {
			visit(p, l-1)
		}
		for _, c := range adj.Children(curr) {
			visit(c, l+1)
		}
	}
	return levels
}

// Row is the set of persons sharing a level, in input order.
type Row struct {
	Level int
	IDs   []string
}

// Rows buckets the persons that have a level into rows ordered top-down.
func Rows(persons []family.Person, levels map[string]int) []Row {
	byLevel := make(map[int][]string)
	seen := make(map[string]bool, len(levels))
	for _, p := range persons {
		lvl, ok := levels[p.ID]
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		byLevel[lvl] = append(byLevel[lvl], p.ID)
	}

	rows := make([]Row, 0, len(byLevel))
	for lvl, ids := range byLevel {
		rows = append(rows, Row{Level: lvl, IDs: ids})
	}
	slices.SortFunc(rows, func(a, b Row) int { return cmp.Compare(a.Level, b.Level) })
	return rows
}

// =============================================================================
// Row Placement
// =============================================================================

// rower places rows one at a time; rows above the current one are final.
type rower struct {
	adj    *family.Adjacency
	known  map[string]family.Person
	levels map[string]int
	rootID string
	placed map[string]float64
	gap    float64
}

// cluster is a group of same-row persons tied by marriage or shared children.
type cluster struct {
	ids     []string
	desired float64
	current float64
}

func (r *rower) place(row Row) {
	clusters := r.clusters(row)
	slices.SortStableFunc(clusters, func(a, b cluster) int {
		if math.Abs(a.desired-b.desired) > tieBand {
			return cmp.Compare(a.desired, b.desired)
		}
		return cmp.Compare(a.current, b.current)
	})

	var items []item
	for _, c := range clusters {
		for _, id := range c.ids {
			items = append(items, item{id: id, desired: c.desired})
		}
	}
	for id, x := range resolve(items, r.gap) {
		r.placed[id] = x
	}
}

// clusters groups the row by breadth-first expansion over spouse and
// co-parent links restricted to the row.
func (r *rower) clusters(row Row) []cluster {
	inRow := make(map[string]bool, len(row.IDs))
	for _, id := range row.IDs {
		inRow[id] = true
	}

	visited := make(map[string]bool, len(row.IDs))
	var out []cluster
	for _, start := range row.IDs {
		if visited[start] {
			continue
		}
		visited[start] = true
		ids := []string{start}
		queue := []string{start}
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			partners := append(slices.Clone(r.adj.Spouses(curr)), r.adj.CoParents(curr)...)
			for _, p := range partners {
				if inRow[p] && !visited[p] {
					visited[p] = true
					ids = append(ids, p)
					queue = append(queue, p)
				}
			}
		}

		slices.SortStableFunc(ids, func(a, b string) int {
			return cmp.Compare(r.known[a].X, r.known[b].X)
		})
		out = append(out, r.describe(ids, row.Level))
	}
	return out
}

// describe computes the desired and current centres of a cluster.
func (r *rower) describe(ids []string, level int) cluster {
	var desiredSum, currentSum float64
	withParents := 0
	hasRoot := false
	for _, id := range ids {
		currentSum += r.known[id].X
		if id == r.rootID {
			hasRoot = true
		}

		var parentSum float64
		n := 0
		for _, p := range r.adj.Parents(id) {
			lvl, ok := r.levels[p]
			if !ok || lvl >= level {
				continue
			}
			x, ok := r.placed[p]
			if !ok {
				x = r.known[p].X
			}
			parentSum += x
			n++
		}
		if n > 0 {
			desiredSum += parentSum / float64(n)
			withParents++
		}
	}

	c := cluster{ids: ids, current: currentSum / float64(len(ids))}
	switch {
	case withParents > 0:
		c.desired = desiredSum / float64(withParents)
	case hasRoot:
		c.desired = 0
	default:
		c.desired = c.current
	}
	return c
}
