// Package layout computes a generation-row arrangement of a family graph.
//
// # Pipeline
//
// [Compute] runs three stages:
//
//  1. Levels: breadth-first from the reference person (level 0). Spouses
//     share a level, parents sit one level up, children one level down. The
//     first discovery fixes a level for good, so cycles cannot produce
//     inconsistent levels.
//  2. Clusters: rows are processed top-down. Within a row, persons linked by
//     marriage or by a shared child form a cluster. Each cluster wants to sit
//     under the average of its members' parent centres; parentless clusters
//     stay where they are (or at 0 for the reference person's cluster).
//  3. Block merge: clusters are sorted by desired centre and flattened. A
//     left-to-right sweep merges neighbours that would sit closer than the
//     sibling gap into blocks; each block is centred on its members' mean
//     desired x and spaced evenly by the gap.
//
// The vertical position is level x level height.
//
// # Determinism
//
// Current person positions are read only to break ties, so identical inputs
// give identical outputs. Feeding the output back as the current positions
// reproduces it for graphs where every row's parentless clusters are alone
// in their row or already spaced by at least the gap.
//
// # Options
//
// Spacing defaults to [family.DefaultSiblingGap] and
// [family.DefaultLevelHeight]; use [WithSiblingGap] and [WithLevelHeight] to
// change them.
package layout
