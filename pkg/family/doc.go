// Package family provides the person/relation graph that kintree computes over.
//
// # Overview
//
// A family graph is a flat list of [Person] values and a flat list of
// [Relation] values. Two relation types exist:
//
//   - [Lineage]: directed, Source is the parent and Target the child
//   - [Spouse]: undirected, stored once and read from both ends
//
// The graph may be disconnected, may contain several parents per child,
// several marriages per person, and even cycles created by accidental edits.
// Nothing in this package rejects such shapes; the engines in
// [github.com/kintree/kintree/pkg/family/kinship] and
// [github.com/kintree/kintree/pkg/family/layout] are written to terminate on
// them.
//
// # Adjacency
//
// [BuildAdjacency] turns the flat lists into three lookups (parents-of,
// children-of, spouses-of). Relations whose endpoints are not known persons
// are dropped silently. The adjacency is derived data and is rebuilt from
// scratch on every computation:
//
//	adj := family.BuildAdjacency(doc.Persons, doc.Relations)
//	for _, p := range adj.Parents("me") {
//	    fmt.Println(p)
//	}
//
// # Documents and Editing
//
// A [Document] bundles persons, relations, the reference person and the label
// overrides. Editing operations ([Document.Connect], [Document.AddRelative],
// [Document.RemovePerson], ...) never mutate the receiver; they return a new
// Document. [Document.Connect] carries the auto-connect rule: linking a second
// parent to a child also links the two parents as spouses.
//
// # Concurrency
//
// All types are plain values. Concurrent reads of the same Document are safe;
// editing returns copies, so no synchronization is needed between readers and
// a writer that publishes a new Document.
package family
