// Package graph provides the serialization formats for family documents and
// computed results.
//
// This package defines the wire format used for document files, API bodies
// and cache entries. It sits between the in-memory model (pkg/family) and
// the outside world:
//
//   - [Document], [Node], [Edge]: document serialization (this package)
//   - family.Document: in-memory model used by the engines and editor
//
// Use [ToDocument]/[FromDocument] to convert between them.
//
// # Document Format
//
// Documents keep the keys of the browser editor's export:
//
//	{
//	  "nodes": [{"id": "1", "name": "Me", "gender": "neutral", "x": 0, "y": 0}],
//	  "edges": [{"id": "e1", "source": "2", "target": "1", "type": "lineage"}],
//	  "rootId": "1",
//	  "relationshipMap": {"me": "Me"}
//	}
//
// Lineage edges point from parent to child. "spousal" is accepted as an alias
// of "spouse" on input. A document without "nodes" is rejected; missing
// "edges" and "relationshipMap" default to empty and a missing "rootId"
// defaults to the first node.
//
// The same structure can be written as TOML or YAML; the format is picked
// from the file extension:
//
//	doc, _ := graph.ReadFile("family.yaml")
//	graph.WriteFile(doc, "family.toml")
//	data, _ := graph.Marshal(doc, graph.FormatJSON)
//
// # Results
//
// [Result] carries the relationship labels, positions and generation levels
// computed for one document and reference person.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
