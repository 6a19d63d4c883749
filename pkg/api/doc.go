// Package api exposes the kinship and layout engines over HTTP.
//
// # Routes
//
//	POST /v1/adjacency      {nodes, edges}                     -> {parentsOf, childrenOf, spousesOf}
//	POST /v1/relationships  document                           -> {rootId, relationships}
//	POST /v1/layout         document + siblingGap/levelHeight  -> {rootId, positions}
//	POST /v1/tree           document + siblingGap/levelHeight  -> labels, positions and levels
//	POST /v1/connect        {document, source, target, type}   -> updated document
//	GET  /healthz
//	GET  /metrics           (when a Prometheus gatherer is configured)
//
// The engine routes accept ?root=<id> to pick a reference person other than
// the document's rootId.
//
// Documents use the same JSON shape as the files read by [graph.Read]. All
// computation goes through a shared [pipeline.Runner], so responses are
// cached when the runner has a cache.
//
// # Errors
//
// Failures are returned as {"code": ..., "message": ...}. INVALID_* codes map
// to 400, UNKNOWN_* codes to 404, CONFLICT to 409 and everything else to 500.
package api
