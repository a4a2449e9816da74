// Package graph holds the in-memory workflow graph: operation nodes and the
// typed links between their slots.
//
// # Why a separate graph model?
//
// The serialized workflow (package workflow) is a loose, format-level view.
// Links are referenced by id from both ends, ids may be numbers or strings,
// and nothing guarantees the references are consistent. The Graph is the
// checked form produced by the builder package:
//
//   - Every link's endpoints exist and every input link resolves.
//   - Link ids and node ids are unique.
//   - The graph is acyclic.
//
// Consumers (the transpiler) can therefore follow pointers without
// re-validating. The Graph is immutable once built. Per-call state, such as
// the identifiers assigned to outputs, belongs to the caller and is never
// stored on nodes, so one Graph can be transpiled any number of times.
//
// # Lifecycle
//
//  1. **Built** by builder.Build from a workflow.Document.
//  2. **Queried** by the transpiler for sinks, inputs and consumers.
//  3. **Discarded** with the request that produced it.
package graph
