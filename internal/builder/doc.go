/*
Package builder is responsible for turning a decoded workflow document into a
checked *graph.Graph. It acts as the bridge between the format-level view (the
'workflow' package) and the transpiler (the 'transpile' package).

The graph construction is a multi-phase process:

 1. Version Check: The document's format version is compared with the
    supported one. A mismatch is logged and tolerated unless strict mode is
    requested, in which case it is an ErrUnsupportedVersion.

 2. Node Creation: The builder iterates through the document's nodes,
    creating a corresponding *graph.Node for each one and resolving the slot
    of every output descriptor. Duplicate ids are rejected.

 3. Dependency Linking: Every link is checked against its endpoints, then
    each input's link reference is resolved, which records fan-out on the
    producing node.

 4. Validation: The connected links are mirrored into the generic `dag`
    package and its cycle detection ensures the graph can be ordered.

Every structural defect is reported as an ErrMalformedGraph.

The package also provides the built-in schemas of the editor-only node types
(reroutes, primitive constants and notes) through WithBuiltins.
*/
package builder
