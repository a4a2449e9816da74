// Package registry provides the central schema lookup of the application.
//
// The Registry maps operation type names (e.g. "KSampler") to their
// model.Operation schemas and implements model.SchemaProvider for the
// transpiler. It is populated from three kinds of sources, in order:
//
//  1. Compiled-in catalogs registered through the Module interface.
//  2. HCL manifests discovered on disk.
//  3. object_info documents, read from disk or fetched from an engine.
//
// Later sources replace earlier definitions of the same type, so a live
// engine's schema always wins over the built-in catalog. After loading, the
// registry is validated to catch malformed schemas before any workflow is
// transpiled against them.
package registry
