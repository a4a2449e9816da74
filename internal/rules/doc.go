// Package rules holds the declarative tables behind structural elimination.
//
// A switch rule lists widget-value combinations under which an operation is
// a no-op, e.g. CLIPSetLastLayer with stop_at_clip_layer = -1. A
// multiplexer rule lists, for an operation choosing between same-typed
// inputs, which widget values select which input, e.g. ImageBlend with
// blend_factor = 0 selects image1.
//
// Default returns the built-in tables; Apply extends them from the
// configuration file without any change to the passes that consult them.
package rules
