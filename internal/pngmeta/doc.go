// Package pngmeta reads and writes the textual metadata chunks of PNG
// files.
//
// The engine stores the workflow that produced an image in tEXt chunks
// keyed "workflow" and "prompt". Decode returns those chunks; Embed writes
// a chunk back, replacing any chunk with the same keyword. Image data is
// copied through untouched.
package pngmeta
