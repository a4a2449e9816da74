// Package core is the compiled-in schema catalog of the engine's built-in
// operation types.
package core

import (
	"embed"
	"io/fs"

	"github.com/specialistvlad/wfscript/internal/registry"
)

//go:embed manifests/*.hcl
var manifests embed.FS

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the built-in operation schemas to the registry.
func (m *Module) Register(r *registry.Registry) {
	sub, err := fs.Sub(manifests, "manifests")
	if err != nil {
		panic(err)
	}
	r.MustRegisterManifests(sub)
}
