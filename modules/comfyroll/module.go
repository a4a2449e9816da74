// Package comfyroll is the compiled-in schema catalog of the Comfyroll
// community node pack, whose switch nodes the elimination rules know about.
package comfyroll

import (
	"embed"
	"io/fs"

	"github.com/specialistvlad/wfscript/internal/registry"
)

//go:embed manifests/*.hcl
var manifests embed.FS

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the node pack's operation schemas to the registry.
func (m *Module) Register(r *registry.Registry) {
	sub, err := fs.Sub(manifests, "manifests")
	if err != nil {
		panic(err)
	}
	r.MustRegisterManifests(sub)
}
