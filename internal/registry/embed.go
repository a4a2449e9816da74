package registry

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/wfscript/internal/model"
)

// ParseManifestFS parses every .hcl manifest in fsys, in lexical path
// order. It is the loader behind compiled-in schema catalogs.
func ParseManifestFS(ctx context.Context, fsys fs.FS) ([]*model.Operation, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".hcl" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk manifests: %w", err)
	}
	sort.Strings(paths)

	parser := hclparse.NewParser()
	var ops []*model.Operation
	for _, p := range paths {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, err
		}
		hclFile, diags := parser.ParseHCL(src, p)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", p, diags)
		}
		parsed, err := model.NewOperations(ctx, hclFile, p)
		if err != nil {
			return nil, fmt.Errorf("failed to process operation manifest in %s: %w", p, err)
		}
		ops = append(ops, parsed...)
	}
	return ops, nil
}

// MustRegisterManifests registers every operation of the manifests in fsys.
// Compiled-in catalogs are part of the binary, so any error is a
// programming error and panics.
func (r *Registry) MustRegisterManifests(fsys fs.FS) {
	ops, err := ParseManifestFS(context.Background(), fsys)
	if err != nil {
		panic(fmt.Sprintf("invalid compiled-in manifests: %v", err))
	}
	for _, op := range ops {
		r.RegisterOperation(op)
	}
}
