package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/fsutil"
	"github.com/specialistvlad/wfscript/internal/model"
)

// LoadManifestsRecursively parses every .hcl manifest under path (a file or
// a directory) and merges the schemas into the registry.
func (reg *Registry) LoadManifestsRecursively(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading operation manifests...", "path", path)

	filePaths, err := fsutil.FindFiles(path, ".hcl")
	if err != nil {
		logger.Error("Failed to walk manifest path", "path", path, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path", "path", path)
		return nil
	}

	logger.Debug("Found HCL files to load", "files", filePaths)

	parser := hclparse.NewParser()
	loaded := 0
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		ops, err := model.NewOperations(ctx, hclFile, filePath)
		if err != nil {
			return fmt.Errorf("failed to process operation manifest in %s: %w", filePath, err)
		}
		replaced := reg.Merge(ops)
		loaded += len(ops)
		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath, "operations", len(ops), "replaced", replaced)
	}

	logger.Info("Operation manifests loaded.", "operations_loaded", loaded, "registry_size", reg.Len())
	return nil
}

// LoadObjectInfoFile reads an object_info JSON document from disk.
func (reg *Registry) LoadObjectInfoFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read object_info file: %w", err)
	}
	return reg.LoadObjectInfo(ctx, data, path)
}

// LoadObjectInfo merges the schemas of an object_info document.
func (reg *Registry) LoadObjectInfo(ctx context.Context, data []byte, source string) error {
	logger := ctxlog.FromContext(ctx)

	ops, err := model.ParseObjectInfo(data, source)
	if err != nil {
		return err
	}
	replaced := reg.Merge(ops)
	logger.Info("object_info loaded.", "source", source, "operations_loaded", len(ops), "replaced", replaced, "registry_size", reg.Len())
	return nil
}
