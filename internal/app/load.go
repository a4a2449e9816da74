package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/internal/schemaclient"
)

// loadSchemaSources merges the configured sources into reg. Later sources
// replace earlier definitions: manifests, then object_info files, then the
// live endpoint.
func loadSchemaSources(ctx context.Context, reg *registry.Registry, cfg *Config) error {
	logger := ctxlog.FromContext(ctx)

	for _, path := range cfg.Manifests {
		if err := reg.LoadManifestsRecursively(ctx, path); err != nil {
			return err
		}
	}

	for _, path := range cfg.ObjectInfo {
		if err := reg.LoadObjectInfoFile(ctx, path); err != nil {
			return err
		}
	}

	if cfg.Endpoint != "" {
		client := schemaclient.New(cfg.Endpoint, schemaclient.Options{Timeout: cfg.EndpointTimeout})
		defer client.Close()

		data, err := client.ObjectInfo(ctx)
		if err != nil {
			return err
		}
		if err := reg.LoadObjectInfo(ctx, data, client.Source()); err != nil {
			return err
		}
	}

	if reg.Len() == 0 {
		return fmt.Errorf("no operation schemas available")
	}
	logger.Debug("Schema sources loaded.", "operations", reg.Len())
	return nil
}
