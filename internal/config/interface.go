package config

import "context"

// Loader is the interface for a format-specific settings loader.
type Loader interface {
	// Load reads the settings at path. An empty path yields the defaults.
	Load(ctx context.Context, path string) (*Model, error)
}
