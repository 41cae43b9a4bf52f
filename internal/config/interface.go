package config

import (
	"context"
)

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads the composition manifest from the given paths (files
	// or directories) and translates it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
