// Package yamlstore contributes a complete operation set (make, get,
// set, del) for the "profile" entity type, persisted to a YAML file.
// The group is guarded: without a configured path it is skipped
// entirely and contributes nothing.
package yamlstore

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/ctxlog"
	"github.com/vk/opmix/internal/plugin"
)

// Plugin implements the plugin.Factory interface for this package.
type Plugin struct{}

// Name returns the manifest-facing plugin name.
func (p *Plugin) Name() string { return "yamlstore" }

// Group builds the yamlstore contribution group from manifest options.
// Supported options:
//
//	path - location of the YAML file holding all profiles (required;
//	       the group's load guard skips the plugin when absent).
func (p *Plugin) Group(ctx context.Context, opts map[string]cty.Value) (*plugin.Group, error) {
	var path string
	if v, ok := opts["path"]; ok {
		if err := gocty.FromCtyValue(v, &path); err != nil {
			return nil, fmt.Errorf("option 'path' must be a string: %w", err)
		}
	}

	store := newFileStore(path)

	profiles := bundle.New("profile", bundle.Ops{
		Make: makeProfile(store),
		Get:  getProfile(store),
		Set:  setProfile(store),
		Del:  delProfile(store),
	})

	return plugin.NewGroup(plugin.GroupSpec{
		Name:    "yamlstore",
		Version: "1.0.0",
		LoadGuard: func() bool {
			return path != ""
		},
		OnReady: func(ctx context.Context, g *plugin.Group, args ...any) error {
			if err := store.load(); err != nil {
				return fmt.Errorf("failed to open profile store: %w", err)
			}
			ctxlog.FromContext(ctx).Debug("Profile store ready.", "group", g.Name, "path", path, "profiles", store.len())
			return nil
		},
		Bundles: []plugin.Member{{Name: "profile", Bundle: profiles}},
	}), nil
}

// makeProfile creates a named profile: make(name, attrs).
func makeProfile(store *fileStore) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		name, attrs, err := profileArgs(args)
		if err != nil {
			return nil, err
		}
		return attrs, store.create(name, attrs)
	}
}

// getProfile looks up a profile by name: get(name).
func getProfile(store *fileStore) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		name, err := nameArg(args)
		if err != nil {
			return nil, err
		}
		return store.get(name)
	}
}

// setProfile replaces an existing profile's attributes: set(name, attrs).
func setProfile(store *fileStore) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		name, attrs, err := profileArgs(args)
		if err != nil {
			return nil, err
		}
		return attrs, store.update(name, attrs)
	}
}

// delProfile removes a profile: del(name).
func delProfile(store *fileStore) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		name, err := nameArg(args)
		if err != nil {
			return nil, err
		}
		return nil, store.delete(name)
	}
}

func nameArg(args []any) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("missing profile name argument")
	}
	name, ok := args[0].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("profile name must be a non-empty string, got %T", args[0])
	}
	return name, nil
}

func profileArgs(args []any) (string, map[string]any, error) {
	name, err := nameArg(args)
	if err != nil {
		return "", nil, err
	}
	if len(args) < 2 || args[1] == nil {
		return name, map[string]any{}, nil
	}
	attrs, ok := args[1].(map[string]any)
	if !ok {
		return "", nil, fmt.Errorf("profile attributes must be map[string]any, got %T", args[1])
	}
	return name, attrs, nil
}
