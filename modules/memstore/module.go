// Package memstore contributes the write-side operations (make, set,
// del) for the "document" entity type, backed by an in-memory store.
// The read side is contributed by the docindex plugin against the same
// store; the registry merges both into one complete operation set.
package memstore

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/plugin"
)

// Plugin implements the plugin.Factory interface for this package.
type Plugin struct{}

// Name returns the manifest-facing plugin name.
func (p *Plugin) Name() string { return "memstore" }

// Group builds the memstore contribution group. The plugin takes no
// options; its store is shared process state.
func (p *Plugin) Group(ctx context.Context, opts map[string]cty.Value) (*plugin.Group, error) {
	store := Shared()

	docs := bundle.New("document", bundle.Ops{
		Make: makeDocument(store),
		Set:  setDocument(store),
		Del:  delDocument(store),
	})

	return plugin.NewGroup(plugin.GroupSpec{
		Name:    "memstore",
		Version: "1.0.0",
		Bundles: []plugin.Member{{Name: "document", Bundle: docs}},
	}), nil
}

// makeDocument creates a document from an optional fields map argument.
func makeDocument(store *Store) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		fields, err := fieldsArg(args, 0)
		if err != nil {
			return nil, err
		}
		return store.Create(fields), nil
	}
}

// setDocument replaces an existing document's fields: set(id, fields).
func setDocument(store *Store) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		id, err := idArg(args, 0)
		if err != nil {
			return nil, err
		}
		fields, err := fieldsArg(args, 1)
		if err != nil {
			return nil, err
		}
		return store.Update(id, fields)
	}
}

// delDocument removes a document: del(id).
func delDocument(store *Store) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		id, err := idArg(args, 0)
		if err != nil {
			return nil, err
		}
		return nil, store.Delete(id)
	}
}

func idArg(args []any, i int) (string, error) {
	if len(args) <= i {
		return "", fmt.Errorf("missing document ID argument at position %d", i)
	}
	id, ok := args[i].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("document ID must be a non-empty string, got %T", args[i])
	}
	return id, nil
}

func fieldsArg(args []any, i int) (map[string]any, error) {
	if len(args) <= i || args[i] == nil {
		return nil, nil
	}
	fields, ok := args[i].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document fields must be map[string]any, got %T", args[i])
	}
	return fields, nil
}
