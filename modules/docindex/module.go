// Package docindex contributes the read-side operation (get) for the
// "document" entity type, completing the set the memstore plugin starts.
// It also keeps per-document read counts as its own value-add.
package docindex

import (
	"context"
	"fmt"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/internal/ctxlog"
	"github.com/vk/opmix/internal/plugin"
	"github.com/vk/opmix/modules/memstore"
)

// Plugin implements the plugin.Factory interface for this package.
type Plugin struct{}

// Name returns the manifest-facing plugin name.
func (p *Plugin) Name() string { return "docindex" }

// Index tracks how often each document has been read.
type Index struct {
	mu    sync.Mutex
	reads map[string]int
}

// Reads returns the read count for a document ID.
func (ix *Index) Reads(id string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.reads[id]
}

func (ix *Index) record(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.reads[id]++
}

// Group builds the docindex contribution group: a get-only bundle for
// the "document" type, reading the same store memstore writes to.
func (p *Plugin) Group(ctx context.Context, opts map[string]cty.Value) (*plugin.Group, error) {
	store := memstore.Shared()
	index := &Index{reads: make(map[string]int)}

	docs := bundle.New("document", bundle.Ops{
		Get: getDocument(store, index),
	})

	return plugin.NewGroup(plugin.GroupSpec{
		Name:    "docindex",
		Version: "1.0.0",
		OnReady: func(ctx context.Context, g *plugin.Group, args ...any) error {
			ctxlog.FromContext(ctx).Debug("Document index ready.", "group", g.Name)
			return nil
		},
		Bundles: []plugin.Member{{Name: "document", Bundle: docs}},
	}), nil
}

// getDocument looks up a document by ID: get(id).
func getDocument(store *memstore.Store, index *Index) bundle.Op {
	return func(ctx context.Context, args ...any) (any, error) {
		if len(args) < 1 {
			return nil, fmt.Errorf("missing document ID argument")
		}
		id, ok := args[0].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("document ID must be a non-empty string, got %T", args[0])
		}

		doc, found := store.Lookup(id)
		if !found {
			return nil, fmt.Errorf("document %q not found", id)
		}
		index.record(id)
		return doc, nil
	}
}
