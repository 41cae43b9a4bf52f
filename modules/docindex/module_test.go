package docindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/opmix/internal/bundle"
	"github.com/vk/opmix/modules/memstore"
)

func TestGroup_Shape(t *testing.T) {
	t.Parallel()

	g, err := (&Plugin{}).Group(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "docindex", g.Name)
	assert.NotNil(t, g.OnReady)
	require.Len(t, g.Bundles, 1)

	docs := g.Bundles[0].Bundle
	assert.Equal(t, "document", docs.Type())
	assert.NotNil(t, docs.Op(bundle.Get))
	assert.Nil(t, docs.Op(bundle.Make))
	assert.Nil(t, docs.Op(bundle.Set))
	assert.Nil(t, docs.Op(bundle.Del))
}

func TestGetDocument_ReadsSharedStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	doc := memstore.Shared().Create(map[string]any{"title": "indexed"})

	g, err := (&Plugin{}).Group(ctx, nil)
	require.NoError(t, err)
	get := g.Bundles[0].Bundle.Op(bundle.Get)

	out, err := get(ctx, doc.ID)
	require.NoError(t, err)
	got := out.(memstore.Document)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "indexed", got.Fields["title"])

	_, err = get(ctx, "no-such-id")
	assert.ErrorContains(t, err, "not found")

	_, err = get(ctx)
	assert.ErrorContains(t, err, "missing document ID")
}

func TestIndex_CountsReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	doc := memstore.Shared().Create(nil)

	store := memstore.Shared()
	index := &Index{reads: make(map[string]int)}
	get := getDocument(store, index)

	for i := 0; i < 3; i++ {
		_, err := get(ctx, doc.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, index.Reads(doc.ID))
	assert.Zero(t, index.Reads("never-read"))
}
