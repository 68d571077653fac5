package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the Store behavior every backend must share.
// It assumes an initially empty store and leaves it empty again.
func runStoreContract(t *testing.T, ctx context.Context, store Store, identifier string) {
	t.Helper()

	assert.Equal(t, identifier, store.Identifier())

	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	first := StoredDocument{
		Document: Document{
			ID:       "contract-first",
			Content:  "AWS V100 pricing overview",
			Metadata: map[string]string{"provider": "AWS", "topic": "pricing"},
		},
		Embedding: []float32{0.25, 0.5, 0.75},
	}
	second := StoredDocument{
		Document: Document{ID: "contract-second", Content: "Azure K80 notes"},
	}

	require.NoError(t, store.Insert(ctx, first))
	require.NoError(t, store.Insert(ctx, second))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, ok, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.Content, got.Content)
	assert.Equal(t, first.Metadata, got.Metadata)
	assert.Equal(t, first.Embedding, got.Embedding)

	_, ok, err = store.Get(ctx, "contract-missing")
	require.NoError(t, err)
	assert.False(t, ok, "a missing id is not an error, just absent")

	// Replace swaps content in place under the same id.
	first.Content = "AWS V100 pricing overview (revised)"
	require.NoError(t, store.Replace(ctx, first))
	got, ok, err = store.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AWS V100 pricing overview (revised)", got.Content)

	err = store.Replace(ctx, StoredDocument{Document: Document{ID: "contract-missing"}})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := map[string]bool{}
	for _, doc := range all {
		ids[doc.ID] = true
	}
	assert.True(t, ids[first.ID])
	assert.True(t, ids[second.ID])

	require.NoError(t, store.Remove(ctx, first.ID))
	_, ok, err = store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Remove(ctx, "contract-missing"), "removing an absent id is a no-op")

	require.NoError(t, store.Remove(ctx, second.ID))
	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, context.Background(), NewMemoryStore("contract_docs"), "contract_docs")
}

func TestMemoryStore_AllPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("ordered_docs")

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Insert(ctx, StoredDocument{Document: Document{ID: id}}))
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "b", all[2].ID)
}
