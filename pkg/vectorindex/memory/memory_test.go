package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/pkg/vectorindex"
)

func TestIndex_QueryOrdersByCosine(t *testing.T) {
	ctx := context.Background()
	idx := New()
	require.NoError(t, idx.Upsert(ctx,
		vectorindex.Entry{ID: "a.pdf", Vector: []float32{1, 0}, Text: "a"},
		vectorindex.Entry{ID: "b.pdf", Vector: []float32{1, 1}, Text: "b"},
		vectorindex.Entry{ID: "c.pdf", Vector: []float32{0, 1}, Text: "c"},
		vectorindex.Entry{ID: "bad", Vector: []float32{1, 2, 3}},
	))

	got, err := idx.Query(ctx, []float32{2, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].ID)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, "b.pdf", got[1].ID)
	assert.InDelta(t, 0.7071, got[1].Score, 1e-3)
	assert.Equal(t, "b", got[1].Text)
}

func TestIndex_UpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	idx := New()
	require.NoError(t, idx.Upsert(ctx, vectorindex.Entry{ID: "a", Vector: []float32{1, 0}, Text: "old"}))
	require.NoError(t, idx.Upsert(ctx, vectorindex.Entry{ID: "a", Vector: []float32{0, 1}, Text: "new"}))
	assert.Equal(t, 1, idx.Len())

	got, err := idx.Query(ctx, []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Text)
}

func TestIndex_DeleteAll(t *testing.T) {
	ctx := context.Background()
	idx := New()
	require.NoError(t, idx.Upsert(ctx, vectorindex.Entry{ID: "a", Vector: []float32{1}}))
	require.NoError(t, idx.DeleteAll(ctx))
	got, err := idx.Query(ctx, []float32{1}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
