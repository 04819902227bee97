package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpankumarde/neevtrace/internal/domain"
)

func TestMemoryStore_SearchRanksByCosine(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.KnowledgeChunk{
		{ID: "a", Collection: "kb", Source: "x.pdf", Content: "rail", Vector: []float64{1, 0}},
		{ID: "b", Collection: "kb", Source: "x.pdf", Content: "road", Vector: []float64{0.7, 0.7}},
		{ID: "c", Collection: "kb", Source: "y.pdf", Content: "sea", Vector: []float64{0, 1}},
		{ID: "d", Collection: "other", Source: "z.pdf", Content: "air", Vector: []float64{1, 0}},
	}))

	hits, err := s.Search(ctx, "kb", []float64{1, 0.1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "b", hits[1].Chunk.ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestMemoryStore_SourcesAndDrop(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, []domain.KnowledgeChunk{
		{ID: "a", Collection: "kb", Source: "x.pdf", Vector: []float64{1}},
		{ID: "b", Collection: "keep", Source: "x.pdf", Vector: []float64{1}},
	}))

	ok, err := s.HasSource(ctx, "kb", "x.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DropCollection(ctx, "kb"))

	ok, err = s.HasSource(ctx, "kb", "x.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[1,2.5,-0.125]", vectorLiteral([]float64{1, 2.5, -0.125}))
	assert.Equal(t, "[]", vectorLiteral(nil))
}
