package knowledge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerloft/opsdesk/internal/knowledge"
	"github.com/tinkerloft/opsdesk/internal/model"
)

// fakeEmbedder returns fixed vectors per text, so distances are fully
// deterministic in tests.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func testEntries() []model.KnowledgeEntry {
	return []model.KnowledgeEntry{
		{ID: "restart-nginx", Question: "how do I restart nginx", Answer: "systemctl restart nginx"},
		{ID: "scale-pods", Question: "how do I scale pods", Answer: "kubectl scale"},
		{ID: "rotate-certs", Question: "how do I rotate certificates", Answer: "use cert-manager"},
	}
}

// vectors keys match how the index embeds entries: question + " " + answer.
func testVectors() map[string][]float32 {
	return map[string][]float32{
		"how do I restart nginx systemctl restart nginx": {1, 0, 0},
		"how do I scale pods kubectl scale":               {0, 1, 0},
		"how do I rotate certificates use cert-manager":   {0.7, 0.7, 0},
	}
}

func TestIndexSearchOrdering(t *testing.T) {
	embedder := &fakeEmbedder{vectors: testVectors()}
	embedder.vectors["nginx restart"] = []float32{1, 0, 0}

	ix := knowledge.NewIndex(embedder)
	require.NoError(t, ix.Load(context.Background(), testEntries()))
	assert.Equal(t, 3, ix.Count())

	matches, err := ix.Search(context.Background(), "nginx restart", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// Identical vector → distance 0 → high confidence.
	assert.Equal(t, "restart-nginx", matches[0].Entry.ID)
	assert.InDelta(t, 0, matches[0].Distance, 1e-9)
	assert.Equal(t, model.ConfidenceHigh, matches[0].Tier)

	// 45° apart comes before orthogonal.
	assert.Equal(t, "rotate-certs", matches[1].Entry.ID)
	assert.Equal(t, "scale-pods", matches[2].Entry.ID)
	assert.Less(t, matches[1].Distance, matches[2].Distance)
}

func TestIndexSearchTopKTruncation(t *testing.T) {
	embedder := &fakeEmbedder{vectors: testVectors()}
	ix := knowledge.NewIndex(embedder)
	require.NoError(t, ix.Load(context.Background(), testEntries()))

	matches, err := ix.Search(context.Background(), "anything", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = ix.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestIndexSearchTieBreakIsLoadOrder(t *testing.T) {
	// All entries share one vector, so every distance ties; load order must
	// decide.
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	ix := knowledge.NewIndex(embedder)
	require.NoError(t, ix.Load(context.Background(), testEntries()))

	for range 5 {
		matches, err := ix.Search(context.Background(), "whatever", 3)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "restart-nginx", matches[0].Entry.ID)
		assert.Equal(t, "scale-pods", matches[1].Entry.ID)
		assert.Equal(t, "rotate-certs", matches[2].Entry.ID)
	}
}

func TestIndexSearchEmpty(t *testing.T) {
	ix := knowledge.NewIndex(&fakeEmbedder{vectors: map[string][]float32{}})
	matches, err := ix.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestIndexSearchEmbedderError(t *testing.T) {
	embedder := &fakeEmbedder{vectors: testVectors()}
	ix := knowledge.NewIndex(embedder)
	require.NoError(t, ix.Load(context.Background(), testEntries()))

	embedder.err = errors.New("connection refused")
	_, err := ix.Search(context.Background(), "q", 3)
	assert.Error(t, err)
}

func TestIndexLoadReplacesEntries(t *testing.T) {
	embedder := &fakeEmbedder{vectors: testVectors()}
	ix := knowledge.NewIndex(embedder)
	require.NoError(t, ix.Load(context.Background(), testEntries()))
	require.Equal(t, 3, ix.Count())

	require.NoError(t, ix.Load(context.Background(), testEntries()[:1]))
	assert.Equal(t, 1, ix.Count())
}
