package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Index is an in-memory vector index over knowledge entries. Entries are
// embedded once at load time; queries are embedded per search. Load replaces
// the whole entry set atomically so the out-of-band loader can refresh the
// knowledge base while searches are in flight.
type Index struct {
	embedder Embedder

	mu      sync.RWMutex
	entries []indexedEntry
}

type indexedEntry struct {
	entry  model.KnowledgeEntry
	vector []float32
}

// NewIndex creates an empty Index using the given embedder.
func NewIndex(embedder Embedder) *Index {
	return &Index{embedder: embedder}
}

// Load embeds the given entries and replaces the index contents. Entry order
// is preserved; it is the tie-break for equal distances.
func (ix *Index) Load(ctx context.Context, entries []model.KnowledgeEntry) error {
	texts := make([]string, len(entries))
	for i, e := range entries {
		// Question and answer are embedded together so answers contribute to
		// recall, matching how the entries were authored.
		texts[i] = e.Question + " " + e.Answer
	}

	var vectors [][]float32
	if len(texts) > 0 {
		var err error
		vectors, err = ix.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return fmt.Errorf("loading knowledge index: %w", err)
		}
		if len(vectors) != len(entries) {
			return fmt.Errorf("loading knowledge index: got %d vectors for %d entries", len(vectors), len(entries))
		}
	}

	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], vector: vectors[i]}
	}

	ix.mu.Lock()
	ix.entries = indexed
	ix.mu.Unlock()
	return nil
}

// Count returns the number of indexed entries.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search implements Store. Results are ordered by ascending cosine distance;
// the sort is stable so load order breaks ties.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]model.RetrievalMatch, error) {
	if topK <= 0 {
		return nil, nil
	}

	ix.mu.RLock()
	entries := ix.entries
	ix.mu.RUnlock()

	if len(entries) == 0 {
		return nil, nil
	}

	qvec, err := ix.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("searching knowledge index: %w", err)
	}

	matches := make([]model.RetrievalMatch, 0, len(entries))
	for _, ie := range entries {
		matches = append(matches, model.NewRetrievalMatch(ie.entry, cosineDistance(qvec, ie.vector)))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// cosineDistance returns 1 - cosine similarity, clamped to [0, 2]. Mismatched
// or zero vectors yield the maximum distance so they never rank as matches.
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	d := 1 - sim
	if d < 0 {
		return 0
	}
	return d
}
