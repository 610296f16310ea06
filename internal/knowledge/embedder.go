package knowledge

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Embedder produces vector representations of texts. EmbedQuery is the
// single-text variant used on the search path.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder wraps a langchaingo embedder backed by a local Ollama
// server.
type OllamaEmbedder struct {
	impl *embeddings.EmbedderImpl
}

// DefaultEmbeddingModel is the embedding model used when none is configured.
const DefaultEmbeddingModel = "nomic-embed-text"

// NewOllamaEmbedder creates an embedder for the given Ollama server URL and
// model name. Empty arguments fall back to localhost and the default model.
func NewOllamaEmbedder(serverURL, embedModel string) (*OllamaEmbedder, error) {
	if embedModel == "" {
		embedModel = DefaultEmbeddingModel
	}
	opts := []ollama.Option{ollama.WithModel(embedModel)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	impl, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return &OllamaEmbedder{impl: impl}, nil
}

// EmbedDocuments embeds a batch of texts.
func (e *OllamaEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding documents: %v", ErrUnavailable, err)
	}
	return vecs, nil
}

// EmbedQuery embeds a single query text.
func (e *OllamaEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", ErrUnavailable, err)
	}
	return vec, nil
}
