// Package resolve decides whether a knowledge search result is confident
// enough to answer an inquiry without human involvement.
package resolve

import (
	"context"
	"fmt"

	"github.com/tinkerloft/opsdesk/internal/knowledge"
	"github.com/tinkerloft/opsdesk/internal/model"
)

// Config holds the resolver thresholds. It is immutable after construction so
// tests can inject arbitrary values.
type Config struct {
	// TopK is how many matches to request per query.
	TopK int
	// AutoResolveCutoff is the exclusive distance threshold below which the
	// best match is accepted as a final answer. It is strictly tighter than
	// the medium display threshold.
	AutoResolveCutoff float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{TopK: 3, AutoResolveCutoff: 0.4}
}

// Resolution is the outcome of a knowledge lookup. Unresolved is a normal
// outcome, not an error.
type Resolution struct {
	// Resolved reports whether Match was accepted as a final answer.
	Resolved bool
	// Match is the accepted answer when Resolved is true.
	Match *model.RetrievalMatch
	// BestCandidate is the closest match when Resolved is false, carried for
	// audit and context only. It must never be surfaced as an accepted
	// answer.
	BestCandidate *model.RetrievalMatch
}

// Resolver applies the confidence-threshold policy over a knowledge Store.
type Resolver struct {
	store knowledge.Store
	cfg   Config
}

// New creates a Resolver. Pass the cached store in production; any Store
// works.
func New(store knowledge.Store, cfg Config) *Resolver {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.AutoResolveCutoff <= 0 {
		cfg.AutoResolveCutoff = DefaultConfig().AutoResolveCutoff
	}
	return &Resolver{store: store, cfg: cfg}
}

// Resolve queries the store for the question and applies the auto-resolve
// cutoff. The store's ascending-distance order is the tie-break: the first
// match wins. Store errors (including knowledge.ErrUnavailable) propagate.
func (r *Resolver) Resolve(ctx context.Context, question string) (Resolution, error) {
	matches, err := r.store.Search(ctx, question, r.cfg.TopK)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolving inquiry: %w", err)
	}
	if len(matches) == 0 {
		return Resolution{}, nil
	}

	best := matches[0]
	if best.Distance < r.cfg.AutoResolveCutoff {
		return Resolution{Resolved: true, Match: &best}, nil
	}
	return Resolution{BestCandidate: &best}, nil
}
