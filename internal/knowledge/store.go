// Package knowledge provides semantic search over indexed question/answer
// entries.
package knowledge

import (
	"context"
	"errors"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// ErrUnavailable indicates the search backend is unreachable. It must
// propagate to the caller: a silent empty result would be indistinguishable
// from "no match".
var ErrUnavailable = errors.New("knowledge store unavailable")

// Store returns semantically ranked matches for a query, ordered by ascending
// distance. The result holds at most topK matches; an empty result is valid
// and not an error. Implementations are read-only.
type Store interface {
	Search(ctx context.Context, query string, topK int) ([]model.RetrievalMatch, error)
}
