// Package ticket files escalation tickets with the tracking system.
package ticket

import (
	"context"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Ticketer creates a tracked ticket for a routed escalation. Called only on
// escalation. Implementations must tolerate being retried by an external
// process; the pipeline itself never retries automatically, to avoid
// double-ticket risk.
type Ticketer interface {
	Create(ctx context.Context, decision model.RoutingDecision, inquiry model.Inquiry) (model.TicketRef, error)
}

// summaryMaxLen caps the ticket title length; longer questions are truncated
// with an ellipsis.
const summaryMaxLen = 100

// Summary derives a ticket title from a question. Truncation counts runes,
// not bytes, so a multi-byte question never yields an invalid-UTF-8 title.
func Summary(question string) string {
	runes := []rune(question)
	if len(runes) <= summaryMaxLen {
		return question
	}
	return string(runes[:summaryMaxLen-3]) + "..."
}
