package model

import "time"

// OutcomeStatus is the terminal status of an inquiry.
type OutcomeStatus string

const (
	OutcomeAutoResolved     OutcomeStatus = "auto_resolved"
	OutcomeEscalated        OutcomeStatus = "escalated"
	OutcomeEscalationFailed OutcomeStatus = "escalation_failed"
)

// ResolutionOutcome is the terminal record of the pipeline for one inquiry.
// It is never mutated after creation; corrections require a new
// Inquiry/Outcome pair.
type ResolutionOutcome struct {
	InquiryID      string         `json:"inquiry_id"`
	Status         OutcomeStatus  `json:"status"`
	Classification Classification `json:"classification"`

	// Auto-resolution fields.
	Answer        string         `json:"answer,omitempty"`
	SourceEntryID string         `json:"source_entry_id,omitempty"`
	Confidence    ConfidenceTier `json:"confidence,omitempty"`

	// Escalation fields.
	Routing *RoutingDecision `json:"routing,omitempty"`
	Ticket  *TicketRef       `json:"ticket,omitempty"`
	// FailureReason is set only for escalation_failed outcomes.
	FailureReason string `json:"failure_reason,omitempty"`

	CompletedAt time.Time `json:"completed_at"`
}

// NewAutoResolvedOutcome creates the terminal record for an inquiry answered
// from the knowledge base, stamped with the current wall-clock time.
func NewAutoResolvedOutcome(inquiryID string, cls Classification, answer, sourceEntryID string, tier ConfidenceTier) ResolutionOutcome {
	return NewAutoResolvedOutcomeAt(inquiryID, cls, answer, sourceEntryID, tier, time.Now().UTC())
}

// NewAutoResolvedOutcomeAt is the variant for callers that must supply their
// own clock. Workflow code passes workflow.Now so replay recomputes the same
// record.
func NewAutoResolvedOutcomeAt(inquiryID string, cls Classification, answer, sourceEntryID string, tier ConfidenceTier, completedAt time.Time) ResolutionOutcome {
	return ResolutionOutcome{
		InquiryID:      inquiryID,
		Status:         OutcomeAutoResolved,
		Classification: cls,
		Answer:         answer,
		SourceEntryID:  sourceEntryID,
		Confidence:     tier,
		CompletedAt:    completedAt,
	}
}

// NewEscalatedOutcome creates the terminal record for an inquiry routed to a
// team with a filed ticket, stamped with the current wall-clock time.
func NewEscalatedOutcome(inquiryID string, cls Classification, routing RoutingDecision, ticket TicketRef) ResolutionOutcome {
	return NewEscalatedOutcomeAt(inquiryID, cls, routing, ticket, time.Now().UTC())
}

// NewEscalatedOutcomeAt is the own-clock variant of NewEscalatedOutcome.
func NewEscalatedOutcomeAt(inquiryID string, cls Classification, routing RoutingDecision, ticket TicketRef, completedAt time.Time) ResolutionOutcome {
	return ResolutionOutcome{
		InquiryID:      inquiryID,
		Status:         OutcomeEscalated,
		Classification: cls,
		Routing:        &routing,
		Ticket:         &ticket,
		CompletedAt:    completedAt,
	}
}

// NewEscalationFailedOutcome records a routed inquiry whose ticket could not
// be filed. The routing decision is preserved for retry and visibility.
func NewEscalationFailedOutcome(inquiryID string, cls Classification, routing RoutingDecision, reason string) ResolutionOutcome {
	return NewEscalationFailedOutcomeAt(inquiryID, cls, routing, reason, time.Now().UTC())
}

// NewEscalationFailedOutcomeAt is the own-clock variant of
// NewEscalationFailedOutcome.
func NewEscalationFailedOutcomeAt(inquiryID string, cls Classification, routing RoutingDecision, reason string, completedAt time.Time) ResolutionOutcome {
	return ResolutionOutcome{
		InquiryID:      inquiryID,
		Status:         OutcomeEscalationFailed,
		Classification: cls,
		Routing:        &routing,
		FailureReason:  reason,
		CompletedAt:    completedAt,
	}
}
