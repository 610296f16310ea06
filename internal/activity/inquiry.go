package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tinkerloft/opsdesk/internal/classify"
	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
	"github.com/tinkerloft/opsdesk/internal/resolve"
	"github.com/tinkerloft/opsdesk/internal/router"
	"github.com/tinkerloft/opsdesk/internal/ticket"
)

// InquiryActivities contains Temporal activities for the inquiry pipeline.
// Each activity wraps one collaborator; the workflow owns sequencing and
// failure policy.
type InquiryActivities struct {
	Classifier classify.Classifier
	Resolver   *resolve.Resolver
	Router     *router.Router
	Ticketer   ticket.Ticketer
	Recorder   outcome.Recorder
}

// Classify determines urgency and category for an inquiry's question text.
// Errors propagate so the workflow's retry policy applies; the workflow
// substitutes the default classification once retries are exhausted.
func (a *InquiryActivities) Classify(ctx context.Context, question string) (model.Classification, error) {
	cls, err := a.Classifier.Classify(ctx, question)
	if err != nil {
		return model.Classification{}, fmt.Errorf("classify: %w", err)
	}
	return cls, nil
}

// SearchKnowledge runs the knowledge lookup and confidence gate. Retrieval
// outages surface as errors; the workflow fails open to escalation.
func (a *InquiryActivities) SearchKnowledge(ctx context.Context, question string) (resolve.Resolution, error) {
	resolution, err := a.Resolver.Resolve(ctx, question)
	if err != nil {
		return resolve.Resolution{}, fmt.Errorf("search knowledge: %w", err)
	}
	return resolution, nil
}

// RouteTeamInput carries everything routing needs.
type RouteTeamInput struct {
	Inquiry        model.Inquiry        `json:"inquiry"`
	Classification model.Classification `json:"classification"`
}

// RouteTeam picks the responsible team. Routing is deterministic and cannot
// fail; it runs as an activity so the team tables live with the worker, not
// inside workflow code.
func (a *InquiryActivities) RouteTeam(ctx context.Context, input RouteTeamInput) (model.RoutingDecision, error) {
	decision := a.Router.Route(input.Inquiry, input.Classification)
	slog.InfoContext(ctx, "inquiry routed",
		"inquiry_id", input.Inquiry.ID, "team", decision.Team, "method", decision.Method)
	return decision, nil
}

// CreateTicketInput carries everything ticket filing needs.
type CreateTicketInput struct {
	Inquiry  model.Inquiry         `json:"inquiry"`
	Decision model.RoutingDecision `json:"decision"`
}

// CreateTicket files an escalation ticket. The workflow registers this with
// a single attempt: a blind retry after an ambiguous failure could file the
// same ticket twice.
func (a *InquiryActivities) CreateTicket(ctx context.Context, input CreateTicketInput) (model.TicketRef, error) {
	ref, err := a.Ticketer.Create(ctx, input.Decision, input.Inquiry)
	if err != nil {
		return model.TicketRef{}, fmt.Errorf("create ticket: %w", err)
	}
	return ref, nil
}

// RecordOutcome persists the terminal outcome. Failures are logged and
// swallowed so bookkeeping can never fail an already-decided inquiry.
func (a *InquiryActivities) RecordOutcome(ctx context.Context, out model.ResolutionOutcome) error {
	if a.Recorder == nil {
		return nil
	}
	if err := a.Recorder.Record(ctx, out); err != nil {
		slog.WarnContext(ctx, "failed to record outcome", "inquiry_id", out.InquiryID, "err", err)
	}
	return nil
}
