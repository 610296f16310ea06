// Package workflow contains Temporal workflow definitions.
package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/tinkerloft/opsdesk/internal/activity"
	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/pipeline"
	"github.com/tinkerloft/opsdesk/internal/resolve"
)

// Query names
const (
	QueryState = "get_state"
)

// Inquiry is the durable version of the inquiry pipeline. It mirrors the
// synchronous supervisor's failure policy exactly: classification failure
// falls back to defaults, retrieval outage fails open to escalation, and a
// ticket-creation failure terminates in EscalationFailed with the routing
// decision preserved.
func Inquiry(ctx workflow.Context, inquiry model.Inquiry) (*model.ResolutionOutcome, error) {
	logger := workflow.GetLogger(ctx)

	// Workflow state, exposed via query
	state := pipeline.StateReceived

	if err := workflow.SetQueryHandler(ctx, QueryState, func() (pipeline.State, error) {
		return state, nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register state query: %w", err)
	}

	// Retry policy for activities
	retryPolicy := &temporal.RetryPolicy{
		InitialInterval:    time.Second,
		MaximumInterval:    30 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumAttempts:    3,
	}

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         retryPolicy,
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	logger.Info("Starting inquiry workflow", "inquiryID", inquiry.ID)

	// 1. Classify. Exhausted retries substitute the default classification;
	// an unclassified inquiry still gets answered or escalated.
	var cls model.Classification
	if err := workflow.ExecuteActivity(ctx, activity.ActivityClassify, inquiry.Question).Get(ctx, &cls); err != nil {
		logger.Warn("Classification failed, using defaults", "error", err)
		cls = model.DefaultClassification()
	}
	state = pipeline.StateClassified

	// 2. Knowledge lookup. Exhausted retries fail open: the inquiry is
	// treated as unresolved and proceeds to escalation.
	var resolution resolve.Resolution
	if err := workflow.ExecuteActivity(ctx, activity.ActivitySearchKnowledge, inquiry.Question).Get(ctx, &resolution); err != nil {
		logger.Error("Knowledge retrieval unavailable, failing open to escalation", "error", err)
		resolution = resolve.Resolution{}
	}
	state = pipeline.StateKnowledgeChecked

	var out model.ResolutionOutcome
	if resolution.Resolved {
		m := resolution.Match
		// workflow.Now, not wall clock: the timestamp must replay identically.
		out = model.NewAutoResolvedOutcomeAt(inquiry.ID, cls, m.Entry.Answer, m.Entry.ID, m.Tier, workflow.Now(ctx).UTC())
		state = pipeline.StateAutoResolved
		logger.Info("Inquiry auto-resolved", "entryID", m.Entry.ID, "confidence", m.Tier)
	} else {
		// 3. Route
		state = pipeline.StateRouting
		var decision model.RoutingDecision
		routeInput := activity.RouteTeamInput{Inquiry: inquiry, Classification: cls}
		if err := workflow.ExecuteActivity(ctx, activity.ActivityRouteTeam, routeInput).Get(ctx, &decision); err != nil {
			// Routing is deterministic; this only fires on worker loss.
			return nil, fmt.Errorf("failed to route inquiry: %w", err)
		}

		// 4. File ticket. Single attempt: a blind retry after an ambiguous
		// failure could file the same ticket twice.
		ticketOptions := workflow.ActivityOptions{
			StartToCloseTimeout: time.Minute,
			RetryPolicy: &temporal.RetryPolicy{
				MaximumAttempts: 1,
			},
		}
		ticketCtx := workflow.WithActivityOptions(ctx, ticketOptions)

		var ref model.TicketRef
		ticketInput := activity.CreateTicketInput{Inquiry: inquiry, Decision: decision}
		if err := workflow.ExecuteActivity(ticketCtx, activity.ActivityCreateTicket, ticketInput).Get(ticketCtx, &ref); err != nil {
			out = model.NewEscalationFailedOutcomeAt(inquiry.ID, cls, decision, err.Error(), workflow.Now(ctx).UTC())
			state = pipeline.StateEscalationFailed
			logger.Error("Ticket creation failed", "team", decision.Team, "error", err)
		} else {
			out = model.NewEscalatedOutcomeAt(inquiry.ID, cls, decision, ref, workflow.Now(ctx).UTC())
			state = pipeline.StateEscalated
			logger.Info("Inquiry escalated", "team", decision.Team, "ticket", ref.ID)
		}
	}

	// 5. Record outcome. The activity swallows persistence errors itself.
	if err := workflow.ExecuteActivity(ctx, activity.ActivityRecordOutcome, out).Get(ctx, nil); err != nil {
		logger.Warn("Outcome recording activity failed", "error", err)
	}

	return &out, nil
}
