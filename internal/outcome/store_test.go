package outcome_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
)

func newTestStore(t *testing.T) *outcome.Store {
	t.Helper()
	store, err := outcome.NewStore(filepath.Join(t.TempDir(), "outcomes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGetAutoResolved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cls := model.Classification{Urgency: model.UrgencyLow, Category: "network"}
	out := model.NewAutoResolvedOutcome("inq-1", cls, "systemctl restart nginx", "restart-nginx", model.ConfidenceHigh)
	require.NoError(t, store.Record(ctx, out))

	got, err := store.Get(ctx, "inq-1")
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeAutoResolved, got.Status)
	assert.Equal(t, cls, got.Classification)
	assert.Equal(t, "systemctl restart nginx", got.Answer)
	assert.Equal(t, "restart-nginx", got.SourceEntryID)
	assert.Equal(t, model.ConfidenceHigh, got.Confidence)
	assert.Nil(t, got.Routing)
	assert.Nil(t, got.Ticket)
	assert.False(t, got.CompletedAt.IsZero())
}

func TestRecordAndGetEscalated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cls := model.Classification{Urgency: model.UrgencyCritical, Category: "database"}
	decision := model.RoutingDecision{
		Team:      model.TeamDatabase,
		Priority:  model.PriorityHighest,
		Method:    model.RoutingMethodKeyword,
		Rationale: "matched 3 keyword(s) for the database team",
	}
	ref := model.TicketRef{ID: "org/infra#7", URL: "https://github.test/org/infra/issues/7"}
	require.NoError(t, store.Record(ctx, model.NewEscalatedOutcome("inq-2", cls, decision, ref)))

	got, err := store.Get(ctx, "inq-2")
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeEscalated, got.Status)
	require.NotNil(t, got.Routing)
	assert.Equal(t, decision, *got.Routing)
	require.NotNil(t, got.Ticket)
	assert.Equal(t, ref, *got.Ticket)
}

func TestRecordAndGetEscalationFailed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	decision := model.RoutingDecision{Team: model.TeamSecurity, Priority: model.PriorityHigh, Method: model.RoutingMethodCategory, Rationale: "category map"}
	out := model.NewEscalationFailedOutcome("inq-3", model.DefaultClassification(), decision, "tracker unreachable")
	require.NoError(t, store.Record(ctx, out))

	got, err := store.Get(ctx, "inq-3")
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeEscalationFailed, got.Status)
	require.NotNil(t, got.Routing)
	assert.Equal(t, decision, *got.Routing)
	assert.Nil(t, got.Ticket)
	assert.Equal(t, "tracker unreachable", got.FailureReason)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "no-such-inquiry")
	assert.True(t, errors.Is(err, outcome.ErrNotFound))
}

func TestSummarize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	decision := func(team model.Team) model.RoutingDecision {
		return model.RoutingDecision{Team: team, Priority: model.PriorityNormal, Method: model.RoutingMethodKeyword}
	}
	ref := model.TicketRef{ID: "org/infra#1"}

	clsDB := model.Classification{Urgency: model.UrgencyNormal, Category: "database"}
	clsNet := model.Classification{Urgency: model.UrgencyNormal, Category: "network"}

	require.NoError(t, store.Record(ctx, model.NewAutoResolvedOutcome("a1", clsDB, "ans", "kb-1", model.ConfidenceHigh)))
	require.NoError(t, store.Record(ctx, model.NewAutoResolvedOutcome("a2", clsNet, "ans", "kb-2", model.ConfidenceMedium)))
	require.NoError(t, store.Record(ctx, model.NewEscalatedOutcome("e1", clsDB, decision(model.TeamDatabase), ref)))
	require.NoError(t, store.Record(ctx, model.NewEscalatedOutcome("e2", clsDB, decision(model.TeamDatabase), ref)))
	require.NoError(t, store.Record(ctx, model.NewEscalationFailedOutcome("f1", clsNet, decision(model.TeamNetwork), "boom")))

	sum, err := store.Summarize(ctx, outcome.PeriodAll)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Total)
	assert.Equal(t, 2, sum.AutoResolved)
	assert.Equal(t, 2, sum.Escalated)
	assert.Equal(t, 1, sum.Failed)
	assert.InDelta(t, 40.0, sum.KBHitRate, 0.01)

	require.NotEmpty(t, sum.ByTeam)
	assert.Equal(t, "database", sum.ByTeam[0].Label)
	assert.Equal(t, 2, sum.ByTeam[0].Count)

	require.NotEmpty(t, sum.ByCategory)
	assert.Equal(t, "database", sum.ByCategory[0].Label)
	assert.Equal(t, 3, sum.ByCategory[0].Count)
}

func TestSummarizeEmpty(t *testing.T) {
	store := newTestStore(t)
	sum, err := store.Summarize(context.Background(), outcome.PeriodToday)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, 0.0, sum.KBHitRate)
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, outcome.PeriodToday, outcome.ParsePeriod("today"))
	assert.Equal(t, outcome.PeriodWeek, outcome.ParsePeriod("week"))
	assert.Equal(t, outcome.PeriodWeek, outcome.ParsePeriod("weekly"))
	assert.Equal(t, outcome.PeriodMonth, outcome.ParsePeriod("month"))
	assert.Equal(t, outcome.PeriodAll, outcome.ParsePeriod("all"))
	assert.Equal(t, outcome.PeriodToday, outcome.ParsePeriod(""))
	assert.Equal(t, outcome.PeriodToday, outcome.ParsePeriod("bogus"))
}

func TestRecordRejectsDuplicateInquiry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	out := model.NewAutoResolvedOutcome("inq-dup", model.DefaultClassification(), "a", "kb-1", model.ConfidenceHigh)
	require.NoError(t, store.Record(ctx, out))
	assert.Error(t, store.Record(ctx, out))

	sum, err := store.Summarize(ctx, outcome.PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
}
