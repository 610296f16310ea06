package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tinkerloft/opsdesk/internal/model"
)

func TestTierForDistance(t *testing.T) {
	tests := []struct {
		distance float64
		want     model.ConfidenceTier
	}{
		{0.0, model.ConfidenceHigh},
		{0.29, model.ConfidenceHigh},
		{0.3, model.ConfidenceMedium}, // boundary is exclusive
		{0.45, model.ConfidenceMedium},
		{0.59, model.ConfidenceMedium},
		{0.6, model.ConfidenceNone}, // boundary is exclusive
		{0.9, model.ConfidenceNone},
		{2.0, model.ConfidenceNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, model.TierForDistance(tt.distance), "distance %v", tt.distance)
	}
}

func TestNewRetrievalMatch(t *testing.T) {
	entry := model.KnowledgeEntry{ID: "kb-1", Question: "q", Answer: "a"}
	m := model.NewRetrievalMatch(entry, 0.25)
	assert.Equal(t, entry, m.Entry)
	assert.Equal(t, 0.25, m.Distance)
	assert.Equal(t, model.ConfidenceHigh, m.Tier)
}

func TestPriorityForUrgency(t *testing.T) {
	assert.Equal(t, model.PriorityHighest, model.PriorityForUrgency(model.UrgencyCritical))
	assert.Equal(t, model.PriorityHigh, model.PriorityForUrgency(model.UrgencyHigh))
	assert.Equal(t, model.PriorityNormal, model.PriorityForUrgency(model.UrgencyNormal))
	assert.Equal(t, model.PriorityLow, model.PriorityForUrgency(model.UrgencyLow))
}

func TestParseTeam(t *testing.T) {
	team, ok := model.ParseTeam("platform")
	assert.True(t, ok)
	assert.Equal(t, model.TeamPlatform, team)

	_, ok = model.ParseTeam("helpdesk")
	assert.False(t, ok)
}

func TestOutcomeConstructors(t *testing.T) {
	cls := model.Classification{Urgency: model.UrgencyHigh, Category: "database"}

	auto := model.NewAutoResolvedOutcome("inq-1", cls, "run VACUUM", "kb-7", model.ConfidenceHigh)
	assert.Equal(t, model.OutcomeAutoResolved, auto.Status)
	assert.Equal(t, "run VACUUM", auto.Answer)
	assert.Equal(t, "kb-7", auto.SourceEntryID)
	assert.Nil(t, auto.Routing)
	assert.Nil(t, auto.Ticket)
	assert.False(t, auto.CompletedAt.IsZero())

	decision := model.RoutingDecision{Team: model.TeamDatabase, Priority: model.PriorityHigh, Method: model.RoutingMethodKeyword}
	esc := model.NewEscalatedOutcome("inq-2", cls, decision, model.TicketRef{ID: "org/infra#42", URL: "https://example.test/42"})
	assert.Equal(t, model.OutcomeEscalated, esc.Status)
	assert.Equal(t, &decision, esc.Routing)
	assert.Equal(t, "org/infra#42", esc.Ticket.ID)
	assert.Empty(t, esc.Answer)

	failed := model.NewEscalationFailedOutcome("inq-3", cls, decision, "api unreachable")
	assert.Equal(t, model.OutcomeEscalationFailed, failed.Status)
	assert.Equal(t, &decision, failed.Routing)
	assert.Nil(t, failed.Ticket)
	assert.Equal(t, "api unreachable", failed.FailureReason)
}

func TestOutcomeConstructorsWithExplicitClock(t *testing.T) {
	cls := model.DefaultClassification()
	decision := model.RoutingDecision{Team: model.TeamPlatform, Priority: model.PriorityNormal, Method: model.RoutingMethodFallback}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	auto := model.NewAutoResolvedOutcomeAt("inq-1", cls, "a", "kb-1", model.ConfidenceHigh, at)
	assert.Equal(t, at, auto.CompletedAt)

	esc := model.NewEscalatedOutcomeAt("inq-2", cls, decision, model.TicketRef{ID: "org/infra#1"}, at)
	assert.Equal(t, at, esc.CompletedAt)

	failed := model.NewEscalationFailedOutcomeAt("inq-3", cls, decision, "boom", at)
	assert.Equal(t, at, failed.CompletedAt)
}
