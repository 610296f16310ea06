package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerloft/opsdesk/internal/model"
)

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		in   string
		want model.Environment
		ok   bool
	}{
		{"PROD", model.EnvProduction, true},
		{"production", model.EnvProduction, true},
		{" stg ", model.EnvStaging, true},
		{"Staging", model.EnvStaging, true},
		{"PERF", model.EnvPerformance, true},
		{"dev", model.EnvDevelopment, true},
		{"qa", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := model.ParseEnvironment(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestNewInquiry(t *testing.T) {
	inq := model.NewInquiry("how do I restart nginx?", "U123", "C456")

	assert.NotEmpty(t, inq.ID)
	assert.Equal(t, "how do I restart nginx?", inq.Question)
	assert.Equal(t, "U123", inq.RequesterID)
	assert.Equal(t, "C456", inq.ChannelID)
	assert.WithinDuration(t, time.Now().UTC(), inq.SubmittedAt, time.Minute)
	assert.Nil(t, inq.Deadline)
	assert.Nil(t, inq.ThreadTS)

	other := model.NewInquiry("same question", "U123", "C456")
	assert.NotEqual(t, inq.ID, other.ID)
}

func TestInquiryWithers(t *testing.T) {
	base := model.NewInquiry("q", "U1", "C1")
	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	modified := base.
		WithEnvironments(model.EnvProduction, model.EnvStaging).
		WithDeadline(deadline).
		WithThreadTS("1725000000.000100")

	// Originals untouched
	assert.Empty(t, base.Environments)
	assert.Nil(t, base.Deadline)
	assert.Nil(t, base.ThreadTS)

	assert.Equal(t, []model.Environment{model.EnvProduction, model.EnvStaging}, modified.Environments)
	require.NotNil(t, modified.Deadline)
	assert.Equal(t, deadline, *modified.Deadline)
	require.NotNil(t, modified.ThreadTS)
	assert.Equal(t, "1725000000.000100", *modified.ThreadTS)
}

func TestPointerHelpers(t *testing.T) {
	s := model.StringPtr("1725000000.000100")
	require.NotNil(t, s)
	assert.Equal(t, "1725000000.000100", *s)

	at := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	p := model.TimePtr(at)
	require.NotNil(t, p)
	assert.Equal(t, at, *p)
}

func TestParseUrgency(t *testing.T) {
	assert.Equal(t, model.UrgencyLow, model.ParseUrgency("low"))
	assert.Equal(t, model.UrgencyHigh, model.ParseUrgency(" HIGH "))
	assert.Equal(t, model.UrgencyCritical, model.ParseUrgency("critical"))
	// The classifier occasionally answers "medium"; that and anything unknown
	// normalize to normal.
	assert.Equal(t, model.UrgencyNormal, model.ParseUrgency("medium"))
	assert.Equal(t, model.UrgencyNormal, model.ParseUrgency("normal"))
	assert.Equal(t, model.UrgencyNormal, model.ParseUrgency("asap!!"))
	assert.Equal(t, model.UrgencyNormal, model.ParseUrgency(""))
}

func TestDefaultClassification(t *testing.T) {
	cls := model.DefaultClassification()
	assert.Equal(t, model.UrgencyNormal, cls.Urgency)
	assert.Equal(t, model.CategoryUnclassified, cls.Category)
}
