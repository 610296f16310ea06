// Package model contains data models for the inquiry triage pipeline.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Environment identifies a deployment environment an inquiry relates to.
type Environment string

const (
	EnvProduction  Environment = "PROD"
	EnvStaging     Environment = "STG"
	EnvPerformance Environment = "PERF"
	EnvDevelopment Environment = "DEV"
)

// AllEnvironments lists the selectable environments in display order.
var AllEnvironments = []Environment{EnvProduction, EnvStaging, EnvPerformance, EnvDevelopment}

// ParseEnvironment maps common spellings to an Environment. Unknown values
// return false so callers can reject or ignore them.
func ParseEnvironment(s string) (Environment, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PROD", "PRODUCTION":
		return EnvProduction, true
	case "STG", "STAGING":
		return EnvStaging, true
	case "PERF", "PERFORMANCE":
		return EnvPerformance, true
	case "DEV", "DEVELOPMENT":
		return EnvDevelopment, true
	default:
		return "", false
	}
}

// Inquiry is a single user-submitted infrastructure question. It is created at
// pipeline entry and never mutated afterwards.
type Inquiry struct {
	ID           string        `json:"id"`
	Question     string        `json:"question"`
	RequesterID  string        `json:"requester_id"`
	ChannelID    string        `json:"channel_id,omitempty"`
	ThreadTS     *string       `json:"thread_ts,omitempty"`
	Environments []Environment `json:"environments,omitempty"`
	Deadline     *time.Time    `json:"deadline,omitempty"`
	SubmittedAt  time.Time     `json:"submitted_at"`
}

// NewInquiry creates an Inquiry with a generated ID and the current timestamp.
func NewInquiry(question, requesterID, channelID string) Inquiry {
	return Inquiry{
		ID:          uuid.NewString(),
		Question:    question,
		RequesterID: requesterID,
		ChannelID:   channelID,
		SubmittedAt: time.Now().UTC(),
	}
}

// WithEnvironments returns a copy of the inquiry with the given environments.
func (i Inquiry) WithEnvironments(envs ...Environment) Inquiry {
	i.Environments = envs
	return i
}

// WithDeadline returns a copy of the inquiry with a deadline.
func (i Inquiry) WithDeadline(d time.Time) Inquiry {
	i.Deadline = TimePtr(d)
	return i
}

// WithThreadTS returns a copy of the inquiry anchored to a chat thread.
func (i Inquiry) WithThreadTS(ts string) Inquiry {
	i.ThreadTS = StringPtr(ts)
	return i
}

// Urgency is the classified urgency of an inquiry.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency normalizes a free-form urgency label. The original classifier
// sometimes answers "medium"; that maps to normal. Unknown values also map to
// normal so a sloppy upstream label can never block escalation.
func ParseUrgency(s string) Urgency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow
	case "high":
		return UrgencyHigh
	case "critical":
		return UrgencyCritical
	default:
		return UrgencyNormal
	}
}

// CategoryUnclassified is the category used when classification fails.
const CategoryUnclassified = "unclassified"

// Classification is derived from an Inquiry exactly once and attached to
// downstream records.
type Classification struct {
	Urgency  Urgency `json:"urgency"`
	Category string  `json:"category"`
}

// DefaultClassification is the fallback used when the classifier is
// unavailable. Classification failure must never block escalation.
func DefaultClassification() Classification {
	return Classification{Urgency: UrgencyNormal, Category: CategoryUnclassified}
}

// Helper functions for creating pointer values
func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}
