package model

// Team identifies a responsible team for escalated inquiries.
type Team string

const (
	TeamPlatform Team = "platform"
	TeamDevOps   Team = "devops"
	TeamDatabase Team = "database"
	TeamSecurity Team = "security"
	TeamNetwork  Team = "network"
	// TeamUnrouted is the fallback when no team can be determined. Escalation
	// must always produce a team; a human still has to see the inquiry.
	TeamUnrouted Team = "unrouted"
)

// ParseTeam maps a team name to its Team value. Returns false for names
// outside the known set.
func ParseTeam(name string) (Team, bool) {
	switch Team(name) {
	case TeamPlatform, TeamDevOps, TeamDatabase, TeamSecurity, TeamNetwork, TeamUnrouted:
		return Team(name), true
	default:
		return "", false
	}
}

// Priority is a ticket priority derived from classified urgency.
type Priority string

const (
	PriorityLow     Priority = "low"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
	PriorityHighest Priority = "highest"
)

// PriorityForUrgency maps urgency to ticket priority, independent of team.
func PriorityForUrgency(u Urgency) Priority {
	switch u {
	case UrgencyCritical:
		return PriorityHighest
	case UrgencyHigh:
		return PriorityHigh
	case UrgencyLow:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// RoutingMethod records how a routing decision was reached.
type RoutingMethod string

const (
	RoutingMethodKeyword  RoutingMethod = "keyword"
	RoutingMethodCategory RoutingMethod = "category"
	RoutingMethodFallback RoutingMethod = "fallback"
)

// RoutingDecision is the team + priority assignment for an escalated inquiry.
// Produced exactly once per escalation.
type RoutingDecision struct {
	Team      Team          `json:"team"`
	Priority  Priority      `json:"priority"`
	Method    RoutingMethod `json:"method"`
	Rationale string        `json:"rationale"`
}

// TicketRef points at a ticket filed with the tracking system.
type TicketRef struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}
