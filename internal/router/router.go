// Package router assigns escalated inquiries to responsible teams.
package router

import (
	"fmt"
	"strings"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// TeamRule maps a team to the keywords that select it.
type TeamRule struct {
	Team     model.Team
	Keywords []string
}

// Config holds the routing tables. Immutable after construction; tests inject
// their own tables.
type Config struct {
	// Teams are evaluated in order; on a score tie the earlier rule wins, so
	// routing is deterministic for identical inputs.
	Teams []TeamRule
	// CategoryMap selects a team from the classification category when no
	// keyword matches.
	CategoryMap map[string]model.Team
	// FallbackTeam receives inquiries nothing else claims. Defaults to
	// unrouted.
	FallbackTeam model.Team
}

// DefaultConfig returns the production team tables.
func DefaultConfig() Config {
	return Config{
		Teams: []TeamRule{
			{Team: model.TeamPlatform, Keywords: []string{"kubernetes", "k8s", "pod", "deployment", "container", "docker", "scaling", "orchestration"}},
			{Team: model.TeamDevOps, Keywords: []string{"ci/cd", "pipeline", "jenkins", "gitlab", "monitoring", "prometheus", "grafana", "alert", "automation"}},
			{Team: model.TeamDatabase, Keywords: []string{"postgres", "postgresql", "mysql", "database", "db", "sql", "connection", "query", "performance"}},
			{Team: model.TeamSecurity, Keywords: []string{"ssl", "tls", "certificate", "auth", "access", "permission", "vulnerability", "compliance", "firewall"}},
			{Team: model.TeamNetwork, Keywords: []string{"dns", "load balancer", "nginx", "connectivity", "network", "routing", "port", "ip"}},
		},
		CategoryMap: map[string]model.Team{
			"kubernetes": model.TeamPlatform,
			"deployment": model.TeamPlatform,
			"monitoring": model.TeamDevOps,
			"database":   model.TeamDatabase,
			"security":   model.TeamSecurity,
			"network":    model.TeamNetwork,
		},
		FallbackTeam: model.TeamUnrouted,
	}
}

// Router is a pure decision function over its config. Ticket creation is the
// caller's concern.
type Router struct {
	cfg Config
}

// New creates a Router. An empty fallback team defaults to unrouted.
func New(cfg Config) *Router {
	if cfg.FallbackTeam == "" {
		cfg.FallbackTeam = model.TeamUnrouted
	}
	return &Router{cfg: cfg}
}

// Route decides the responsible team and priority for an escalated inquiry.
// It always produces a team: keyword match first, classification category
// next, fallback last. Priority derives from urgency alone.
func (r *Router) Route(inquiry model.Inquiry, cls model.Classification) model.RoutingDecision {
	priority := model.PriorityForUrgency(cls.Urgency)

	if team, hits, ok := r.keywordMatch(inquiry.Question); ok {
		return model.RoutingDecision{
			Team:      team,
			Priority:  priority,
			Method:    model.RoutingMethodKeyword,
			Rationale: fmt.Sprintf("matched %d keyword(s) for the %s team", hits, team),
		}
	}

	if team, ok := r.cfg.CategoryMap[strings.ToLower(cls.Category)]; ok {
		return model.RoutingDecision{
			Team:      team,
			Priority:  priority,
			Method:    model.RoutingMethodCategory,
			Rationale: fmt.Sprintf("classified category %q maps to the %s team", cls.Category, team),
		}
	}

	return model.RoutingDecision{
		Team:      r.cfg.FallbackTeam,
		Priority:  priority,
		Method:    model.RoutingMethodFallback,
		Rationale: "no keyword or category match; assigned to the fallback team for human triage",
	}
}

// keywordMatch scores each team rule by keyword occurrences in the question.
// The highest score wins; ties go to the earlier rule.
func (r *Router) keywordMatch(question string) (model.Team, int, bool) {
	text := strings.ToLower(question)

	bestTeam := model.Team("")
	bestScore := 0
	for _, rule := range r.cfg.Teams {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestTeam = rule.Team
		}
	}
	return bestTeam, bestScore, bestScore > 0
}
