package ticket

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// GitHubTicketer files escalations as labeled issues in a tracking
// repository.
type GitHubTicketer struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubTicketer creates a ticketer for the given repository using a
// static token.
func NewGitHubTicketer(ctx context.Context, token, owner, repo string) (*GitHubTicketer, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("ticket repository owner and name are required")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &GitHubTicketer{client: github.NewClient(tc), owner: owner, repo: repo}, nil
}

// Create files an issue labeled with team and priority. The issue body
// embeds the inquiry ID so an externally driven retry can detect an
// already-filed ticket.
func (t *GitHubTicketer) Create(ctx context.Context, decision model.RoutingDecision, inquiry model.Inquiry) (model.TicketRef, error) {
	title := Summary(inquiry.Question)
	body := buildIssueBody(decision, inquiry)
	labels := []string{
		"team/" + string(decision.Team),
		"priority/" + string(decision.Priority),
		"automated",
		"infrastructure",
	}

	issue, _, err := t.client.Issues.Create(ctx, t.owner, t.repo, &github.IssueRequest{
		Title:  github.String(title),
		Body:   github.String(body),
		Labels: &labels,
	})
	if err != nil {
		return model.TicketRef{}, fmt.Errorf("failed to create ticket: %w", err)
	}

	return model.TicketRef{
		ID:  fmt.Sprintf("%s/%s#%d", t.owner, t.repo, issue.GetNumber()),
		URL: issue.GetHTMLURL(),
	}, nil
}

// buildIssueBody renders the escalation details for the assigned team.
func buildIssueBody(decision model.RoutingDecision, inquiry model.Inquiry) string {
	var sb strings.Builder

	sb.WriteString("## Infrastructure Inquiry\n\n")
	sb.WriteString(fmt.Sprintf("**Question:**\n%s\n\n", inquiry.Question))

	sb.WriteString("**Details:**\n")
	sb.WriteString(fmt.Sprintf("- Inquiry ID: %s\n", inquiry.ID))
	sb.WriteString(fmt.Sprintf("- Requester: %s\n", inquiry.RequesterID))
	if len(inquiry.Environments) > 0 {
		envs := make([]string, len(inquiry.Environments))
		for i, e := range inquiry.Environments {
			envs[i] = string(e)
		}
		sb.WriteString(fmt.Sprintf("- Environment: %s\n", strings.Join(envs, ", ")))
	} else {
		sb.WriteString("- Environment: not specified\n")
	}
	if inquiry.Deadline != nil {
		sb.WriteString(fmt.Sprintf("- Deadline: %s\n", inquiry.Deadline.Format("2006-01-02")))
	} else {
		sb.WriteString("- Deadline: not specified\n")
	}
	sb.WriteString(fmt.Sprintf("- Priority: %s\n\n", decision.Priority))

	sb.WriteString(fmt.Sprintf("**Assigned Team:** %s\n", decision.Team))
	sb.WriteString(fmt.Sprintf("**Routing:** %s (%s)\n\n", decision.Rationale, decision.Method))

	sb.WriteString("---\n")
	sb.WriteString("*This ticket was automatically filed by opsdesk.*\n")

	return sb.String()
}
