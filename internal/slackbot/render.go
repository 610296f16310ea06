package slackbot

import (
	"fmt"
	"strings"

	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
)

// renderOutcome formats a terminal outcome as a Slack message. Every outcome
// produces a message: the requester always hears back.
func renderOutcome(inquiry model.Inquiry, out model.ResolutionOutcome) string {
	var sb strings.Builder

	switch out.Status {
	case model.OutcomeAutoResolved:
		if out.Confidence == model.ConfidenceMedium {
			sb.WriteString(":mag: I found a *possibly related* answer. Please verify it fits your situation:\n\n")
		} else {
			sb.WriteString(":white_check_mark: Here's what I found:\n\n")
		}
		sb.WriteString(out.Answer)
		sb.WriteString(fmt.Sprintf("\n\n_Answered from the knowledge base (entry `%s`). If this doesn't help, rephrase your question or mention more detail and I'll escalate it._", out.SourceEntryID))

	case model.OutcomeEscalated:
		sb.WriteString(":ticket: I couldn't answer this from the knowledge base, so I've escalated it.\n\n")
		sb.WriteString(fmt.Sprintf("*Team:* %s\n*Priority:* %s\n", out.Routing.Team, out.Routing.Priority))
		if out.Ticket != nil {
			if out.Ticket.URL != "" {
				sb.WriteString(fmt.Sprintf("*Ticket:* <%s|%s>\n", out.Ticket.URL, out.Ticket.ID))
			} else {
				sb.WriteString(fmt.Sprintf("*Ticket:* %s\n", out.Ticket.ID))
			}
		}
		if len(inquiry.Environments) > 0 {
			sb.WriteString(fmt.Sprintf("*Environments:* %s\n", joinEnvironments(inquiry.Environments)))
		}
		if inquiry.Deadline != nil {
			sb.WriteString(fmt.Sprintf("*Deadline:* %s\n", inquiry.Deadline.Format("2006-01-02")))
		}

	case model.OutcomeEscalationFailed:
		sb.WriteString(":warning: I couldn't answer this from the knowledge base, and a ticket *could not be filed automatically*.\n\n")
		if out.Routing != nil {
			sb.WriteString(fmt.Sprintf("Please contact the *%s* team directly (priority: %s).\n", out.Routing.Team, out.Routing.Priority))
		}
		sb.WriteString(fmt.Sprintf("Reference ID: `%s`", out.InquiryID))
	}

	return sb.String()
}

// renderSummary formats aggregate counts for the metrics command.
func renderSummary(s outcome.Summary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(":bar_chart: *Inquiry metrics — %s*\n\n", periodLabel(s.Period)))
	sb.WriteString(fmt.Sprintf("*Total inquiries:* %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("*Auto-resolved:* %d\n", s.AutoResolved))
	sb.WriteString(fmt.Sprintf("*Escalated:* %d\n", s.Escalated))
	if s.Failed > 0 {
		sb.WriteString(fmt.Sprintf("*Escalation failures:* %d\n", s.Failed))
	}
	sb.WriteString(fmt.Sprintf("*KB hit rate:* %.0f%%\n", s.KBHitRate))

	if len(s.ByTeam) > 0 {
		sb.WriteString("\n*Escalations by team:*\n")
		for _, c := range s.ByTeam {
			sb.WriteString(fmt.Sprintf("• %s: %d\n", c.Label, c.Count))
		}
	}
	if len(s.ByCategory) > 0 {
		sb.WriteString("\n*By category:*\n")
		for _, c := range s.ByCategory {
			sb.WriteString(fmt.Sprintf("• %s: %d\n", c.Label, c.Count))
		}
	}

	return sb.String()
}

func periodLabel(p outcome.Period) string {
	switch p {
	case outcome.PeriodToday:
		return "today"
	case outcome.PeriodWeek:
		return "this week"
	case outcome.PeriodMonth:
		return "this month"
	default:
		return "all time"
	}
}

func joinEnvironments(envs []model.Environment) string {
	names := make([]string, len(envs))
	for i, env := range envs {
		names[i] = string(env)
	}
	return strings.Join(names, ", ")
}
