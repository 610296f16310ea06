package outcome

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Period selects the reporting window for a summary.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod maps the spellings accepted by the chat command to a Period.
// Unknown values default to today, matching the original bot.
func ParsePeriod(s string) Period {
	switch s {
	case "week", "weekly":
		return PeriodWeek
	case "month", "monthly":
		return PeriodMonth
	case "all", "total", "alltime":
		return PeriodAll
	default:
		return PeriodToday
	}
}

// Count is a labeled tally, ordered by descending count in Summary results.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary aggregates recorded outcomes over a period for the reporting
// surface.
type Summary struct {
	Period       Period    `json:"period"`
	Since        time.Time `json:"since,omitzero"`
	Total        int       `json:"total"`
	AutoResolved int       `json:"auto_resolved"`
	Escalated    int       `json:"escalated"`
	Failed       int       `json:"escalation_failed"`
	// KBHitRate is the auto-resolved share in percent; 0 when Total is 0.
	KBHitRate  float64 `json:"kb_hit_rate"`
	ByTeam     []Count `json:"by_team,omitempty"`
	ByCategory []Count `json:"by_category,omitempty"`
}

// periodStart returns the inclusive window start, or zero time for all-time.
func periodStart(p Period, now time.Time) time.Time {
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		// Week starts Monday, matching the original report.
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		y, m, d := now.AddDate(0, 0, -(weekday - 1)).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case PeriodMonth:
		y, m, _ := now.Date()
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Summarize computes the reporting summary for a period.
func (s *Store) Summarize(ctx context.Context, p Period) (Summary, error) {
	since := periodStart(p, time.Now().UTC())
	sum := Summary{Period: p, Since: since}

	row := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
FROM outcomes WHERE completed_at >= ?`,
		string(model.OutcomeAutoResolved), string(model.OutcomeEscalated), string(model.OutcomeEscalationFailed),
		since.Format(time.RFC3339))
	if err := row.Scan(&sum.Total, &sum.AutoResolved, &sum.Escalated, &sum.Failed); err != nil {
		return Summary{}, fmt.Errorf("summarizing outcomes: %w", err)
	}
	if sum.Total > 0 {
		sum.KBHitRate = float64(sum.AutoResolved) / float64(sum.Total) * 100
	}

	var err error
	if sum.ByTeam, err = s.countBy(ctx, "team", since); err != nil {
		return Summary{}, err
	}
	if sum.ByCategory, err = s.countBy(ctx, "category", since); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

// countBy tallies non-empty values of a column within the window. The column
// name is one of two fixed identifiers, never user input.
func (s *Store) countBy(ctx context.Context, column string, since time.Time) ([]Count, error) {
	q := fmt.Sprintf(`
SELECT %s, COUNT(*) FROM outcomes
WHERE completed_at >= ? AND %s IS NOT NULL AND %s != ''
GROUP BY %s`, column, column, column, column)

	rows, err := s.db.QueryContext(ctx, q, since.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("counting outcomes by %s: %w", column, err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning %s count: %w", column, err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting outcomes by %s: %w", column, err)
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	return counts, nil
}
