// Package outcome persists terminal resolution records and aggregates them
// for reporting.
package outcome

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Recorder accepts terminal resolution records. Append-only: each outcome is
// an independent insert, no cross-inquiry transaction. A recording failure
// must never undo a delivered answer or a created ticket.
type Recorder interface {
	Record(ctx context.Context, outcome model.ResolutionOutcome) error
}

// Store is a sqlite-backed Recorder plus the read contract for the reporting
// surface.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the outcome database at the given path and
// runs migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating outcome db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening outcome db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, dbPath: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
	inquiry_id        TEXT PRIMARY KEY,
	status            TEXT NOT NULL,
	urgency           TEXT NOT NULL,
	category          TEXT NOT NULL,
	answer            TEXT,
	source_entry_id   TEXT,
	confidence        TEXT,
	team              TEXT,
	priority          TEXT,
	routing_method    TEXT,
	routing_rationale TEXT,
	ticket_id         TEXT,
	ticket_url        TEXT,
	failure_reason    TEXT,
	completed_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_completed_at ON outcomes (completed_at);
CREATE INDEX IF NOT EXISTS idx_outcomes_team ON outcomes (team);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrating outcome db: %w", err)
	}
	return nil
}

// Record inserts a terminal outcome. Outcomes are immutable; a second record
// for the same inquiry is a caller bug and fails on the primary key.
func (s *Store) Record(ctx context.Context, o model.ResolutionOutcome) error {
	var team, priority, method, rationale, ticketID, ticketURL sql.NullString
	if o.Routing != nil {
		team = sql.NullString{String: string(o.Routing.Team), Valid: true}
		priority = sql.NullString{String: string(o.Routing.Priority), Valid: true}
		method = sql.NullString{String: string(o.Routing.Method), Valid: true}
		rationale = sql.NullString{String: o.Routing.Rationale, Valid: true}
	}
	if o.Ticket != nil {
		ticketID = sql.NullString{String: o.Ticket.ID, Valid: true}
		ticketURL = sql.NullString{String: o.Ticket.URL, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO outcomes (
	inquiry_id, status, urgency, category,
	answer, source_entry_id, confidence,
	team, priority, routing_method, routing_rationale,
	ticket_id, ticket_url, failure_reason, completed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.InquiryID, string(o.Status), string(o.Classification.Urgency), o.Classification.Category,
		o.Answer, o.SourceEntryID, string(o.Confidence),
		team, priority, method, rationale,
		ticketID, ticketURL, o.FailureReason, o.CompletedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording outcome for %s: %w", o.InquiryID, err)
	}
	return nil
}

// ErrNotFound is returned by Get when no outcome has been recorded for the
// given inquiry.
var ErrNotFound = errors.New("outcome not found")

// Get returns the recorded outcome for an inquiry, or ErrNotFound.
func (s *Store) Get(ctx context.Context, inquiryID string) (model.ResolutionOutcome, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT inquiry_id, status, urgency, category,
       answer, source_entry_id, confidence,
       team, priority, routing_method, routing_rationale,
       ticket_id, ticket_url, failure_reason, completed_at
FROM outcomes WHERE inquiry_id = ?`, inquiryID)

	var o model.ResolutionOutcome
	var status, urgency, confidence string
	var team, priority, method, rationale, ticketID, ticketURL sql.NullString
	var completedAt string
	err := row.Scan(
		&o.InquiryID, &status, &urgency, &o.Classification.Category,
		&o.Answer, &o.SourceEntryID, &confidence,
		&team, &priority, &method, &rationale,
		&ticketID, &ticketURL, &o.FailureReason, &completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResolutionOutcome{}, ErrNotFound
	}
	if err != nil {
		return model.ResolutionOutcome{}, err
	}

	o.Status = model.OutcomeStatus(status)
	o.Classification.Urgency = model.Urgency(urgency)
	o.Confidence = model.ConfidenceTier(confidence)
	if team.Valid {
		o.Routing = &model.RoutingDecision{
			Team:      model.Team(team.String),
			Priority:  model.Priority(priority.String),
			Method:    model.RoutingMethod(method.String),
			Rationale: rationale.String,
		}
	}
	if ticketID.Valid {
		o.Ticket = &model.TicketRef{ID: ticketID.String, URL: ticketURL.String}
	}
	if ts, perr := time.Parse(time.RFC3339, completedAt); perr == nil {
		o.CompletedAt = ts
	}
	return o, nil
}
