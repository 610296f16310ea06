// Package pipeline orchestrates the inquiry-resolution sequence:
// classification, knowledge lookup with confidence gating, and team routing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tinkerloft/opsdesk/internal/classify"
	"github.com/tinkerloft/opsdesk/internal/metrics"
	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
	"github.com/tinkerloft/opsdesk/internal/resolve"
	"github.com/tinkerloft/opsdesk/internal/router"
	"github.com/tinkerloft/opsdesk/internal/ticket"
)

// State is a stage in an inquiry's lifecycle. Callers only ever observe the
// terminal outcome; states exist for logging and the workflow query surface.
type State string

const (
	StateReceived         State = "received"
	StateClassified       State = "classified"
	StateKnowledgeChecked State = "knowledge_checked"
	StateAutoResolved     State = "auto_resolved"
	StateRouting          State = "routing"
	StateEscalated        State = "escalated"
	StateEscalationFailed State = "escalation_failed"
)

// DefaultStepTimeout bounds each collaborator call so no step can block the
// pipeline indefinitely.
const DefaultStepTimeout = 30 * time.Second

// Supervisor composes the pipeline steps. All collaborators are injected;
// the supervisor owns only the sequencing and failure policy.
type Supervisor struct {
	classifier  classify.Classifier
	resolver    *resolve.Resolver
	router      *router.Router
	ticketer    ticket.Ticketer
	recorder    outcome.Recorder
	logger      *slog.Logger
	metrics     *metrics.Metrics
	stepTimeout time.Duration
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithStepTimeout overrides the per-step timeout.
func WithStepTimeout(d time.Duration) Option {
	return func(s *Supervisor) {
		if d > 0 {
			s.stepTimeout = d
		}
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Supervisor) { s.metrics = m }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Supervisor.
func New(classifier classify.Classifier, resolver *resolve.Resolver, rt *router.Router, ticketer ticket.Ticketer, recorder outcome.Recorder, opts ...Option) *Supervisor {
	s := &Supervisor{
		classifier:  classifier,
		resolver:    resolver,
		router:      rt,
		ticketer:    ticketer,
		recorder:    recorder,
		logger:      slog.Default(),
		stepTimeout: DefaultStepTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle runs an inquiry through the pipeline and returns exactly one
// terminal outcome. It returns an error only when the context is cancelled
// before a terminal outcome is committed; nothing is written in that case, so
// abandoning is safe.
func (s *Supervisor) Handle(ctx context.Context, inquiry model.Inquiry) (model.ResolutionOutcome, error) {
	start := time.Now()
	logger := s.logger.With("inquiry_id", inquiry.ID)
	logger.Info("inquiry received", "state", StateReceived, "requester", inquiry.RequesterID)

	cls := s.classifyStep(ctx, logger, inquiry)
	if err := ctx.Err(); err != nil {
		return model.ResolutionOutcome{}, fmt.Errorf("inquiry %s abandoned: %w", inquiry.ID, err)
	}
	logger.Info("inquiry classified", "state", StateClassified, "urgency", cls.Urgency, "category", cls.Category)

	resolution := s.resolveStep(ctx, logger, inquiry)
	if err := ctx.Err(); err != nil {
		return model.ResolutionOutcome{}, fmt.Errorf("inquiry %s abandoned: %w", inquiry.ID, err)
	}
	logger.Info("knowledge checked", "state", StateKnowledgeChecked, "resolved", resolution.Resolved)

	var out model.ResolutionOutcome
	if resolution.Resolved {
		m := resolution.Match
		out = model.NewAutoResolvedOutcome(inquiry.ID, cls, m.Entry.Answer, m.Entry.ID, m.Tier)
		logger.Info("inquiry auto-resolved", "state", StateAutoResolved, "entry_id", m.Entry.ID, "confidence", m.Tier, "distance", m.Distance)
	} else {
		out = s.escalate(ctx, logger, inquiry, cls, resolution)
	}

	s.recordStep(ctx, logger, out)
	s.observe(out, time.Since(start))
	return out, nil
}

// classifyStep runs classification with a bounded timeout. Failure never
// blocks escalation: the default classification is substituted.
func (s *Supervisor) classifyStep(ctx context.Context, logger *slog.Logger, inquiry model.Inquiry) model.Classification {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	cls, err := s.classifier.Classify(stepCtx, inquiry.Question)
	if err != nil {
		logger.Warn("classification failed, using defaults", "err", err)
		if s.metrics != nil {
			s.metrics.ClassificationFailuresTotal.Inc()
		}
		return model.DefaultClassification()
	}
	return cls
}

// resolveStep runs the knowledge lookup. A retrieval outage fails open
// toward escalation: the inquiry is treated as unresolved, never dropped.
func (s *Supervisor) resolveStep(ctx context.Context, logger *slog.Logger, inquiry model.Inquiry) resolve.Resolution {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	resolution, err := s.resolver.Resolve(stepCtx, inquiry.Question)
	if err != nil {
		logger.Error("knowledge retrieval unavailable, failing open to escalation", "err", err)
		return resolve.Resolution{}
	}
	return resolution
}

// escalate routes the inquiry and files a ticket. A ticket-creation failure
// yields EscalationFailed with the routing decision preserved; it is not
// retried here, to avoid double-ticket risk from blind retries.
func (s *Supervisor) escalate(ctx context.Context, logger *slog.Logger, inquiry model.Inquiry, cls model.Classification, resolution resolve.Resolution) model.ResolutionOutcome {
	decision := s.router.Route(inquiry, cls)
	logger.Info("inquiry routed", "state", StateRouting, "team", decision.Team, "priority", decision.Priority, "method", decision.Method)
	if best := resolution.BestCandidate; best != nil {
		// Audit only. The candidate was below the confidence bar and must
		// never be surfaced as an accepted answer.
		logger.Info("best unaccepted candidate", "entry_id", best.Entry.ID, "distance", best.Distance, "tier", best.Tier)
	}

	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()

	ref, err := s.ticketer.Create(stepCtx, decision, inquiry)
	if err != nil {
		logger.Error("ticket creation failed", "state", StateEscalationFailed, "team", decision.Team, "err", err)
		return model.NewEscalationFailedOutcome(inquiry.ID, cls, decision, err.Error())
	}

	logger.Info("inquiry escalated", "state", StateEscalated, "team", decision.Team, "ticket", ref.ID)
	if s.metrics != nil {
		s.metrics.TicketsCreatedTotal.Inc()
	}
	return model.NewEscalatedOutcome(inquiry.ID, cls, decision, ref)
}

// recordStep persists the outcome. Persistence failure degrades metrics, not
// the user-visible result: the outcome is still returned to the caller.
func (s *Supervisor) recordStep(ctx context.Context, logger *slog.Logger, out model.ResolutionOutcome) {
	if s.recorder == nil {
		return
	}
	stepCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.stepTimeout)
	defer cancel()

	if err := s.recorder.Record(stepCtx, out); err != nil {
		logger.Error("failed to record outcome", "status", out.Status, "err", err)
	}
}

func (s *Supervisor) observe(out model.ResolutionOutcome, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.InquiriesTotal.WithLabelValues(string(out.Status)).Inc()
	s.metrics.ResolveDuration.Observe(elapsed.Seconds())
}
