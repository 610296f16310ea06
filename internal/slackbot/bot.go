// Package slackbot connects the inquiry pipeline to Slack. It serves a
// slash-command modal for structured submissions, answers @-mentions in
// place, and exposes resolution metrics as a slash command.
package slackbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
	"github.com/tinkerloft/opsdesk/internal/pipeline"
)

// Slash command names registered with the Slack app.
const (
	CommandInquiry = "/infra-inquiry"
	CommandMetrics = "/infra-metrics"
)

// inquiryModalCallbackID identifies our modal in view submission payloads.
const inquiryModalCallbackID = "inquiry_modal"

// Summarizer provides aggregate outcome counts for the metrics command.
// Satisfied by *outcome.Store.
type Summarizer interface {
	Summarize(ctx context.Context, period outcome.Period) (outcome.Summary, error)
}

// Bot is the Slack front end. It owns the socket-mode event loop and hands
// every inquiry to the supervisor.
type Bot struct {
	api        *slack.Client
	socket     *socketmode.Client
	supervisor *pipeline.Supervisor
	summarizer Summarizer
	logger     *slog.Logger
}

// Option configures a Bot.
type Option func(*Bot)

// WithSummarizer enables the metrics slash command.
func WithSummarizer(s Summarizer) Option {
	return func(b *Bot) { b.summarizer = s }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bot) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Bot. botToken is the xoxb bot token; appToken is the xapp
// app-level token required for socket mode.
func New(botToken, appToken string, supervisor *pipeline.Supervisor, opts ...Option) (*Bot, error) {
	if !strings.HasPrefix(appToken, "xapp-") {
		return nil, fmt.Errorf("app token must start with xapp-")
	}
	if !strings.HasPrefix(botToken, "xoxb-") {
		return nil, fmt.Errorf("bot token must start with xoxb-")
	}

	api := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	b := &Bot{
		api:        api,
		socket:     socketmode.New(api),
		supervisor: supervisor,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Run processes socket-mode events until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		for evt := range b.socket.Events {
			b.dispatch(ctx, evt)
		}
	}()
	return b.socket.RunContext(ctx)
}

func (b *Bot) dispatch(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		b.handleSlashCommand(ctx, cmd)

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		if callback.Type == slack.InteractionTypeViewSubmission && callback.View.CallbackID == inquiryModalCallbackID {
			b.handleModalSubmission(ctx, callback)
		}

	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		b.socket.Ack(*evt.Request)
		if mention, ok := apiEvent.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
			b.handleMention(ctx, mention)
		}

	case socketmode.EventTypeConnectionError:
		b.logger.Warn("slack connection error", "data", evt.Data)
	}
}

func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	switch cmd.Command {
	case CommandInquiry:
		if _, err := b.api.OpenViewContext(ctx, cmd.TriggerID, buildInquiryModal(cmd.ChannelID)); err != nil {
			b.logger.Error("failed to open inquiry modal", "err", err)
		}
	case CommandMetrics:
		b.handleMetrics(ctx, cmd)
	default:
		b.logger.Warn("unknown slash command", "command", cmd.Command)
	}
}

// handleModalSubmission turns the submitted modal into an inquiry and runs
// the pipeline. The result is posted back to the channel the modal was
// opened from, or as a DM when none is known.
func (b *Bot) handleModalSubmission(ctx context.Context, callback slack.InteractionCallback) {
	values := callback.View.State.Values

	question := values[blockQuestion][actionQuestion].Value
	if strings.TrimSpace(question) == "" {
		return
	}

	channelID := callback.View.PrivateMetadata
	if channelID == "" {
		channelID = callback.User.ID
	}

	inquiry := model.NewInquiry(question, callback.User.ID, channelID)

	if selected := values[blockEnvironments][actionEnvironments].SelectedOptions; len(selected) > 0 {
		var envs []model.Environment
		for _, opt := range selected {
			if env, ok := model.ParseEnvironment(opt.Value); ok {
				envs = append(envs, env)
			}
		}
		inquiry = inquiry.WithEnvironments(envs...)
	}

	if date := values[blockDeadline][actionDeadline].SelectedDate; date != "" {
		if deadline, err := time.Parse("2006-01-02", date); err == nil {
			inquiry = inquiry.WithDeadline(deadline)
		}
	}

	b.process(ctx, inquiry, "")
}

// handleMention treats the mention text as the question and replies in the
// originating thread.
func (b *Bot) handleMention(ctx context.Context, mention *slackevents.AppMentionEvent) {
	question := stripMention(mention.Text)
	if question == "" {
		b.post(ctx, mention.Channel, mention.TimeStamp,
			"Ask me an infrastructure question, e.g. `@opsdesk how do I restart nginx on STG?`")
		return
	}

	inquiry := model.NewInquiry(question, mention.User, mention.Channel).WithThreadTS(mention.TimeStamp)
	b.process(ctx, inquiry, mention.TimeStamp)
}

// process runs the pipeline and posts the rendered outcome. The requester
// always hears back, whatever the outcome.
func (b *Bot) process(ctx context.Context, inquiry model.Inquiry, threadTS string) {
	out, err := b.supervisor.Handle(ctx, inquiry)
	if err != nil {
		b.logger.Error("inquiry handling aborted", "inquiry_id", inquiry.ID, "err", err)
		return
	}

	b.post(ctx, inquiry.ChannelID, threadTS, renderOutcome(inquiry, out))
}

func (b *Bot) handleMetrics(ctx context.Context, cmd slack.SlashCommand) {
	if b.summarizer == nil {
		b.post(ctx, cmd.ChannelID, "", "Metrics are not configured.")
		return
	}

	period := outcome.ParsePeriod(strings.TrimSpace(cmd.Text))
	summary, err := b.summarizer.Summarize(ctx, period)
	if err != nil {
		b.logger.Error("failed to summarize outcomes", "err", err)
		b.post(ctx, cmd.ChannelID, "", "Could not load metrics right now.")
		return
	}

	b.post(ctx, cmd.ChannelID, "", renderSummary(summary))
}

func (b *Bot) post(ctx context.Context, channelID, threadTS, text string) {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	if _, _, err := b.api.PostMessageContext(ctx, channelID, opts...); err != nil {
		b.logger.Error("failed to post message", "channel", channelID, "err", err)
	}
}

// stripMention removes the leading <@UXXXX> token from mention text.
func stripMention(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "<@") {
		if idx := strings.Index(text, ">"); idx != -1 {
			text = text[idx+1:]
		}
	}
	return strings.TrimSpace(text)
}
