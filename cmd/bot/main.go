// Package main is the Slack bot entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tinkerloft/opsdesk/internal/app"
	"github.com/tinkerloft/opsdesk/internal/config"
	"github.com/tinkerloft/opsdesk/internal/logging"
	"github.com/tinkerloft/opsdesk/internal/slackbot"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	botToken := os.Getenv(config.EnvSlackBotToken)
	appToken := os.Getenv(config.EnvSlackAppToken)
	if botToken == "" || appToken == "" {
		fmt.Fprintf(os.Stderr, "%s and %s must be set\n", config.EnvSlackBotToken, config.EnvSlackAppToken)
		os.Exit(1)
	}

	cfg := config.Default()
	if path := os.Getenv("OPSDESK_CONFIG"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build pipeline: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	bot, err := slackbot.New(botToken, appToken, a.Supervisor,
		slackbot.WithSummarizer(a.Outcomes),
		slackbot.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create bot: %v\n", err)
		os.Exit(1)
	}

	logger.Info("slack bot connecting")
	if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("bot stopped", "err", err)
		os.Exit(1)
	}
}
