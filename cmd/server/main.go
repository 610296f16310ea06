// Package main is the opsdesk API server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/tinkerloft/opsdesk/internal/app"
	"github.com/tinkerloft/opsdesk/internal/config"
	"github.com/tinkerloft/opsdesk/internal/logging"
	"github.com/tinkerloft/opsdesk/internal/server"
)

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"))

	cfg := config.Default()
	if path := os.Getenv("OPSDESK_CONFIG"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build pipeline: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	addr := cfg.Server.Addr
	if env := os.Getenv("OPSDESK_SERVER_ADDR"); env != "" {
		addr = env
	}

	s := server.New(a.Supervisor, a.Outcomes, a.Registry)
	logger.Info("opsdesk server listening", "addr", addr)
	if err := http.ListenAndServe(addr, s); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
