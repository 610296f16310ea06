// Package main is the CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinkerloft/opsdesk/internal/app"
	internalclient "github.com/tinkerloft/opsdesk/internal/client"
	"github.com/tinkerloft/opsdesk/internal/config"
	"github.com/tinkerloft/opsdesk/internal/logging"
	"github.com/tinkerloft/opsdesk/internal/model"
	"github.com/tinkerloft/opsdesk/internal/outcome"
)

var rootCmd = &cobra.Command{
	Use:   "opsdesk",
	Short: "opsdesk CLI",
	Long:  "CLI for the infrastructure inquiry triage pipeline",
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Submit an inquiry",
	Long:  "Run a question through the triage pipeline and print the outcome",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var loadKBCmd = &cobra.Command{
	Use:   "load-kb",
	Short: "Validate the knowledge base",
	Long:  "Load and validate the configured knowledge base sources without serving",
	RunE:  runLoadKB,
}

var metricsCmd = &cobra.Command{
	Use:   "metrics [period]",
	Short: "Show resolution metrics",
	Long:  "Print aggregate outcome counts for today, week, month, or all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMetrics,
}

func init() {
	askCmd.Flags().String("requester", "cli", "Requester identifier")
	askCmd.Flags().StringSlice("env", nil, "Affected environments (PROD, STG, PERF, DEV)")
	askCmd.Flags().String("deadline", "", "Deadline (YYYY-MM-DD)")
	askCmd.Flags().Bool("durable", false, "Run via the Temporal workflow instead of in-process")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(loadKBCmd)
	rootCmd.AddCommand(metricsCmd)
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("OPSDESK_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Default(), nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	requester, _ := cmd.Flags().GetString("requester")
	envNames, _ := cmd.Flags().GetStringSlice("env")
	deadlineStr, _ := cmd.Flags().GetString("deadline")
	durable, _ := cmd.Flags().GetBool("durable")

	inquiry := model.NewInquiry(args[0], requester, "")
	if len(envNames) > 0 {
		var envs []model.Environment
		for _, name := range envNames {
			env, ok := model.ParseEnvironment(name)
			if !ok {
				return fmt.Errorf("unknown environment: %q", name)
			}
			envs = append(envs, env)
		}
		inquiry = inquiry.WithEnvironments(envs...)
	}
	if deadlineStr != "" {
		deadline, err := time.Parse("2006-01-02", deadlineStr)
		if err != nil {
			return fmt.Errorf("invalid deadline: %w", err)
		}
		inquiry = inquiry.WithDeadline(deadline)
	}

	ctx := cmd.Context()

	var out model.ResolutionOutcome
	if durable {
		c, err := internalclient.Dial(internalclient.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			return err
		}
		defer c.Close()

		run, err := internalclient.StartInquiry(ctx, c, inquiry)
		if err != nil {
			return err
		}
		if err := run.Get(ctx, &out); err != nil {
			return fmt.Errorf("workflow failed: %w", err)
		}
	} else {
		logger := logging.New(os.Getenv("LOG_LEVEL"))
		a, err := app.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		out, err = a.Supervisor.Handle(ctx, inquiry)
		if err != nil {
			return err
		}
	}

	return printJSON(out)
}

func runLoadKB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := app.LoadEntries(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d knowledge entries\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %s  [%s]  %s\n", e.ID, e.Category, e.Question)
	}
	return nil
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	period := outcome.PeriodToday
	if len(args) > 0 {
		period = outcome.ParsePeriod(args[0])
	}

	store, err := outcome.NewStore(cfg.Outcome.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Summarize(cmd.Context(), period)
	if err != nil {
		return err
	}

	return printJSON(summary)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
