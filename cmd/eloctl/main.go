package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/football-elo/external/eloapi"
	"github.com/riskibarqy/football-elo/internal/config"
	"github.com/riskibarqy/football-elo/internal/platform/logging"
	"github.com/riskibarqy/football-elo/internal/platform/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).Named("eloctl")
	defer func() { _ = logger.Sync() }()

	client, err := eloapi.NewClient(eloapi.Config{
		BaseURL: cfg.EloAPIBaseURL,
		Timeout: cfg.EloAPITimeout,
		CircuitBreaker: resilience.Config{
			Enabled:          cfg.EloAPICircuitEnabled,
			FailureThreshold: cfg.EloAPICircuitFailureCount,
			OpenTimeout:      cfg.EloAPICircuitOpenTimeout,
			HalfOpenTrials:   cfg.EloAPICircuitHalfOpenTrial,
		},
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &CLI{api: client, out: os.Stdout, workers: cfg.SeedWorkers, logger: logger}
	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
