package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-api-kit/internal/app"
	"github.com/samvad-hq/samvad-api-kit/internal/config"
	"github.com/samvad-hq/samvad-api-kit/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "apiprobe start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("apiprobe starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probe, err := app.NewProbe(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize probe", "error", err)
		return err
	}

	if err := probe.Run(ctx); err != nil {
		return fmt.Errorf("probe run: %w", err)
	}

	return nil
}
