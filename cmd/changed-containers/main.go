package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nathantilsley/changed-containers/internal/platform/config"
	"github.com/nathantilsley/changed-containers/internal/platform/logger"
	"github.com/nathantilsley/changed-containers/internal/platform/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	// A local .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.LogLevel)

	ctx := context.Background()
	tel, err := telemetry.New(ctx, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if shutdownErr := tel.Shutdown(ctx); shutdownErr != nil {
			log.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	container, err := NewContainer(cfg, log, tel)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}

	log.Debug("starting change detection",
		"source", cfg.ChangedFilesSource,
		"config", container.ConfigPath,
	)
	return container.DetectService.Execute(ctx)
}
