package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"travelers/cmd/app"
	"travelers/internal/config"
	"travelers/internal/observability"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	logger := observability.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
