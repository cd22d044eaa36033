package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/droplab/droptower/cmd/gquality/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	opts, cfg, err := app.NewOptionsFromCLI()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	var level slog.Level
	if err = level.UnmarshalText([]byte(cfg.Settings.LogLevel)); err != nil {
		logger.Error(fmt.Sprintf("invalid log level '%s'", cfg.Settings.LogLevel))
		os.Exit(1)
	}
	logLevel.Set(level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = app.Run(ctx, cfg, opts, logger); err != nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
