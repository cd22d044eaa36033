package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/droplab/droptower/cmd/analyze/app"
	"github.com/droplab/droptower/internal/config"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &logLevel}))

	var configPath string
	var opts app.Options
	flag.StringVar(&configPath, "c", "", "Path to the configuration file (defaults are used when omitted)")
	flag.StringVar(&opts.InputPath, "i", "", "Path to the recording CSV file")
	flag.BoolVar(&opts.NoCache, "no-cache", false, "Bypass the result cache")
	flag.Parse()

	if opts.InputPath == "" {
		flag.Usage()
		logger.Error("no input file provided")
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
		os.Exit(1)
	}
	if err = cfg.Validate(); err != nil {
		logger.Error(fmt.Sprintf("invalid configuration: %s", err.Error()))
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
