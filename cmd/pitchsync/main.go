package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"

	"github.com/riskibarqy/pitchsync/internal/app"
	"github.com/riskibarqy/pitchsync/internal/config"
	"github.com/riskibarqy/pitchsync/internal/observability"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
	"github.com/riskibarqy/pitchsync/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Default().Warn("load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("load config", "error", err)
		return 2
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdown, err := observability.Setup(cfg, logger)
	if err != nil {
		logger.Error("setup observability", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("shutdown observability", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewSyncRunner(ctx, cfg, logger)
	if err != nil {
		logger.Error("build sync runner", "error", err)
		return 1
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logger.Warn("close sync runner", "error", err)
		}
	}()

	report, runErr := runner.Run(ctx)
	if err := printReport(report); err != nil {
		logger.Warn("print report", "error", err)
	}
	if runErr != nil {
		logger.Error("sync failed", "error", runErr, "run_id", report.RunID)
		return 1
	}

	logger.Info("sync finished",
		"run_id", report.RunID,
		"games_succeeded", report.GamesSucceeded,
		"games_failed", report.GamesFailed,
		"pitches_written", report.PitchesWritten,
	)
	return 0
}

func printReport(report usecase.SyncReport) error {
	payload, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = os.Stdout.Write(payload)
	return err
}
