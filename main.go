package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"aircare/internal/config"
	"aircare/internal/daemon"
	"aircare/internal/database"
	"aircare/internal/fleet"
	"aircare/internal/metrics"
	"aircare/internal/report"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("version", version)
	slog.SetDefault(logger)
}

// exportReport writes the fleet maintenance report to dir and returns the file path
func exportReport(cfg *config.Config, format report.Format, dir string) (string, error) {
	ctx := context.Background()

	db, err := database.New(cfg.DBPath)
	if err != nil {
		return "", fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	catalog, err := fleet.Load()
	if err != nil {
		return "", err
	}
	repo := database.NewAircraftRepository(db.SQL())
	if err := fleet.Seed(ctx, repo, catalog); err != nil {
		return "", err
	}

	list, err := repo.List(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now()
	path := filepath.Join(dir, report.FileName(format, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	err = report.Render(f, format, report.BuildRows(list, now), now)
	metrics.IncReportExport(string(format), err)
	if err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	exportFormat := flag.String("export", "", "Write the maintenance report (csv, xlsx or pdf) and exit")
	exportDir := flag.String("out", ".", "Directory for -export")
	flag.Parse()

	if *configPath != "" {
		os.Setenv(config.ConfigPathEnv, *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		// logger isn't initialized yet
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	if *exportFormat != "" {
		format, err := report.ParseFormat(*exportFormat)
		if err != nil {
			slog.Error("Invalid export format", "error", err)
			os.Exit(1)
		}
		path, err := exportReport(cfg, format, *exportDir)
		if err != nil {
			slog.Error("Failed to export report", "error", err)
			os.Exit(1)
		}
		slog.Info("Maintenance report written", "path", path)
		return
	}

	d, err := daemon.New(cfg, version)
	if err != nil {
		slog.Error("Failed to create daemon", "error", err)
		os.Exit(1)
	}

	if err := d.Start(); err != nil {
		slog.Error("Failed to start daemon", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sigChan:
		slog.Info("Received interrupt signal, shutting down...")
	case err := <-d.Errors():
		slog.Error("Daemon failed", "error", err)
		exitCode = 1
	}

	if err := d.Stop(); err != nil {
		slog.Error("Error stopping daemon", "error", err)
		exitCode = 1
	}

	slog.Info("Shutdown complete")
	os.Exit(exitCode)
}
