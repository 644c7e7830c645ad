package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"cycledebt/internal/cli"
	"cycledebt/internal/core"
	"cycledebt/internal/log"
	"cycledebt/internal/observability"
	"cycledebt/internal/report"
	"cycledebt/internal/services"
	"cycledebt/internal/storage"
)

func main() {
	// Load .env file for local development (ignored when absent)
	cli.LoadEnvFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, time.Now()); err != nil {
		stop()
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// run executes one full pass: collect, aggregate, report. The report goes to
// stdout and logs go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, now time.Time) error {
	cfg, err := cli.LoadConfig(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			bootstrap, _ := cli.SetupLogger("info", stderr)
			bootstrap.Error("Configuration validation failed", log.FieldError, err)
		}
		return err
	}

	logger, err := cli.SetupLogger(cfg.LogLevel, stderr)
	if err != nil {
		logger.Warn("Falling back to info level", log.FieldError, err)
	}
	logger = logger.WithFields(log.NewFields().WithRunID(uuid.NewString()))
	logger.Debug("Starting cycledebt",
		log.FieldPath, cfg.Dir,
		log.FieldWindow, cfg.WindowWeeks,
		log.FieldWorkers, cfg.Workers,
	)

	collector := services.NewCollector(os.DirFS(cfg.Dir),
		services.WithWorkers(cfg.Workers),
		services.WithCollectorLogger(logger),
	)
	col, err := collector.Run(ctx)
	if err != nil {
		logger.WithFields(failure(log.OpCollect, err)).Error("Failed to collect activity records")
		return err
	}

	storeLogger := logger.WithComponent(log.ComponentStorage)
	table, err := storage.NewTable(ctx, col.Records, storage.WithLogger(storeLogger.Logger))
	if err != nil {
		storeLogger.WithFields(failure(log.OpAggregate, err)).Error("Failed to build activity table")
		return err
	}
	defer table.Close()

	total, err := table.Summary(ctx)
	if err != nil {
		storeLogger.WithFields(failure(log.OpSummarize, err)).Error("Failed to summarize activities")
		return err
	}
	window, err := table.WindowedSummary(ctx, cfg.WindowWeeks, now)
	if err != nil {
		storeLogger.WithFields(failure(log.OpSummarize, err)).Error("Failed to summarize recent activities")
		return err
	}

	rep := report.Report{
		Now:          now,
		Schedule:     core.NewSchedule(total, now),
		Total:        total,
		Window:       window,
		WindowWeeks:  cfg.WindowWeeks,
		LastActivity: lastEnd(col.Records),
	}
	if cfg.ShowTable {
		if rep.Rows, err = table.Rows(ctx); err != nil {
			storeLogger.WithFields(failure(log.OpAggregate, err)).Error("Failed to read activity table")
			return err
		}
	}

	if err := report.Write(stdout, rep); err != nil {
		logger.WithComponent(log.ComponentReport).WithFields(failure(log.OpRender, err)).Error("Failed to write report")
		return fmt.Errorf("write report: %w", err)
	}

	if cfg.MetricsFile != "" {
		metricsLogger := logger.WithComponent(log.ComponentMetrics)
		metrics := observability.NewMetrics()
		metrics.Record(observability.Run{
			At:          now,
			Documents:   col.Documents,
			Records:     len(col.Records),
			Total:       total,
			Window:      window,
			WindowWeeks: cfg.WindowWeeks,
		})
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			metricsLogger.WithFields(failure(log.OpExport, err)).Error("Failed to export metrics")
			return err
		}
		metricsLogger.Debug("Metrics exported", log.FieldPath, cfg.MetricsFile)
	}

	return nil
}

func failure(op string, err error) log.LogFields {
	return log.NewFields().WithOperation(op).WithError(err)
}

func lastEnd(records []core.Record) time.Time {
	var last time.Time
	for _, r := range records {
		if r.End.After(last) {
			last = r.End
		}
	}
	return last
}
