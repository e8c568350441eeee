// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/shelfworks/bibsetup/internal/errors"
	"github.com/shelfworks/bibsetup/internal/ui"
	"github.com/shelfworks/bibsetup/pkg/setup"
)

// timeRounding trims stage durations for display.
const timeRounding = time.Millisecond

// runSetup executes the 'setup' CLI command: the full provisioning
// pipeline against the configured MongoDB endpoint.
//
// Flags:
//   - --reset: Drop the existing database before provisioning
//   - --uri: Connection string override
//   - --db: Database name override
//   - --out: Snapshot output directory override
//   - --metrics-addr: HTTP address for Prometheus metrics (default: disabled)
//   - --debug: Enable debug logging
//
// Only the initial connection is fatal. Every later stage reports a
// warning on failure and the pipeline proceeds, so re-running against a
// half-provisioned database is always safe.
func runSetup(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	reset := fs.Bool("reset", false, "Drop the existing database before setup")
	uri := fs.String("uri", "", "MongoDB connection string (overrides config)")
	dbName := fs.String("db", "", "Database name (overrides config)")
	outDir := fs.String("out", "", "Snapshot output directory (overrides config)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bibsetup setup [options]

Description:
  Provision the library database. This command:
  1. Connects to MongoDB and verifies liveness.
  2. Optionally drops the existing database (--reset).
  3. Creates the authors, books, patrons and loans collections with
     $jsonSchema validators.
  4. Builds secondary and unique indexes.
  5. Loads the sample dataset.
  6. Verifies counts and the books-with-authors join.
  7. Exports every collection as a pretty-printed JSON snapshot.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  bibsetup setup
  bibsetup setup --reset
  bibsetup setup --uri mongodb://db:27017/ --db library
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot load configuration",
			err.Error(),
			"Fix the file or delete it to fall back to defaults",
			err,
		), globals.JSON)
	}
	if *uri != "" {
		cfg.URI = *uri
	}
	if *dbName != "" {
		cfg.Database = *dbName
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	if globals.Quiet {
		logLevel = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Optional Prometheus metrics endpoint
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	// Signal handling: an interrupted run exits non-zero.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	ui.Header("Library Database Setup")
	if *reset {
		ui.Info("Reset requested: the existing database will be dropped first")
	}

	opts := cfg.setupOptions()
	opts.Logger = logger

	s, err := setup.Connect(ctx, opts)
	if err != nil {
		errors.FatalError(errors.NewNetworkError(
			"Cannot connect to MongoDB",
			fmt.Sprintf("No reachable server at %s", cfg.URI),
			"Start mongod or pass --uri with the right endpoint",
			err,
		), globals.JSON)
	}
	defer func() { _ = s.Close(context.Background()) }()
	ui.Successf("Connected to %s (database %q)", cfg.URI, cfg.Database)

	stages := s.Stages(*reset)
	pcfg := NewProgressConfig(globals)
	bar := NewProgressBar(pcfg, int64(len(stages)), "provisioning")

	results := setup.RunStages(ctx, stages, func(res setup.StageResult) {
		if bar != nil {
			_ = bar.Add(1)
		}
		if res.Err != nil {
			ui.Warningf("%s: %v", res.Name, res.Err)
			return
		}
		ui.Successf("%s completed (%s)", res.Name, res.Duration.Round(timeRounding))
	})
	if bar != nil {
		_ = bar.Finish()
	}

	if ctx.Err() != nil {
		errors.FatalError(&errors.UserError{
			Message:  "Setup interrupted",
			Cause:    "The run was cancelled before all stages completed",
			Fix:      "Re-run 'bibsetup setup', optionally with --reset, to recover",
			ExitCode: errors.ExitInterrupted,
		}, globals.JSON)
	}

	printSetupSummary(s.Report(), setup.Warnings(results))
}

// printSetupSummary prints what the pipeline produced: counts, the join
// sample, the snapshot files, and any stage warnings.
func printSetupSummary(report *setup.Report, warnings []setup.StageResult) {
	fmt.Println()
	ui.Header("Setup Complete")

	if report.Seed != nil {
		fmt.Printf("%s authors=%d books=%d patrons=%d loans=%d\n",
			ui.Label("Seeded:"),
			report.Seed.Authors, report.Seed.Books, report.Seed.Patrons, report.Seed.Loans)
		for _, skipped := range report.Seed.Skipped {
			ui.Warningf("seed batch skipped: %s", skipped)
		}
	}

	if report.Verify != nil {
		fmt.Printf("%s\n", ui.Label("Documents per collection:"))
		for _, c := range report.Verify.Counts {
			fmt.Printf("  %-10s %s\n", c.Name, ui.CountText(c.Count))
		}
		if rows := report.Verify.BooksWithAuthors; len(rows) > 0 {
			fmt.Printf("%s %d rows, e.g. %q by %s\n",
				ui.Label("Books with authors:"), len(rows), rows[0].Title, rows[0].AuthorName)
		}
	}

	if report.Export != nil {
		fmt.Printf("%s\n", ui.Label("Snapshots:"))
		for _, name := range setup.CollectionNames() {
			if file, ok := report.Export.Files[name]; ok {
				fmt.Printf("  %s (%d documents)\n", ui.DimText(file), report.Export.Documents[name])
			}
		}
	}

	fmt.Println()
	if len(warnings) == 0 {
		ui.Success("Database is ready for use")
		return
	}
	ui.Warningf("Completed with %d stage warning(s); re-run with --reset for a clean slate", len(warnings))
}
