// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shelfworks/bibsetup/internal/errors"
	"github.com/shelfworks/bibsetup/internal/ui"
	"github.com/shelfworks/bibsetup/pkg/setup"
)

// runReset executes the 'reset' CLI command, dropping the library database
// without re-provisioning it.
func runReset(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm the reset (required)")
	uri := fs.String("uri", "", "MongoDB connection string (overrides config)")
	dbName := fs.String("db", "", "Database name (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bibsetup reset [options]

Drops the library database, deleting every collection and document.

WARNING: This operation is destructive and cannot be undone!

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if !*confirm {
		ui.Error("you must pass --yes to confirm the reset")
		fmt.Fprintf(os.Stderr, "This will delete the whole library database.\n")
		os.Exit(1)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		errors.FatalError(errors.NewConfigError(
			"Cannot load configuration", err.Error(),
			"Fix the file or delete it to fall back to defaults", err,
		), globals.JSON)
	}
	if *uri != "" {
		cfg.URI = *uri
	}
	if *dbName != "" {
		cfg.Database = *dbName
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout()+30*time.Second)
	defer cancel()

	s, err := setup.Connect(ctx, cfg.setupOptions())
	if err != nil {
		errors.FatalError(errors.NewNetworkError(
			"Cannot connect to MongoDB",
			fmt.Sprintf("No reachable server at %s", cfg.URI),
			"Start mongod or pass --uri with the right endpoint",
			err,
		), globals.JSON)
	}
	defer func() { _ = s.Close(context.Background()) }()

	ui.Warning("This operation is destructive and cannot be undone")
	ui.Infof("Resetting database %s...", cfg.Database)

	if err := s.DropDatabase(ctx); err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot drop database", err.Error(),
			"Check server logs and permissions for the configured user", err,
		), globals.JSON)
	}

	ui.Success("Reset complete. The database has been dropped.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  bibsetup setup    Provision the database again")
}
