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

// runExport executes the 'export' CLI command: the snapshot stage alone,
// without touching schema, indexes or data.
func runExport(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	uri := fs.String("uri", "", "MongoDB connection string (overrides config)")
	dbName := fs.String("db", "", "Database name (overrides config)")
	outDir := fs.String("out", "", "Snapshot output directory (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bibsetup export [options]

Exports every collection as a pretty-printed JSON array, one file per
collection, with generated identifiers and timestamps normalized to
strings. Useful for refreshing snapshots without re-seeding.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
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
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout()+60*time.Second)
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

	spinner := NewSpinner(NewProgressConfig(globals), "exporting collections")
	res, err := s.Export(ctx, cfg.OutputDir)
	if spinner != nil {
		_ = spinner.Finish()
	}
	if res == nil {
		errors.FatalError(errors.NewInputError(
			"Cannot write snapshots",
			err.Error(),
			"Check that the output directory is writable or pass --out",
		), globals.JSON)
	}
	if err != nil {
		ui.Warningf("export finished with errors: %v", err)
	}

	for _, name := range setup.CollectionNames() {
		if file, ok := res.Files[name]; ok {
			ui.Successf("%s: %d documents -> %s", name, res.Documents[name], file)
		}
	}
}
