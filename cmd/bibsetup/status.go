// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/shelfworks/bibsetup/internal/errors"
	"github.com/shelfworks/bibsetup/internal/output"
	"github.com/shelfworks/bibsetup/internal/ui"
	"github.com/shelfworks/bibsetup/pkg/setup"
)

// StatusResult represents the database status for JSON output.
type StatusResult struct {
	URI       string                  `json:"uri"`
	Database  string                  `json:"database"`
	Counts    []setup.CollectionCount `json:"counts"`
	Indexes   map[string][]string     `json:"indexes"`
	Timestamp time.Time               `json:"timestamp"`
}

// runStatus executes the 'status' CLI command, reporting per-collection
// document counts and index names. Diagnostic only: it never writes.
//
// Flags:
//   - --json is read from the global flags.
func runStatus(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	uri := fs.String("uri", "", "MongoDB connection string (overrides config)")
	dbName := fs.String("db", "", "Database name (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bibsetup status [options]

Shows per-collection document counts and index names.

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

	counts, err := s.Counts(ctx)
	if err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot count documents", err.Error(),
			"Run 'bibsetup setup' to initialize the database", err,
		), globals.JSON)
	}

	indexes, err := listIndexNames(ctx, s)
	if err != nil {
		errors.FatalError(errors.NewDatabaseError(
			"Cannot list indexes", err.Error(),
			"Run 'bibsetup setup' to initialize the database", err,
		), globals.JSON)
	}

	result := &StatusResult{
		URI:       cfg.URI,
		Database:  cfg.Database,
		Counts:    counts,
		Indexes:   indexes,
		Timestamp: time.Now(),
	}

	if globals.JSON {
		if err := output.JSON(result); err != nil {
			errors.FatalError(err, true)
		}
		return
	}

	ui.Header("Library Database Status")
	fmt.Printf("%s %s\n", ui.Label("Database:"), cfg.Database)
	fmt.Println()
	for _, c := range counts {
		fmt.Printf("  %-10s %s documents, indexes: %v\n",
			c.Name, ui.CountText(c.Count), indexes[c.Name])
	}
}

// listIndexNames returns the index names the server reports per collection.
func listIndexNames(ctx context.Context, s *setup.Setup) (map[string][]string, error) {
	indexes := make(map[string][]string, len(setup.CollectionNames()))

	for _, name := range setup.CollectionNames() {
		cur, err := s.Database().Collection(name).Indexes().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list indexes for %s: %w", name, err)
		}

		var specs []bson.M
		if err := cur.All(ctx, &specs); err != nil {
			return nil, fmt.Errorf("decode indexes for %s: %w", name, err)
		}

		names := make([]string, 0, len(specs))
		for _, spec := range specs {
			if n, ok := spec["name"].(string); ok {
				names = append(names, n)
			}
		}
		indexes[name] = names
	}

	return indexes, nil
}
