// Copyright 2026 Shelfworks
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@shelfworks.io
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main implements the bibsetup CLI for provisioning the library
// MongoDB database.
//
// Usage:
//
//	bibsetup init                 Create bibsetup.yaml configuration
//	bibsetup setup [--reset]      Run the full provisioning pipeline
//	bibsetup status [--json]      Show per-collection counts and indexes
//	bibsetup export               Re-export JSON snapshots only
//	bibsetup reset --yes          Drop the library database (destructive!)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shelfworks/bibsetup/internal/ui"
)

// Version information (set via ldflags during build)
var (
	version = "dev"     // Version string
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// GlobalFlags carries the flags shared by every command.
type GlobalFlags struct {
	// JSON switches command output to machine-readable JSON.
	JSON bool

	// NoColor disables colored output.
	NoColor bool

	// Quiet suppresses progress display.
	Quiet bool
}

// main is the entry point for the bibsetup CLI.
//
// It parses global flags and dispatches to the command handlers.
//
// Global flags:
//   - --version: Display version information and exit
//   - --config: Path to bibsetup.yaml (default: ./bibsetup.yaml)
//   - --json: Machine-readable output
//   - --no-color: Disable colored output
//   - --quiet: Suppress progress display
func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "", "Path to bibsetup.yaml (default: ./bibsetup.yaml)")
		jsonOut     = flag.Bool("json", false, "Output as JSON where supported")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		quiet       = flag.Bool("quiet", false, "Suppress progress display")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `bibsetup - Library Database Provisioning

bibsetup initializes a MongoDB database for a library-management domain:
it creates schema-validated collections, builds secondary indexes, loads
a sample dataset, verifies the result with a join aggregation, and
exports every collection as a JSON snapshot.

Usage:
  bibsetup <command> [options]

Commands:
  init     Create bibsetup.yaml configuration
  setup    Run the full provisioning pipeline
  status   Show per-collection document counts and indexes
  export   Export JSON snapshots without re-seeding
  reset    Drop the library database (destructive!)

Global Options:
  --config      Path to bibsetup.yaml
  --json        Output as JSON where supported
  --no-color    Disable colored output
  --quiet       Suppress progress display
  --version     Show version and exit

Examples:
  bibsetup setup                         Provision with defaults
  bibsetup setup --reset                 Drop the database first
  bibsetup setup --uri mongodb://db:27017/
  bibsetup status --json                 Counts as JSON
  bibsetup export --out ./snapshots

Getting Started:
  1. Optionally create a config:  bibsetup init
  2. Provision the database:      bibsetup setup
  3. Check the result:            bibsetup status

Environment Variables:
  NO_COLOR    Disable colored output

For detailed command help: bibsetup <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("bibsetup version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	globals := GlobalFlags{JSON: *jsonOut, NoColor: *noColor, Quiet: *quiet}
	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, *configPath)
	case "setup":
		runSetup(cmdArgs, *configPath, globals)
	case "status":
		runStatus(cmdArgs, *configPath, globals)
	case "export":
		runExport(cmdArgs, *configPath, globals)
	case "reset":
		runReset(cmdArgs, *configPath, globals)
	default:
		ui.Errorf("Unknown command: %s", command)
		flag.Usage()
		os.Exit(1)
	}
}
