// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
)

// runInit executes the 'init' CLI command, creating a bibsetup.yaml
// configuration file. Interactive by default; -y takes every default.
//
// Flags:
//   - --force: Overwrite an existing configuration
//   - -y: Non-interactive mode, use all defaults
func runInit(args []string, configPath string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")
	nonInteractive := fs.Bool("y", false, "Non-interactive mode (use defaults)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bibsetup init [options]

Creates a bibsetup.yaml configuration file.

Examples:
  bibsetup init           # Interactive setup
  bibsetup init -y        # Use all defaults

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	path := configPath
	if path == "" {
		path = DefaultConfigFile
	}

	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: %s already exists. Use --force to overwrite.\n", path)
		os.Exit(1)
	}

	cfg := DefaultConfig()

	if !*nonInteractive {
		reader := bufio.NewReader(os.Stdin)
		fmt.Println("bibsetup Configuration")
		fmt.Println("======================")
		fmt.Println()
		cfg.URI = prompt(reader, "MongoDB URI", cfg.URI)
		cfg.Database = prompt(reader, "Database name", cfg.Database)
		cfg.OutputDir = prompt(reader, "Snapshot output directory", cfg.OutputDir)
		fmt.Println()
	}

	if err := cfg.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration written: %s\n", path)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Review and edit bibsetup.yaml if needed")
	fmt.Println("  2. Run 'bibsetup setup' to provision the database")
	fmt.Println("  3. Run 'bibsetup status' to verify the result")
}

// prompt displays an interactive prompt and reads user input from stdin.
// Pressing Enter keeps the default shown in brackets.
func prompt(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s [%s]: ", label, defaultValue)
	} else {
		fmt.Printf("%s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}
