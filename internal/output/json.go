// Copyright 2026 Shelfworks
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package output provides JSON encoding helpers shared by the bibsetup CLI
// and the snapshot exporter.
//
// It complements the ui package (human-readable output) and the errors
// package (error handling): anything machine-readable goes through here so
// all JSON the tool emits is formatted the same way.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSON writes data as pretty-printed JSON to stdout.
//
// The output uses 2-space indentation. This is the standard format for
// --json command output.
func JSON(data any) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as pretty-printed JSON to the specified writer.
//
// The exporter uses this to write collection snapshot files; tests use it
// to capture output.
func JSONTo(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// ErrorJSON represents an error in JSON format for machine consumption.
type ErrorJSON struct {
	Error string `json:"error"`
}

// JSONError writes an error as JSON to stderr, keeping error output
// machine-readable when --json mode is active.
func JSONError(err error) error {
	return JSONErrorTo(os.Stderr, err)
}

// JSONErrorTo writes an error as JSON to the specified writer.
func JSONErrorTo(w io.Writer, err error) error {
	errObj := ErrorJSON{Error: err.Error()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(errObj); encErr != nil {
		return fmt.Errorf("JSON error encoding failed: %w", encErr)
	}
	return nil
}
