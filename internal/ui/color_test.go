// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestInitColors(t *testing.T) {
	original := color.NoColor
	defer func() { color.NoColor = original }()

	tests := []struct {
		name     string
		noColor  bool
		expected bool
	}{
		{
			name:     "colors enabled when noColor is false",
			noColor:  false,
			expected: false,
		},
		{
			name:     "colors disabled when noColor is true",
			noColor:  true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			InitColors(tt.noColor)
			if color.NoColor != tt.expected {
				t.Errorf("InitColors(%v): color.NoColor = %v, expected %v",
					tt.noColor, color.NoColor, tt.expected)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	// Disable colors for predictable output
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	result := Label("Database:")
	if result != "Database:" {
		t.Errorf("Label() = %q, expected %q", result, "Database:")
	}
}

func TestDimText(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	result := DimText("data/authors_sample.json")
	if result != "data/authors_sample.json" {
		t.Errorf("DimText() = %q, expected %q", result, "data/authors_sample.json")
	}
}

func TestCountText(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = original }()

	result := CountText(42)
	if result != "42" {
		t.Errorf("CountText() = %q, expected %q", result, "42")
	}
}

func TestMessagePrefixes(t *testing.T) {
	originalNoColor := color.NoColor
	originalOutput := color.Output
	color.NoColor = true
	defer func() {
		color.NoColor = originalNoColor
		color.Output = originalOutput
	}()

	tests := []struct {
		name     string
		print    func()
		expected string
	}{
		{"Success", func() { Success("database ready") }, "✓ database ready\n"},
		{"Successf", func() { Successf("seeded %d loans", 2) }, "✓ seeded 2 loans\n"},
		{"Warning", func() { Warning("collection exists") }, "⚠ collection exists\n"},
		{"Warningf", func() { Warningf("%s skipped", "loans") }, "⚠ loans skipped\n"},
		{"Error", func() { Error("connection refused") }, "✗ connection refused\n"},
		{"Errorf", func() { Errorf("unknown command: %s", "frob") }, "✗ unknown command: frob\n"},
		{"Info", func() { Info("dropping database") }, "ℹ dropping database\n"},
		{"Infof", func() { Infof("resetting %s", "library") }, "ℹ resetting library\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			color.Output = &buf
			tt.print()
			if buf.String() != tt.expected {
				t.Errorf("output = %q, expected %q", buf.String(), tt.expected)
			}
		})
	}
}
