// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package setup provisions the library MongoDB database.
//
// It owns the full provisioning pipeline: connect to the store, optionally
// drop an existing database, create the four schema-validated collections
// (authors, books, patrons, loans), build their secondary indexes, load the
// sample dataset, verify the result with a books-with-authors aggregation,
// and export every collection as a pretty-printed JSON snapshot.
//
// The pipeline is strictly sequential. Stage failures after a successful
// connection are warnings: they are reported and the run continues, so the
// tool can be re-run against a partially provisioned database without
// falling over. Only the initial connection is fatal.
package setup
