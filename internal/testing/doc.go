// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testing provides helpers for integration tests that run against
// a live MongoDB instance.
//
// Integration tests are opt-in: they skip unless BIBSETUP_TEST_URI points
// at a reachable mongod, so the unit suite stays runnable without any
// infrastructure. Each test gets its own uniquely named database, dropped
// again on cleanup.
//
// Example:
//
//	func TestSeedCounts(t *testing.T) {
//	    s := testing.SetupTestDatabase(t)
//	    // s is connected to a fresh, empty database.
//	}
package testing
