// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package testing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shelfworks/bibsetup/pkg/setup"
)

// EnvTestURI names the environment variable holding the MongoDB endpoint
// integration tests run against.
const EnvTestURI = "BIBSETUP_TEST_URI"

var dbCounter atomic.Int64

// TestURI returns the configured integration-test endpoint, or "" when
// integration tests should be skipped.
func TestURI() string {
	return os.Getenv(EnvTestURI)
}

// UniqueDatabaseName returns a database name that no other test in this
// process run will use.
func UniqueDatabaseName() string {
	return fmt.Sprintf("bibsetup_test_%d_%d", time.Now().UnixNano(), dbCounter.Add(1))
}

// SetupTestDatabase connects to the integration-test mongod and returns a
// Setup bound to a fresh, uniquely named database. The database is dropped
// and the connection closed when the test finishes.
//
// Skips the test when BIBSETUP_TEST_URI is not set.
func SetupTestDatabase(t *testing.T) *setup.Setup {
	t.Helper()

	uri := TestURI()
	if uri == "" {
		t.Skipf("set %s to run integration tests against a live mongod", EnvTestURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s, err := setup.Connect(ctx, setup.Options{
		URI:      uri,
		Database: UniqueDatabaseName(),
		OutDir:   t.TempDir(),
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	})
	if err != nil {
		t.Fatalf("failed to connect to test mongod: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.DropDatabase(ctx); err != nil {
			t.Logf("drop test database: %v", err)
		}
		_ = s.Close(ctx)
	})

	return s
}
