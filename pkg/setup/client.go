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

package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultURI is the connection string used when none is configured.
const DefaultURI = "mongodb://localhost:27017/"

// DefaultDatabase is the logical database provisioned by the pipeline.
const DefaultDatabase = "library"

// DefaultConnectTimeout bounds the initial connect-and-ping handshake.
const DefaultConnectTimeout = 10 * time.Second

// Options configures a provisioning run.
type Options struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the name of the logical database to provision.
	Database string

	// OutDir is the directory JSON snapshots are written to.
	OutDir string

	// ConnectTimeout bounds the initial connection and liveness ping.
	ConnectTimeout time.Duration

	// Logger receives per-stage detail. Nil uses slog.Default().
	Logger *slog.Logger

	// Now supplies wall-clock time for seed date computation.
	// Nil uses time.Now. Tests override this for deterministic fixtures.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.URI == "" {
		o.URI = DefaultURI
	}
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.OutDir == "" {
		o.OutDir = "data"
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Setup holds the MongoDB connection for one provisioning run.
//
// The connection is acquired once by Connect and held for the lifetime of
// the run; there is exactly one writer and no concurrent access.
type Setup struct {
	client *mongo.Client
	db     *mongo.Database
	opts   Options
	logger *slog.Logger

	report Report
}

// Connect opens a client handle and performs a liveness ping against the
// store. A store that cannot be reached is unrecoverable for a setup tool,
// so callers are expected to treat a Connect error as fatal.
func Connect(ctx context.Context, opts Options) (*Setup, error) {
	opts = opts.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", opts.URI, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Best effort: the client may hold sockets even when the ping failed.
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping %s: %w", opts.URI, err)
	}

	opts.Logger.Info("store.connected", "uri", opts.URI, "database", opts.Database)

	return &Setup{
		client: client,
		db:     client.Database(opts.Database),
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

// Close releases the client connection. Safe to call on a nil receiver.
func (s *Setup) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Database returns the handle of the database being provisioned.
func (s *Setup) Database() *mongo.Database {
	return s.db
}

// DropDatabase deletes the target database for a full reset.
func (s *Setup) DropDatabase(ctx context.Context) error {
	if err := s.db.Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", s.db.Name(), err)
	}
	s.logger.Info("store.database.dropped", "database", s.db.Name())
	return nil
}

// Report returns what the pipeline has recorded so far. Populated
// incrementally as stages complete.
func (s *Setup) Report() *Report {
	return &s.report
}
