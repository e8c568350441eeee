// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexModels returns the secondary indexes per collection.
//
// Uniqueness is enforced at the storage layer for the natural keys: a
// book's ISBN, a patron's email and national id. Everything else exists
// for the expected lookup and ordering patterns.
func IndexModels() map[string][]mongo.IndexModel {
	unique := options.Index().SetUnique(true)

	return map[string][]mongo.IndexModel{
		CollAuthors: {
			{Keys: bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}},
			{Keys: bson.D{{Key: "last_name", Value: 1}}},
		},
		CollBooks: {
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
			{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "title", Value: 1}}},
			{Keys: bson.D{{Key: "genre", Value: 1}}},
		},
		CollPatrons: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "national_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "last_name", Value: 1}}},
		},
		CollLoans: {
			{Keys: bson.D{{Key: "patron_id", Value: 1}}},
			{Keys: bson.D{{Key: "book_id", Value: 1}}},
			{Keys: bson.D{{Key: "loaned_at", Value: -1}}},
			{Keys: bson.D{{Key: "due_at", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}
}

// IndexResult summarizes an EnsureIndexes stage.
type IndexResult struct {
	// Names maps collection name to the index names the server reported.
	Names map[string][]string
}

// Total returns the number of indexes ensured across all collections.
func (r *IndexResult) Total() int {
	n := 0
	for _, names := range r.Names {
		n += len(names)
	}
	return n
}

// EnsureIndexes declares every index from IndexModels.
//
// Index creation on an existing identical index is a no-op at the storage
// layer, so the stage is naturally idempotent. Per-collection errors are
// collected and returned as a stage warning after all collections have
// been attempted.
func (s *Setup) EnsureIndexes(ctx context.Context) (*IndexResult, error) {
	res := &IndexResult{Names: make(map[string][]string)}
	var errs []error

	for _, name := range CollectionNames() {
		models := IndexModels()[name]
		created, err := s.db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			errs = append(errs, fmt.Errorf("indexes for %s: %w", name, err))
			s.logger.Warn("index.error", "collection", name, "err", err)
			continue
		}
		res.Names[name] = created
		s.logger.Info("index.ensured", "collection", name, "indexes", len(created))
	}

	s.report.Indexes = res
	return res, errors.Join(errs...)
}
