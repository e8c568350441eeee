// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionCount is a per-collection document count.
type CollectionCount struct {
	Name  string `json:"collection"`
	Count int64  `json:"count"`
}

// BookWithAuthor is one row of the books-with-authors aggregation.
type BookWithAuthor struct {
	Title           string `bson:"title" json:"title"`
	AuthorName      string `bson:"author_name" json:"author_name"`
	AvailableCopies int32  `bson:"available_copies" json:"available_copies"`
}

// VerifyResult summarizes a Verify stage.
type VerifyResult struct {
	Counts []CollectionCount `json:"counts"`

	// BooksWithAuthors holds the join sample. When every book has a
	// resolvable author reference its length equals the books count.
	BooksWithAuthors []BookWithAuthor `json:"books_with_authors"`
}

// booksWithAuthorsPipeline joins every book to its author and projects the
// title, a concatenated author display name, and the available-copy count.
func booksWithAuthorsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         CollAuthors,
			"localField":   "author_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: "$author"}},
		{{Key: "$project", Value: bson.M{
			"title": 1,
			"author_name": bson.M{
				"$concat": bson.A{"$author.first_name", " ", "$author.last_name"},
			},
			"available_copies": 1,
		}}},
	}
}

// Counts returns the document count of every collection.
func (s *Setup) Counts(ctx context.Context) ([]CollectionCount, error) {
	counts := make([]CollectionCount, 0, len(CollectionNames()))
	for _, name := range CollectionNames() {
		n, err := s.db.Collection(name).CountDocuments(ctx, bson.D{})
		if err != nil {
			return counts, fmt.Errorf("count %s: %w", name, err)
		}
		counts = append(counts, CollectionCount{Name: name, Count: n})
	}
	return counts, nil
}

// BooksWithAuthors runs the illustrative cross-collection aggregation.
func (s *Setup) BooksWithAuthors(ctx context.Context) ([]BookWithAuthor, error) {
	cur, err := s.db.Collection(CollBooks).Aggregate(ctx, booksWithAuthorsPipeline())
	if err != nil {
		return nil, fmt.Errorf("aggregate books with authors: %w", err)
	}
	defer cur.Close(ctx)

	var rows []BookWithAuthor
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode books with authors: %w", err)
	}
	return rows, nil
}

// Verify sanity-checks the provisioned database: per-collection counts plus
// the books-with-authors join. Purely diagnostic; errors from this stage
// never gate the run.
func (s *Setup) Verify(ctx context.Context) (*VerifyResult, error) {
	res := &VerifyResult{}

	counts, err := s.Counts(ctx)
	res.Counts = counts
	if err != nil {
		s.report.Verify = res
		return res, err
	}
	for _, c := range counts {
		s.logger.Info("verify.count", "collection", c.Name, "count", c.Count)
	}

	rows, err := s.BooksWithAuthors(ctx)
	if err != nil {
		s.report.Verify = res
		return res, err
	}
	res.BooksWithAuthors = rows
	s.logger.Info("verify.join", "rows", len(rows))
	if len(rows) > 0 {
		s.logger.Info("verify.join.sample",
			"title", rows[0].Title,
			"author", rows[0].AuthorName,
			"available", rows[0].AvailableCopies,
		)
	}

	s.report.Verify = res
	return res, nil
}
