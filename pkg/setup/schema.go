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

// Collection names for the library schema.
const (
	CollAuthors = "authors"
	CollBooks   = "books"
	CollPatrons = "patrons"
	CollLoans   = "loans"
)

// ISBNPattern is the identifier-code shape required of every book:
// digits and hyphens, 10 to 17 characters.
const ISBNPattern = `^[0-9-]{10,17}$`

// EmailPattern is the basic email shape enforced on patrons.
const EmailPattern = `^[\w\.-]+@[\w\.-]+\.[a-zA-Z]{2,}$`

// namespaceExistsCode is the server error code returned by createCollection
// when the namespace already exists.
const namespaceExistsCode = 48

// Collection pairs a collection name with its $jsonSchema write contract.
type Collection struct {
	Name      string
	Validator bson.M
}

// Collections returns the four library collections with their validators,
// in creation order.
func Collections() []Collection {
	return []Collection{
		{Name: CollAuthors, Validator: authorsValidator()},
		{Name: CollBooks, Validator: booksValidator()},
		{Name: CollPatrons, Validator: patronsValidator()},
		{Name: CollLoans, Validator: loansValidator()},
	}
}

// CollectionNames returns the collection names in creation order.
func CollectionNames() []string {
	return []string{CollAuthors, CollBooks, CollPatrons, CollLoans}
}

func authorsValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"first_name", "last_name", "born"},
			"properties": bson.M{
				"first_name":  bson.M{"bsonType": "string", "minLength": 1},
				"last_name":   bson.M{"bsonType": "string", "minLength": 1},
				"born":        bson.M{"bsonType": "date"},
				"died":        bson.M{"bsonType": []string{"date", "null"}},
				"nationality": bson.M{"bsonType": "string"},
				"bio":         bson.M{"bsonType": "string"},
			},
		},
	}
}

func booksValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"title", "author_id", "isbn", "year", "available_copies"},
			"properties": bson.M{
				"title":            bson.M{"bsonType": "string", "minLength": 1},
				"author_id":        bson.M{"bsonType": "objectId"},
				"isbn":             bson.M{"bsonType": "string", "pattern": ISBNPattern},
				"year":             bson.M{"bsonType": "int", "minimum": 1000, "maximum": 2030},
				"genre":            bson.M{"bsonType": "string"},
				"publisher":        bson.M{"bsonType": "string"},
				"pages":            bson.M{"bsonType": "int", "minimum": 1},
				"total_copies":     bson.M{"bsonType": "int", "minimum": 1},
				"available_copies": bson.M{"bsonType": "int", "minimum": 0},
				"description":      bson.M{"bsonType": "string"},
			},
		},
	}
}

func patronsValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"first_name", "last_name", "email", "national_id", "registered_at"},
			"properties": bson.M{
				"first_name":    bson.M{"bsonType": "string", "minLength": 1},
				"last_name":     bson.M{"bsonType": "string", "minLength": 1},
				"email":         bson.M{"bsonType": "string", "pattern": EmailPattern},
				"national_id":   bson.M{"bsonType": "string", "minLength": 16, "maxLength": 16},
				"phone":         bson.M{"bsonType": "string"},
				"registered_at": bson.M{"bsonType": "date"},
				"active":        bson.M{"bsonType": "bool"},
			},
		},
	}
}

func loansValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"book_id", "patron_id", "loaned_at", "due_at", "patron_name", "patron_email"},
			"properties": bson.M{
				"book_id":   bson.M{"bsonType": "objectId"},
				"patron_id": bson.M{"bsonType": "objectId"},
				"loaned_at": bson.M{"bsonType": "date"},
				"due_at":    bson.M{"bsonType": "date"},
				// returned_at stays null until the loan closes.
				"returned_at":  bson.M{"bsonType": []string{"date", "null"}},
				"patron_name":  bson.M{"bsonType": "string"},
				"patron_email": bson.M{"bsonType": "string"},
				"note":         bson.M{"bsonType": "string"},
				"status":       bson.M{"enum": []string{StatusActive, StatusReturned, StatusOverdue}},
			},
		},
	}
}

// SchemaResult summarizes a CreateCollections stage.
type SchemaResult struct {
	Created  []string
	Existing []string
}

// CreateCollections declares the four collections with their validators.
//
// Creation is idempotent by intent: a NamespaceExists response is recorded
// as already-existing and does not fail the stage, so repeated runs against
// an initialized store succeed. Any other per-collection error fails the
// stage as a warning after all collections have been attempted.
func (s *Setup) CreateCollections(ctx context.Context) (*SchemaResult, error) {
	res := &SchemaResult{}
	var errs []error

	for _, c := range Collections() {
		err := s.db.CreateCollection(ctx, c.Name,
			options.CreateCollection().SetValidator(c.Validator))
		switch {
		case err == nil:
			res.Created = append(res.Created, c.Name)
			s.logger.Info("schema.collection.created", "collection", c.Name)
		case isNamespaceExists(err):
			res.Existing = append(res.Existing, c.Name)
			s.logger.Warn("schema.collection.exists", "collection", c.Name)
		default:
			errs = append(errs, fmt.Errorf("create collection %s: %w", c.Name, err))
			s.logger.Warn("schema.collection.error", "collection", c.Name, "err", err)
		}
	}

	s.report.Schema = res
	return res, errors.Join(errs...)
}

// isNamespaceExists reports whether err is the server's "collection already
// exists" response.
func isNamespaceExists(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code == namespaceExistsCode || ce.Name == "NamespaceExists"
	}
	return false
}
