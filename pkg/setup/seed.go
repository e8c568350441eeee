// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Relative date offsets for the sample loans, so the dataset stays
// plausible regardless of when the pipeline runs.
const (
	returnedLoanAge    = 30 * 24 * time.Hour
	returnedLoanTerm   = 30 * 24 * time.Hour
	returnedLoanHeld   = 25 * 24 * time.Hour
	activeLoanAge      = 10 * 24 * time.Hour
	activeLoanDeadline = 20 * 24 * time.Hour
)

// SeedAuthors returns the sample author batch.
func SeedAuthors() []Author {
	died := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return []Author{
		{
			FirstName:   "Alessandro",
			LastName:    "Manzoni",
			Born:        time.Date(1785, time.March, 7, 0, 0, 0, 0, time.UTC),
			Died:        died(1873, time.May, 22),
			Nationality: "Italian",
			Bio:         "Italian writer and poet of the Romantic movement",
		},
		{
			FirstName:   "Italo",
			LastName:    "Calvino",
			Born:        time.Date(1923, time.October, 15, 0, 0, 0, 0, time.UTC),
			Died:        died(1985, time.September, 19),
			Nationality: "Italian",
			Bio:         "Italian writer and journalist",
		},
		{
			FirstName:   "Umberto",
			LastName:    "Eco",
			Born:        time.Date(1932, time.January, 5, 0, 0, 0, 0, time.UTC),
			Died:        died(2016, time.February, 19),
			Nationality: "Italian",
			Bio:         "Italian writer, philosopher and semiotician",
		},
	}
}

// SeedBooks returns the sample book batch wired to the given author ids.
// The batch references authors positionally: book i belongs to author i.
func SeedBooks(authorIDs []primitive.ObjectID) ([]Book, error) {
	if len(authorIDs) < 3 {
		return nil, fmt.Errorf("need 3 author ids, have %d", len(authorIDs))
	}
	return []Book{
		{
			Title:           "The Betrothed",
			AuthorID:        authorIDs[0],
			ISBN:            "978-88-17-12345-1",
			Year:            1827,
			Genre:           "Historical novel",
			Publisher:       "Feltrinelli",
			Pages:           720,
			TotalCopies:     5,
			AvailableCopies: 3,
			Description:     "Masterpiece of Italian literature",
		},
		{
			Title:           "The Baron in the Trees",
			AuthorID:        authorIDs[1],
			ISBN:            "978-88-06-12345-2",
			Year:            1957,
			Genre:           "Fiction",
			Publisher:       "Einaudi",
			Pages:           280,
			TotalCopies:     3,
			AvailableCopies: 2,
			Description:     "Second novel of the Our Ancestors trilogy",
		},
		{
			Title:           "The Name of the Rose",
			AuthorID:        authorIDs[2],
			ISBN:            "978-88-45-12345-3",
			Year:            1980,
			Genre:           "Historical mystery",
			Publisher:       "Bompiani",
			Pages:           550,
			TotalCopies:     4,
			AvailableCopies: 1,
			Description:     "Murder mystery set in a medieval monastery",
		},
	}, nil
}

// SeedPatrons returns the sample patron batch. Patrons do not reference
// other records, so the batch needs no id wiring.
func SeedPatrons() []Patron {
	return []Patron{
		{
			FirstName:    "Mario",
			LastName:     "Rossi",
			Email:        "mario.rossi@email.com",
			NationalID:   "RSSMRA80A01H501Z",
			Phone:        "+39 320 1234567",
			RegisteredAt: time.Date(2023, time.January, 15, 0, 0, 0, 0, time.UTC),
			Active:       true,
		},
		{
			FirstName:    "Giulia",
			LastName:     "Bianchi",
			Email:        "giulia.bianchi@email.com",
			NationalID:   "BNCGLI85B42F205X",
			Phone:        "+39 345 7890123",
			RegisteredAt: time.Date(2023, time.March, 22, 0, 0, 0, 0, time.UTC),
			Active:       true,
		},
		{
			FirstName:    "Luca",
			LastName:     "Verdi",
			Email:        "luca.verdi@email.com",
			NationalID:   "VRDLCU90C15G224Y",
			Phone:        "+39 366 4567890",
			RegisteredAt: time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC),
			Active:       true,
		},
	}
}

// SeedLoans returns the sample loan batch: one returned loan and one still
// active, dated relative to now. Each loan embeds the denormalized name and
// email of the patron it references.
func SeedLoans(bookIDs, patronIDs []primitive.ObjectID, patrons []Patron, now time.Time) ([]Loan, error) {
	if len(bookIDs) < 3 || len(patronIDs) < 2 || len(patrons) < 2 {
		return nil, fmt.Errorf("need 3 book ids and 2 patrons, have %d/%d", len(bookIDs), len(patronIDs))
	}

	base := now.Add(-returnedLoanAge)
	returnedAt := base.Add(returnedLoanHeld)

	return []Loan{
		{
			BookID:      bookIDs[0],
			PatronID:    patronIDs[0],
			LoanedAt:    base,
			DueAt:       base.Add(returnedLoanTerm),
			ReturnedAt:  &returnedAt,
			PatronName:  patrons[0].FullName(),
			PatronEmail: patrons[0].Email,
			Status:      StatusReturned,
			Note:        "Returned in perfect condition",
		},
		{
			BookID:      bookIDs[2],
			PatronID:    patronIDs[1],
			LoanedAt:    now.Add(-activeLoanAge),
			DueAt:       now.Add(activeLoanDeadline),
			ReturnedAt:  nil,
			PatronName:  patrons[1].FullName(),
			PatronEmail: patrons[1].Email,
			Status:      StatusActive,
			Note:        "Loan in progress",
		},
	}, nil
}

// SeedResult summarizes a Seed stage.
type SeedResult struct {
	Authors int
	Books   int
	Patrons int
	Loans   int

	// Skipped lists the batches not attempted because a batch they
	// reference failed to insert.
	Skipped []string
}

// Seed inserts the sample dataset: authors first, then books referencing
// the captured author ids, then patrons, then loans referencing the
// captured book and patron ids.
//
// Each batch insert is unordered, so on a re-run duplicate-key failures
// are per-record and do not halt the batch. When a batch fails, the
// batches whose data depends on it are skipped; records already inserted
// stay in place — there is no transactional rollback. Recovery is a re-run,
// optionally with reset.
func (s *Setup) Seed(ctx context.Context) (*SeedResult, error) {
	res := &SeedResult{}
	v := newRecordValidator()
	now := s.opts.Now()
	var errs []error

	authorIDs, err := insertBatch(ctx, s, v, CollAuthors, SeedAuthors())
	if err != nil {
		errs = append(errs, err)
		res.Skipped = append(res.Skipped, CollBooks, CollLoans)
	}
	res.Authors = len(authorIDs)

	var bookIDs []primitive.ObjectID
	if err == nil {
		books, berr := SeedBooks(authorIDs)
		if berr == nil {
			bookIDs, berr = insertBatch(ctx, s, v, CollBooks, books)
		}
		if berr != nil {
			errs = append(errs, berr)
			res.Skipped = append(res.Skipped, CollLoans)
		}
		res.Books = len(bookIDs)
	}

	patrons := SeedPatrons()
	patronIDs, perr := insertBatch(ctx, s, v, CollPatrons, patrons)
	if perr != nil {
		errs = append(errs, perr)
		if len(bookIDs) > 0 {
			res.Skipped = append(res.Skipped, CollLoans)
		}
	}
	res.Patrons = len(patronIDs)

	if len(bookIDs) > 0 && perr == nil {
		loans, lerr := SeedLoans(bookIDs, patronIDs, patrons, now)
		var loanIDs []primitive.ObjectID
		if lerr == nil {
			loanIDs, lerr = insertBatch(ctx, s, v, CollLoans, loans)
		}
		if lerr != nil {
			errs = append(errs, lerr)
		}
		res.Loans = len(loanIDs)
	}

	s.report.Seed = res
	return res, errors.Join(errs...)
}

// insertBatch validates and inserts one fixture batch, returning the
// generated ids in insertion order.
func insertBatch[T any](ctx context.Context, s *Setup, v *validator.Validate, coll string, records []T) ([]primitive.ObjectID, error) {
	docs := make([]interface{}, 0, len(records))
	for i, r := range records {
		if err := v.StructCtx(ctx, r); err != nil {
			return nil, fmt.Errorf("seed %s[%d]: %w", coll, i, err)
		}
		docs = append(docs, r)
	}

	result, err := s.db.Collection(coll).InsertMany(ctx, docs,
		options.InsertMany().SetOrdered(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("seed %s: duplicate keys, batch already seeded: %w", coll, err)
		}
		return nil, fmt.Errorf("seed %s: %w", coll, err)
	}

	ids := make([]primitive.ObjectID, 0, len(result.InsertedIDs))
	for _, raw := range result.InsertedIDs {
		if id, ok := raw.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}

	seedMetricsAdd(coll, len(ids))
	s.logger.Info("seed.inserted", "collection", coll, "count", len(ids))
	return ids, nil
}
