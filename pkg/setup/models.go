// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan status values. The storage-layer validator restricts the status
// field to exactly this set.
const (
	StatusActive   = "active"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

// Author is a library author record.
type Author struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FirstName   string             `bson:"first_name" validate:"required,min=1"`
	LastName    string             `bson:"last_name" validate:"required,min=1"`
	Born        time.Time          `bson:"born" validate:"required"`
	Died        *time.Time         `bson:"died"`
	Nationality string             `bson:"nationality,omitempty"`
	Bio         string             `bson:"bio,omitempty"`
}

// Book is a library book record. AuthorID is a foreign reference to an
// Author; the store enforces only its objectId shape, not its existence.
type Book struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Title           string             `bson:"title" validate:"required,min=1"`
	AuthorID        primitive.ObjectID `bson:"author_id"`
	ISBN            string             `bson:"isbn" validate:"required,isbncode"`
	Year            int32              `bson:"year" validate:"gte=1000,lte=2030"`
	Genre           string             `bson:"genre,omitempty"`
	Publisher       string             `bson:"publisher,omitempty"`
	Pages           int32              `bson:"pages,omitempty" validate:"omitempty,gte=1"`
	TotalCopies     int32              `bson:"total_copies,omitempty" validate:"omitempty,gte=1"`
	AvailableCopies int32              `bson:"available_copies" validate:"gte=0"`
	Description     string             `bson:"description,omitempty"`
}

// Patron is a registered library member.
type Patron struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name" validate:"required,min=1"`
	LastName     string             `bson:"last_name" validate:"required,min=1"`
	Email        string             `bson:"email" validate:"required,email"`
	NationalID   string             `bson:"national_id" validate:"required,len=16"`
	Phone        string             `bson:"phone,omitempty"`
	RegisteredAt time.Time          `bson:"registered_at" validate:"required"`
	Active       bool               `bson:"active"`
}

// FullName returns the patron display name used in loan snapshots.
func (p Patron) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Loan records a book lent to a patron.
//
// PatronName and PatronEmail are a denormalized snapshot taken at loan
// creation. They are a historical record and must never be rewritten when
// the source patron changes.
type Loan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	BookID      primitive.ObjectID `bson:"book_id"`
	PatronID    primitive.ObjectID `bson:"patron_id"`
	LoanedAt    time.Time          `bson:"loaned_at" validate:"required"`
	DueAt       time.Time          `bson:"due_at" validate:"required"`
	ReturnedAt  *time.Time         `bson:"returned_at"`
	PatronName  string             `bson:"patron_name" validate:"required"`
	PatronEmail string             `bson:"patron_email" validate:"required,email"`
	Note        string             `bson:"note,omitempty"`
	Status      string             `bson:"status" validate:"required,oneof=active returned overdue"`
}

var isbnRe = regexp.MustCompile(ISBNPattern)

// newRecordValidator builds the client-side validator applied to records
// before they are sent to the store. It mirrors the storage-layer schema
// and additionally enforces available_copies <= total_copies, which a
// $jsonSchema validator cannot express.
func newRecordValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("isbncode", func(fl validator.FieldLevel) bool {
		return isbnRe.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		b := sl.Current().Interface().(Book)
		if b.TotalCopies > 0 && b.AvailableCopies > b.TotalCopies {
			sl.ReportError(b.AvailableCopies, "AvailableCopies", "available_copies", "ltecopies", "")
		}
	}, Book{})

	return v
}
