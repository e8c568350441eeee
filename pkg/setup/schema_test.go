// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCollections_NamesAndOrder(t *testing.T) {
	cols := Collections()
	require.Len(t, cols, 4)

	// Creation order matters for readability of the run output, and the
	// seed stages insert in the same order.
	assert.Equal(t, []string{"authors", "books", "patrons", "loans"}, CollectionNames())
	for i, c := range cols {
		assert.Equal(t, CollectionNames()[i], c.Name)
		assert.Contains(t, c.Validator, "$jsonSchema")
	}
}

// schemaOf unwraps the $jsonSchema document of a collection validator.
func schemaOf(t *testing.T, name string) bson.M {
	t.Helper()
	for _, c := range Collections() {
		if c.Name == name {
			schema, ok := c.Validator["$jsonSchema"].(bson.M)
			require.True(t, ok)
			return schema
		}
	}
	t.Fatalf("no collection named %s", name)
	return nil
}

func TestValidators_RequiredFields(t *testing.T) {
	tests := []struct {
		collection string
		required   []string
	}{
		{CollAuthors, []string{"first_name", "last_name", "born"}},
		{CollBooks, []string{"title", "author_id", "isbn", "year", "available_copies"}},
		{CollPatrons, []string{"first_name", "last_name", "email", "national_id", "registered_at"}},
		{CollLoans, []string{"book_id", "patron_id", "loaned_at", "due_at", "patron_name", "patron_email"}},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			schema := schemaOf(t, tt.collection)
			assert.Equal(t, tt.required, schema["required"])
		})
	}
}

func TestValidators_BookConstraints(t *testing.T) {
	props := schemaOf(t, CollBooks)["properties"].(bson.M)

	isbn := props["isbn"].(bson.M)
	assert.Equal(t, ISBNPattern, isbn["pattern"])

	year := props["year"].(bson.M)
	assert.Equal(t, 1000, year["minimum"])
	assert.Equal(t, 2030, year["maximum"])

	available := props["available_copies"].(bson.M)
	assert.Equal(t, 0, available["minimum"], "available copies may reach zero")

	total := props["total_copies"].(bson.M)
	assert.Equal(t, 1, total["minimum"])

	assert.Equal(t, "objectId", props["author_id"].(bson.M)["bsonType"])
}

func TestValidators_PatronConstraints(t *testing.T) {
	props := schemaOf(t, CollPatrons)["properties"].(bson.M)

	email := props["email"].(bson.M)
	assert.Equal(t, EmailPattern, email["pattern"])

	nid := props["national_id"].(bson.M)
	assert.Equal(t, 16, nid["minLength"])
	assert.Equal(t, 16, nid["maxLength"])
}

func TestValidators_LoanConstraints(t *testing.T) {
	props := schemaOf(t, CollLoans)["properties"].(bson.M)

	status := props["status"].(bson.M)
	assert.Equal(t, []string{"active", "returned", "overdue"}, status["enum"])

	returned := props["returned_at"].(bson.M)
	assert.Equal(t, []string{"date", "null"}, returned["bsonType"],
		"returned_at must accept null for open loans")
}

func TestISBNPattern(t *testing.T) {
	re := regexp.MustCompile(ISBNPattern)

	valid := []string{
		"978-88-17-12345-1",
		"0306406152",
		"978-0-306-40615-7",
	}
	for _, s := range valid {
		assert.True(t, re.MatchString(s), "expected %q to match", s)
	}

	invalid := []string{
		"978-88-17-ABCDE-1", // letters
		"123456789",         // too short
		"978-0-306-40615-77777", // too long
		"",
	}
	for _, s := range invalid {
		assert.False(t, re.MatchString(s), "expected %q not to match", s)
	}
}

func TestIsNamespaceExists(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"code 48", mongo.CommandError{Code: 48}, true},
		{"named", mongo.CommandError{Name: "NamespaceExists"}, true},
		{"other command error", mongo.CommandError{Code: 11000}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNamespaceExists(tt.err))
		})
	}
}
