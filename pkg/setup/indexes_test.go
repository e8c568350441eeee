// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// keyOf returns the single key of a one-field index, failing for compounds.
func keyOf(t *testing.T, m mongo.IndexModel) string {
	t.Helper()
	keys, ok := m.Keys.(bson.D)
	require.True(t, ok)
	require.Len(t, keys, 1)
	return keys[0].Key
}

func isUnique(m mongo.IndexModel) bool {
	return m.Options != nil && m.Options.Unique != nil && *m.Options.Unique
}

func TestIndexModels_CoverAllCollections(t *testing.T) {
	models := IndexModels()
	require.Len(t, models, 4)
	for _, name := range CollectionNames() {
		assert.NotEmpty(t, models[name], "collection %s has no indexes", name)
	}
}

func TestIndexModels_UniqueConstraints(t *testing.T) {
	// Uniqueness is the storage layer's job: exactly isbn, email and
	// national_id carry it, nothing else. Authors have no natural key,
	// so a re-run without reset inserts that batch again.
	wantUnique := map[string]map[string]bool{
		CollBooks:   {"isbn": true},
		CollPatrons: {"email": true, "national_id": true},
	}

	for coll, models := range IndexModels() {
		for _, m := range models {
			keys := m.Keys.(bson.D)
			if len(keys) != 1 {
				assert.False(t, isUnique(m), "compound index on %s must not be unique", coll)
				continue
			}
			key := keys[0].Key
			assert.Equal(t, wantUnique[coll][key], isUnique(m),
				"unexpected uniqueness for %s.%s", coll, key)
		}
	}
}

func TestIndexModels_Books(t *testing.T) {
	models := IndexModels()[CollBooks]
	require.Len(t, models, 4)

	var keys []string
	for _, m := range models {
		keys = append(keys, keyOf(t, m))
	}
	assert.ElementsMatch(t, []string{"author_id", "isbn", "title", "genre"}, keys)
}

func TestIndexModels_LoansOrdering(t *testing.T) {
	models := IndexModels()[CollLoans]
	require.Len(t, models, 5)

	// loaned_at is queried newest-first; everything else ascending.
	directions := map[string]int{}
	for _, m := range models {
		keys := m.Keys.(bson.D)
		require.Len(t, keys, 1)
		directions[keys[0].Key] = keys[0].Value.(int)
	}
	assert.Equal(t, -1, directions["loaned_at"])
	assert.Equal(t, 1, directions["due_at"])
	assert.Equal(t, 1, directions["status"])
}

func TestIndexModels_AuthorsCompound(t *testing.T) {
	models := IndexModels()[CollAuthors]
	require.Len(t, models, 2)

	compound := models[0].Keys.(bson.D)
	require.Len(t, compound, 2)
	assert.Equal(t, "first_name", compound[0].Key)
	assert.Equal(t, "last_name", compound[1].Key)
}
