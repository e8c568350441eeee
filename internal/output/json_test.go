// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONTo(t *testing.T) {
	type record struct {
		Collection string `json:"collection"`
		Count      int    `json:"count"`
	}

	var buf bytes.Buffer
	err := JSONTo(&buf, record{Collection: "authors", Count: 3})
	require.NoError(t, err)

	// Pretty-printed: must be indented
	assert.Contains(t, buf.String(), "  \"collection\": \"authors\"")

	var decoded record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "authors", decoded.Collection)
	assert.Equal(t, 3, decoded.Count)
}

func TestJSONTo_Array(t *testing.T) {
	var buf bytes.Buffer
	err := JSONTo(&buf, []map[string]any{{"title": "The Name of the Rose"}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(buf.String(), "["))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
}

func TestJSONTo_EncodingFailure(t *testing.T) {
	var buf bytes.Buffer
	err := JSONTo(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON encoding failed")
}

func TestJSONErrorTo(t *testing.T) {
	var buf bytes.Buffer
	err := JSONErrorTo(&buf, fmt.Errorf("aggregation failed"))
	require.NoError(t, err)

	var decoded ErrorJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "aggregation failed", decoded.Error)
}
