// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package testing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueDatabaseName(t *testing.T) {
	a := UniqueDatabaseName()
	b := UniqueDatabaseName()

	assert.True(t, strings.HasPrefix(a, "bibsetup_test_"))
	assert.NotEqual(t, a, b, "names must be unique within a process")
}
