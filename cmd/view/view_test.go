package view

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The --hide help text lists the hideable columns; the order must not change
// between runs.
func TestHideableColumnNamesAreSorted(t *testing.T) {
	names := hideableColumnNames()

	assert.Len(t, names, len(hideableColumns))
	assert.True(t, sort.StringsAreSorted(names))
}
