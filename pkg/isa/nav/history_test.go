package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/isaview/pkg/isa/model"
)

func entry(block, row, line int, text string) Entry {
	return Entry{
		Index:      model.RowIndex{Block: block, Row: row},
		LineNumber: line,
		Text:       text,
	}
}

func TestHistory_StartsEmpty(t *testing.T) {
	h := NewHistory()

	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanGoBack())
	assert.False(t, h.CanGoForward())

	_, ok := h.Back()
	assert.False(t, ok)
	_, ok = h.Forward()
	assert.False(t, ok)
}

func TestHistory_BackAndForward(t *testing.T) {
	h := NewHistory()

	h.Add(entry(0, -1, 0, "main"))
	h.Add(entry(1, 2, 5, "s_branch loop"))
	h.Add(entry(2, -1, 7, "loop"))

	require.Equal(t, 3, h.Len())
	require.True(t, h.CanGoBack())
	require.False(t, h.CanGoForward())

	back, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "loop", back.Text)

	back, ok = h.Back()
	require.True(t, ok)
	assert.Equal(t, "s_branch loop", back.Text)

	forward, ok := h.Forward()
	require.True(t, ok)
	assert.Equal(t, "loop", forward.Text)
}

func TestHistory_AddTrimsForwardHistory(t *testing.T) {
	h := NewHistory()

	h.Add(entry(0, -1, 0, "a"))
	h.Add(entry(1, -1, 1, "b"))
	h.Add(entry(2, -1, 2, "c"))

	h.Back()
	h.Back()

	// Branching off the middle of the history drops everything ahead.
	h.Add(entry(3, -1, 3, "d"))

	require.Equal(t, 2, h.Len())
	assert.False(t, h.CanGoForward())

	// The first step back lands on the entry just added.
	back, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "d", back.Text)

	back, ok = h.Back()
	require.True(t, ok)
	assert.Equal(t, "a", back.Text)
}

func TestHistory_ConsecutiveDuplicatesAreSuppressed(t *testing.T) {
	h := NewHistory()

	h.Add(entry(0, -1, 0, "a"))
	h.Add(entry(0, -1, 0, "a"))
	h.Add(entry(1, -1, 1, "b"))
	h.Add(entry(1, -1, 1, "b"))

	assert.Equal(t, 2, h.Len())
}

func TestHistory_Select(t *testing.T) {
	h := NewHistory()

	h.Add(entry(0, -1, 0, "a"))
	h.Add(entry(1, -1, 1, "b"))
	h.Add(entry(2, -1, 2, "c"))

	selected, ok := h.Select(0)
	require.True(t, ok)
	assert.Equal(t, "a", selected.Text)
	assert.Equal(t, 0, h.Cursor())

	forward, ok := h.Forward()
	require.True(t, ok)
	assert.Equal(t, "b", forward.Text)

	_, ok = h.Select(99)
	assert.False(t, ok)
	_, ok = h.Select(-1)
	assert.False(t, ok)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory()

	h.Add(entry(0, -1, 0, "a"))
	h.Clear()

	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanGoBack())
	assert.Empty(t, h.Entries())
}

func TestEntry_String(t *testing.T) {
	assert.Equal(t, "5: s_branch loop", entry(1, 2, 5, "s_branch loop").String())
}
