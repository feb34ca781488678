// Package nav tracks branch and label navigation history for an isa viewer.
package nav

import (
	"fmt"

	"github.com/Manu343726/isaview/pkg/isa/model"
)

// Entry is one visited branch or label line.
type Entry struct {
	// The visited line.
	Index model.RowIndex
	// Absolute line number, for display.
	LineNumber int
	// The branch op code or label text, for display.
	Text string
}

func (e Entry) String() string {
	return fmt.Sprintf("%v: %v", e.LineNumber, e.Text)
}

// History is a back/forward cursor over visited branch and label lines,
// browser style: adding an entry trims any forward history, and consecutive
// duplicates are suppressed.
//
// The cursor sits one past the most recent entry; going back steps onto it.
type History struct {
	entries []Entry
	cursor  int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Clear drops all history.
func (h *History) Clear() {
	h.entries = nil
	h.cursor = 0
}

// Add records a newly visited branch or label line. Adding the line the
// cursor already sits on is a no-op.
func (h *History) Add(entry Entry) {
	if len(h.entries) > 0 {
		check := h.cursor

		if check == len(h.entries) {
			check--
		}

		if h.entries[check].Index == entry.Index {
			// Prevent consecutive duplicates.
			return
		}
	}

	h.entries = h.entries[:h.cursor]
	h.entries = append(h.entries, entry)
	h.cursor = len(h.entries)
}

// CanGoBack reports whether Back will move.
func (h *History) CanGoBack() bool {
	return h.cursor > 0
}

// CanGoForward reports whether Forward will move.
func (h *History) CanGoForward() bool {
	return h.cursor < len(h.entries)-1
}

// Back steps to the previous entry. ok is false when there is none.
func (h *History) Back() (Entry, bool) {
	if !h.CanGoBack() {
		return Entry{}, false
	}

	h.cursor--

	return h.entries[h.cursor], true
}

// Forward steps to the next entry. ok is false when there is none.
func (h *History) Forward() (Entry, bool) {
	if !h.CanGoForward() {
		return Entry{}, false
	}

	h.cursor++

	return h.entries[h.cursor], true
}

// Select jumps the cursor to an arbitrary history entry.
func (h *History) Select(i int) (Entry, bool) {
	if i < 0 || i >= len(h.entries) {
		return Entry{}, false
	}

	h.cursor = i

	return h.entries[i], true
}

// Entries returns the history in visit order.
func (h *History) Entries() []Entry {
	return h.entries
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the cursor position.
func (h *History) Cursor() int {
	return h.cursor
}
