package model

import "strings"

// Search finds every line whose text in any column except the line number
// column contains text, case-insensitively. Results come back in document
// order with at most one entry per line. Empty search text matches nothing.
func (m *Model) Search(text string) []RowIndex {
	if text == "" {
		return nil
	}

	needle := strings.ToLower(text)

	var matches []RowIndex

	for _, index := range m.lineIndex {
		for column := ColumnLineNumber + 1; column < ColumnCount; column++ {
			if strings.Contains(strings.ToLower(m.CellText(index, column)), needle) {
				matches = append(matches, index)
				break
			}
		}
	}

	return matches
}
