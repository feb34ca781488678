// Package render writes an isa document as a colored terminal listing.
//
// Columns are aligned from the model's cached widths, so the listing expects
// a model measured with a character width of 1 (the default). Tokens are
// colored by their classified type; disabled instruction rows render
// uncolored.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Manu343726/isaview/pkg/isa/model"
)

// Token and row colors.
var (
	labelColor          = color.New(color.FgMagenta, color.Bold)
	branchTargetColor   = color.New(color.FgMagenta)
	scalarRegisterColor = color.New(color.FgCyan)
	vectorRegisterColor = color.New(color.FgGreen)
	constantColor       = color.New(color.FgYellow)
	commentColor        = color.New(color.FgHiBlack)
	opCodeColor         = color.New(color.FgBlue)
	lineNumberColor     = color.New(color.FgHiBlack)
)

// Listing renders a document through a column filter.
type Listing struct {
	filter *model.ColumnFilter

	// Maximum visible line width; 0 means unlimited.
	Width int
}

// NewListing creates a listing over the filtered document.
func NewListing(filter *model.ColumnFilter) *Listing {
	return &Listing{filter: filter}
}

// WriteTo writes the whole listing.
func (l *Listing) WriteTo(writer io.Writer) (int64, error) {
	m := l.filter.Model()

	var written int64

	for line := 0; line < m.LineCount(); line++ {
		index, ok := m.LineNumberIndex(line)
		if !ok {
			continue
		}

		n, err := fmt.Fprintln(writer, l.renderLine(m, index))
		written += int64(n)

		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// renderLine builds one visible line with every shown column.
func (l *Listing) renderLine(m *model.Model, index model.RowIndex) string {
	line := newLineBuilder(l.Width)

	for _, column := range l.filter.VisibleColumns() {
		l.renderCell(m, index, column, line)
	}

	return strings.TrimRight(line.String(), " ")
}

func (l *Listing) renderCell(m *model.Model, index model.RowIndex, column model.Column, line *lineBuilder) {
	width := m.ColumnWidth(column)
	text := m.CellText(index, column)

	switch column {
	case model.ColumnLineNumber:
		// Right-aligned, like the tree view draws it.
		line.write(strings.Repeat(" ", max(0, width-len(text)))+text, lineNumberColor)
		line.write(model.ColumnPadding, nil)

		return
	case model.ColumnOpCode, model.ColumnOperands:
		if l.renderTokens(m, index, column, width, line) {
			return
		}
	}

	line.write(text, l.cellColor(m, index, column))
	line.write(pad(text, width), nil)
}

// renderTokens colors the op code or operands column token by token.
// Returns false when the cell has no tokens and should render as plain text.
func (l *Listing) renderTokens(m *model.Model, index model.RowIndex, column model.Column, width int, line *lineBuilder) bool {
	groups := m.Tokens(index, column)
	if groups == nil {
		return false
	}

	enabled := m.LineEnabled(index)

	var cell strings.Builder
	plain := 0

	if column == model.ColumnOpCode && !index.IsBlockHeader() {
		cell.WriteString(model.OpCodeColumnIndent)
		plain += len(model.OpCodeColumnIndent)
	}

	for i, group := range groups {
		for j, token := range group {
			c := tokenColor(token, m, index)
			if !enabled {
				c = nil
			}

			if c != nil {
				cell.WriteString(c.Sprint(token.Text))
			} else {
				cell.WriteString(token.Text)
			}

			plain += len(token.Text)

			if j < len(group)-1 {
				cell.WriteString(model.OperandTokenSpace)
				plain += len(model.OperandTokenSpace)
			}
		}

		if i < len(groups)-1 {
			cell.WriteString(model.OperandDelimiter)
			plain += len(model.OperandDelimiter)
		}
	}

	line.writeColored(cell.String(), plain)
	line.write(strings.Repeat(" ", max(0, width-plain)), nil)

	return true
}

func (l *Listing) cellColor(m *model.Model, index model.RowIndex, column model.Column) *color.Color {
	switch m.ForegroundHint(index, column) {
	case model.ColorHint_Comment:
		return commentColor
	case model.ColorHint_BranchTargetLabel:
		return branchTargetColor
	}

	return nil
}

// tokenColor picks the color of one classified token.
func tokenColor(token model.Token, m *model.Model, index model.RowIndex) *color.Color {
	switch token.Type {
	case model.TokenType_Label:
		if m.IsBranchTarget(index.Block) && index.IsBlockHeader() {
			return branchTargetColor
		}

		return labelColor
	case model.TokenType_BranchLabel:
		return branchTargetColor
	case model.TokenType_ScalarRegister:
		return scalarRegisterColor
	case model.TokenType_VectorRegister:
		return vectorRegisterColor
	case model.TokenType_Constant:
		return constantColor
	}

	if token.Selectable {
		// The op code token carries no type of its own.
		return opCodeColor
	}

	return nil
}

func pad(text string, width int) string {
	return strings.Repeat(" ", max(0, width-len(text)))
}

// lineBuilder accumulates colored cells while tracking the visible (ANSI
// escape free) width, so truncation never cuts an escape sequence in half.
type lineBuilder struct {
	builder strings.Builder
	visible int
	limit   int
}

func newLineBuilder(limit int) *lineBuilder {
	return &lineBuilder{limit: limit}
}

func (b *lineBuilder) remaining() int {
	if b.limit <= 0 {
		return -1
	}

	return max(0, b.limit-b.visible)
}

func (b *lineBuilder) write(text string, c *color.Color) {
	if room := b.remaining(); room >= 0 && len(text) > room {
		text = text[:room]
	}

	if text == "" {
		return
	}

	if c != nil {
		b.builder.WriteString(c.Sprint(text))
	} else {
		b.builder.WriteString(text)
	}

	b.visible += len(text)
}

// writeColored appends pre-colored text whose visible width is known. It is
// skipped entirely when it does not fit.
func (b *lineBuilder) writeColored(text string, visible int) {
	if room := b.remaining(); room >= 0 && visible > room {
		return
	}

	b.builder.WriteString(text)
	b.visible += visible
}

func (b *lineBuilder) String() string {
	return b.builder.String()
}
