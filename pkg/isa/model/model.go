// Package model stores decoded shader isa as a two-level tree of blocks and
// rows, intended to back a disassembly viewer.
//
// A top-level block is an isa code block or a comment block. A child row is
// an instruction or a comment. The model tokenizes every instruction for
// color coding and selection, links branch instructions to the labels they
// target, and caches per-column sizes so views never measure text per paint.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Manu343726/isaview/pkg/isa/decode"
	"github.com/Manu343726/isaview/pkg/utils"
)

// ColorHint suggests a foreground color class for a cell. Mapping hints to
// actual colors is the view's concern.
type ColorHint int

const (
	ColorHint_Default ColorHint = iota
	// ColorHint_Comment marks comment blocks and comment rows.
	ColorHint_Comment
	// ColorHint_BranchTargetLabel marks a code block label targeted by at
	// least one branch instruction.
	ColorHint_BranchTargetLabel
)

// decodedEntry caches one lazy decoder lookup; ok is false when the decoder
// failed and no supplementary info is available.
type decodedEntry struct {
	info decode.InstructionInfo
	ok   bool
}

// Model owns an ordered sequence of blocks and exposes a hierarchical read
// interface over them.
//
// The model has two states: empty (no blocks) and loaded. Every query
// tolerates out-of-range input and an empty document by returning a
// well-defined empty result. Documents are replaced wholesale by Load; there
// is no partial update path.
//
// A model is not safe for concurrent use; loading and querying are
// synchronous single-threaded operations.
type Model struct {
	blocks []*Block

	// Width of a single character of the fixed font used by attached
	// views. Every token offset and column width derives from it.
	characterWidth float64

	lineNumbersVisible bool

	columnWidths [ColumnCount]int

	// Maps absolute line numbers to their (block, row) index; one entry
	// per block header followed by one per child row, in document order.
	lineIndex []RowIndex

	decoder decode.Decoder
	decoded map[string]decodedEntry
}

// NewModel creates an empty model. The decoder supplies supplementary
// instruction information for tooltips and may be nil, in which case no such
// information is ever available.
//
// The character width defaults to 1, so token offsets and column widths are
// measured in characters until SetCharacterWidth installs font metrics.
func NewModel(decoder decode.Decoder) *Model {
	return &Model{
		characterWidth:     1,
		lineNumbersVisible: true,
		decoder:            decoder,
		decoded:            make(map[string]decodedEntry),
	}
}

// Load replaces the document wholesale. Instruction rows are tokenized,
// branch references resolved, and the line index and column widths rebuilt;
// all state derived from a previous document is discarded.
//
// Blocks must be supplied in position order with consistent Position fields;
// violating that is a programming contract violation and panics.
func (m *Model) Load(blocks []*Block) {
	for i, block := range blocks {
		if block == nil {
			panic(fmt.Sprintf("isa model: nil block at position %v", i))
		}

		if block.Position != i {
			panic(fmt.Sprintf("isa model: block at position %v carries position %v; blocks are addressed purely by position", i, block.Position))
		}
	}

	m.blocks = blocks
	m.decoded = make(map[string]decodedEntry)

	m.tokenize()
	m.ResolveBranches()
	m.CacheSizeHints()
}

// tokenize runs the token classifier on every instruction row and lays out
// label tokens.
func (m *Model) tokenize() {
	for _, block := range m.blocks {
		if block.Kind != RowKind_Code {
			continue
		}

		block.Label.XStart = 0
		block.Label.XEnd = m.characterWidth * float64(len(block.Label.Text))

		for _, row := range block.Rows {
			if row.Kind != RowKind_Code {
				continue
			}

			opCode := row.OpCode.Text
			row.OpCode, row.Operands = TokenizeInstruction(opCode, row.rawOperands, m.characterWidth)
		}
	}
}

// BlockCount returns the number of top-level blocks.
func (m *Model) BlockCount() int {
	return len(m.blocks)
}

// Block returns the block at the given position, nil when out of range.
func (m *Model) Block(position int) *Block {
	if position < 0 || position >= len(m.blocks) {
		return nil
	}

	return m.blocks[position]
}

// RowCount returns the number of child rows of a block, zero when out of
// range. Rows never have children of their own.
func (m *Model) RowCount(block int) int {
	b := m.Block(block)
	if b == nil {
		return 0
	}

	return len(b.Rows)
}

// row resolves an index to its child row, nil for block headers and
// out-of-range input.
func (m *Model) row(index RowIndex) *Row {
	b := m.Block(index.Block)
	if b == nil || index.Row < 0 || index.Row >= len(b.Rows) {
		return nil
	}

	return b.Rows[index.Row]
}

// RowType returns the kind of the addressed line. ok is false when the index
// is out of range.
func (m *Model) RowType(index RowIndex) (RowKind, bool) {
	if index.IsBlockHeader() {
		b := m.Block(index.Block)
		if b == nil {
			return RowKind_Code, false
		}

		return b.Kind, true
	}

	row := m.row(index)
	if row == nil {
		return RowKind_Code, false
	}

	return row.Kind, true
}

// LineNumber returns the absolute line number of the addressed line.
func (m *Model) LineNumber(index RowIndex) (int, bool) {
	if index.IsBlockHeader() {
		b := m.Block(index.Block)
		if b == nil {
			return 0, false
		}

		return b.LineNumber, true
	}

	row := m.row(index)
	if row == nil {
		return 0, false
	}

	return row.LineNumber, true
}

// CellText returns the display text of one cell, empty for out-of-range
// input and for cells that have no text (e.g. the operand column of a
// comment row).
func (m *Model) CellText(index RowIndex, column Column) string {
	if column == ColumnLineNumber {
		line, ok := m.LineNumber(index)
		if !ok {
			return ""
		}

		return strconv.Itoa(line)
	}

	if index.IsBlockHeader() {
		b := m.Block(index.Block)
		if b == nil || column != ColumnOpCode {
			return ""
		}

		switch b.Kind {
		case RowKind_Code:
			return b.Label.Text
		case RowKind_Comment:
			return b.Text
		}
	}

	row := m.row(index)
	if row == nil {
		return ""
	}

	switch row.Kind {
	case RowKind_Comment:
		if column == ColumnOpCode {
			return row.Text
		}

		return ""
	case RowKind_Code:
		switch column {
		case ColumnOpCode:
			return row.OpCode.Text
		case ColumnOperands:
			return OperandsText(row.Operands)
		case ColumnPCAddress:
			return row.PCAddress
		case ColumnBinaryRepresentation:
			return row.BinaryRepresentation
		}
	}

	return ""
}

// OperandsText joins operand token groups into the display string of the
// operands column: token space within a group, delimiter between groups.
func OperandsText(operandTokens [][]Token) string {
	var builder strings.Builder

	for i, group := range operandTokens {
		for j, token := range group {
			builder.WriteString(token.Text)

			if j < len(group)-1 {
				builder.WriteString(OperandTokenSpace)
			}
		}

		if i < len(operandTokens)-1 {
			builder.WriteString(OperandDelimiter)
		}
	}

	return builder.String()
}

// Tokens returns the raw token groups backing a cell, for columns that
// support rich rendering. The op code column of a code block header yields
// its label token; of an instruction row, its op code token. The operands
// column yields the operand groups. Comment lines and every other column
// yield nil.
//
// The returned slices are owned by the model; callers must not mutate them.
func (m *Model) Tokens(index RowIndex, column Column) [][]Token {
	if index.IsBlockHeader() {
		b := m.Block(index.Block)
		if b == nil || b.Kind != RowKind_Code || column != ColumnOpCode {
			return nil
		}

		return [][]Token{{b.Label}}
	}

	row := m.row(index)
	if row == nil || row.Kind != RowKind_Code {
		return nil
	}

	switch column {
	case ColumnOpCode:
		return [][]Token{{row.OpCode}}
	case ColumnOperands:
		return row.Operands
	}

	return nil
}

// IsBranchTarget reports whether a block is a code block whose label is
// targeted by at least one branch instruction.
func (m *Model) IsBranchTarget(block int) bool {
	b := m.Block(block)

	return b != nil && b.Kind == RowKind_Code && len(b.BranchReferences) > 0
}

// BranchReferences returns every branch instruction targeting a block's
// label. The full list is exposed so views can disambiguate labels with more
// than one incoming branch.
func (m *Model) BranchReferences(block int) []RowIndex {
	b := m.Block(block)
	if b == nil || b.Kind != RowKind_Code {
		return nil
	}

	return b.BranchReferences
}

// BranchTarget returns the block header index of the label a branch
// instruction row targets. ok is false for non-branch rows and for branches
// whose target label was not resolved.
func (m *Model) BranchTarget(index RowIndex) (RowIndex, bool) {
	row := m.row(index)
	if row == nil || row.Kind != RowKind_Code {
		return InvalidRowIndex, false
	}

	if len(row.Operands) == 0 || len(row.Operands[0]) == 0 {
		return InvalidRowIndex, false
	}

	// The branch target is the first token of the first operand group.
	token := row.Operands[0][0]

	if token.Type != TokenType_BranchLabel || token.StartRegisterIndex < 0 {
		return InvalidRowIndex, false
	}

	return RowIndex{Block: token.StartRegisterIndex, Row: BlockHeaderRow}, true
}

// NavigationTargets returns the lines a click on the addressed line may
// navigate to: for a branch instruction, the header of its target block; for
// a block header, every branch instruction targeting it.
func (m *Model) NavigationTargets(index RowIndex) []RowIndex {
	if index.IsBlockHeader() {
		return m.BranchReferences(index.Block)
	}

	target, ok := m.BranchTarget(index)
	if !ok {
		return nil
	}

	return []RowIndex{target}
}

// LineEnabled reports whether an instruction row should be color coded.
// Lines that are not instruction rows are always enabled.
func (m *Model) LineEnabled(index RowIndex) bool {
	row := m.row(index)
	if row == nil || row.Kind != RowKind_Code {
		return true
	}

	return row.Enabled
}

// SetLineEnabled toggles color coding for an instruction row. The host uses
// it to suppress coloring on masked-off lanes or disabled instructions.
func (m *Model) SetLineEnabled(index RowIndex, enabled bool) {
	row := m.row(index)
	if row == nil || row.Kind != RowKind_Code {
		return
	}

	row.Enabled = enabled
}

// ForegroundHint suggests the foreground color class of a cell.
func (m *Model) ForegroundHint(index RowIndex, column Column) ColorHint {
	if index.IsBlockHeader() {
		b := m.Block(index.Block)
		if b == nil || column != ColumnOpCode {
			return ColorHint_Default
		}

		switch b.Kind {
		case RowKind_Comment:
			return ColorHint_Comment
		case RowKind_Code:
			if len(b.BranchReferences) > 0 {
				return ColorHint_BranchTargetLabel
			}
		}

		return ColorHint_Default
	}

	row := m.row(index)
	if row != nil && row.Kind == RowKind_Comment && column != ColumnLineNumber {
		return ColorHint_Comment
	}

	return ColorHint_Default
}

// Decoded returns supplementary decoder information for an instruction row,
// looked up lazily on first request and cached per binary encoding. ok is
// false when no decoder is installed, the row is not an instruction, or the
// decoder failed; failures are not errors, the row still renders from its
// own stored text.
func (m *Model) Decoded(index RowIndex) (decode.InstructionInfo, bool) {
	row := m.row(index)
	if row == nil || row.Kind != RowKind_Code || m.decoder == nil {
		return decode.InstructionInfo{}, false
	}

	if entry, ok := m.decoded[row.BinaryRepresentation]; ok {
		return entry.info, entry.ok
	}

	info, err := m.decoder.Decode(row.BinaryRepresentation)
	entry := decodedEntry{info: info, ok: err == nil}
	m.decoded[row.BinaryRepresentation] = entry

	return entry.info, entry.ok
}

// LineCount returns the number of lines in the document; block headers and
// child rows both count.
func (m *Model) LineCount() int {
	return len(m.lineIndex)
}

// LineNumberIndex is the O(1) reverse lookup from an absolute line number to
// the (block, row) index owning that line. ok is false when the line number
// is out of range.
func (m *Model) LineNumberIndex(lineNumber int) (RowIndex, bool) {
	if lineNumber < 0 || lineNumber >= len(m.lineIndex) {
		return InvalidRowIndex, false
	}

	return m.lineIndex[lineNumber], true
}

// ToggleLineNumbers flips line number visibility.
func (m *Model) ToggleLineNumbers() {
	m.lineNumbersVisible = !m.lineNumbersVisible
}

// LineNumbersVisible reports whether line numbers should be drawn.
func (m *Model) LineNumbersVisible() bool {
	return m.lineNumbersVisible
}

// CharacterWidth returns the cached width of a single character of the fixed
// font used by attached views.
func (m *Model) CharacterWidth() float64 {
	return m.characterWidth
}

// SetCharacterWidth installs new font metrics and recomputes every cached
// token offset and column width. Token texts and classifications are left
// untouched.
func (m *Model) SetCharacterWidth(width float64) {
	m.characterWidth = width

	for _, block := range m.blocks {
		if block.Kind != RowKind_Code {
			continue
		}

		block.Label.XStart = 0
		block.Label.XEnd = width * float64(len(block.Label.Text))

		for _, row := range block.Rows {
			if row.Kind != RowKind_Code {
				continue
			}

			LayoutInstruction(&row.OpCode, row.Operands, width)
		}
	}

	m.CacheSizeHints()
}

// ColumnWidth returns the cached width of a column, zero when out of range.
// Widths are the maximum text width the column needs, in character width
// units rounded up, so views can size columns without per-paint measurement.
func (m *Model) ColumnWidth(column Column) int {
	if column < 0 || column >= ColumnCount {
		return 0
	}

	return m.columnWidths[column]
}

// CacheSizeHints recomputes the per-column maximum text widths and rebuilds
// the line number index. It runs once per document load; hosts trigger it
// again explicitly after changing font metrics.
func (m *Model) CacheSizeHints() {
	m.columnWidths = [ColumnCount]int{}
	m.lineIndex = m.lineIndex[:0]

	if len(m.blocks) == 0 {
		return
	}

	// The largest line number belongs to the last row of the last block, or
	// to the block header itself when the document ends in a rowless block.
	last := m.blocks[len(m.blocks)-1]
	maxLineNumber := last.LineNumber

	if len(last.Rows) > 0 {
		maxLineNumber = last.Rows[len(last.Rows)-1].LineNumber
	}

	padding := len(ColumnPadding)

	maxLineNumberLength := padding + len(strconv.Itoa(maxLineNumber))

	var maxPCAddressLength int
	var maxOpCodeLength int
	var maxOperandsLength int
	var maxBinaryLength int

	for _, block := range m.blocks {
		m.lineIndex = append(m.lineIndex, RowIndex{Block: block.Position, Row: BlockHeaderRow})

		for rowIndex, row := range block.Rows {
			m.lineIndex = append(m.lineIndex, RowIndex{Block: block.Position, Row: rowIndex})

			if row.Kind == RowKind_Comment {
				// Don't force comments to fit in the op code column.
				continue
			}

			maxOpCodeLength = utils.Max(maxOpCodeLength, len(row.OpCode.Text))
			maxPCAddressLength = utils.Max(maxPCAddressLength, len(row.PCAddress))
			maxOperandsLength = utils.Max(maxOperandsLength, len(OperandsText(row.Operands)))
			maxBinaryLength = utils.Max(maxBinaryLength, len(row.BinaryRepresentation))
		}
	}

	maxPCAddressLength += padding
	maxOpCodeLength += padding + len(OpCodeColumnIndent)
	maxOperandsLength += padding
	maxBinaryLength += padding

	m.columnWidths[ColumnLineNumber] = int(math.Ceil(float64(maxLineNumberLength) * m.characterWidth))
	m.columnWidths[ColumnPCAddress] = int(math.Ceil(float64(maxPCAddressLength) * m.characterWidth))
	m.columnWidths[ColumnOpCode] = int(math.Ceil(float64(maxOpCodeLength) * m.characterWidth))
	m.columnWidths[ColumnOperands] = int(math.Ceil(float64(maxOperandsLength) * m.characterWidth))
	m.columnWidths[ColumnBinaryRepresentation] = int(math.Ceil(float64(maxBinaryLength) * m.characterWidth))
}
