package model

// RowKind tags the two variants of rows and blocks. The variant set is
// closed; everything that consumes rows or blocks switches over it
// exhaustively.
type RowKind int

const (
	// RowKind_Code marks a code block or an instruction row.
	RowKind_Code RowKind = iota
	// RowKind_Comment marks a comment block or a comment row.
	RowKind_Comment
)

func (k RowKind) String() string {
	switch k {
	case RowKind_Code:
		return "Code"
	case RowKind_Comment:
		return "Comment"
	}

	panic("unreachable")
}

// Row is one line inside a block: an instruction or an inline comment. Kind
// tags which fields are meaningful.
//
// Rows are built once per document load and are immutable afterwards, except
// for the Enabled flag, which the host may toggle to suppress color coding.
type Row struct {
	Kind RowKind
	// Line number relative to the entire document.
	LineNumber int

	// Comment rows only.
	Text string

	// Instruction rows only.
	OpCode Token
	// Operand tokens; tokens belonging to the same operand are grouped
	// together. Populated by the model at load time.
	Operands [][]Token
	// The pc address text of this instruction.
	PCAddress string
	// The binary representation text of this instruction, a hex string.
	BinaryRepresentation string
	// true if this instruction should be color coded, false otherwise.
	Enabled bool

	// Raw operand strings as supplied by the host, tokenized at load time.
	rawOperands []string
}

// NewInstructionRow creates an instruction row from the raw text of one
// decoded instruction. The operand strings are the comma-separated operand
// pieces; the model tokenizes them when the document is loaded.
func NewInstructionRow(line int, opCode string, operands []string, pcAddress, binaryRepresentation string) *Row {
	row := &Row{
		Kind:                 RowKind_Code,
		LineNumber:           line,
		OpCode:               EmptyToken(),
		PCAddress:            pcAddress,
		BinaryRepresentation: binaryRepresentation,
		Enabled:              true,
		rawOperands:          append([]string(nil), operands...),
	}
	row.OpCode.Text = opCode

	return row
}

// NewCommentRow creates a row holding one line of comment.
func NewCommentRow(line int, text string) *Row {
	return &Row{
		Kind:       RowKind_Comment,
		LineNumber: line,
		Text:       text,
	}
}

// Block is one top-level grouping of the document: a labeled code section or
// a comment header. Kind tags which fields are meaningful.
type Block struct {
	Kind RowKind
	// This block's index into the document's block sequence. Blocks are
	// addressed purely by position; a loaded document requires
	// blocks[i].Position == i.
	Position int
	// Line number relative to the entire document.
	LineNumber int

	// Comment blocks only.
	Text string

	// Code blocks only.
	Label Token
	Rows  []*Row
	// Every branch instruction elsewhere in the document that targets this
	// block's label, populated by branch resolution.
	BranchReferences []RowIndex
}

// NewCodeBlock creates a code block named by label.
func NewCodeBlock(position, line int, label string) *Block {
	block := &Block{
		Kind:       RowKind_Code,
		Position:   position,
		LineNumber: line,
		Label:      EmptyToken(),
	}
	block.Label.Text = label
	block.Label.Type = TokenType_Label
	block.Label.Selectable = true

	return block
}

// NewCommentBlock creates a label-less block holding comment text.
func NewCommentBlock(position, line int, text string) *Block {
	return &Block{
		Kind:       RowKind_Comment,
		Position:   position,
		LineNumber: line,
		Text:       text,
	}
}

// AddRow appends a child row to the block.
func (b *Block) AddRow(row *Row) *Block {
	b.Rows = append(b.Rows, row)
	return b
}
