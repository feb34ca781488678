package model

// Column identifies one of the fixed columns shared by every view of the
// model.
type Column int

const (
	ColumnLineNumber Column = iota
	ColumnPCAddress
	ColumnOpCode
	ColumnOperands
	ColumnBinaryRepresentation
	// ColumnCount is the number of columns; it is not itself a column.
	ColumnCount
)

// columnNames holds the predefined column headers.
var columnNames = [ColumnCount]string{
	ColumnLineNumber:           "",
	ColumnPCAddress:            "PC address",
	ColumnOpCode:               "Opcode",
	ColumnOperands:             "Operands",
	ColumnBinaryRepresentation: "Binary representation",
}

// HeaderText returns the display header for the column, empty for
// out-of-range columns.
func (c Column) HeaderText() string {
	if c < 0 || c >= ColumnCount {
		return ""
	}

	return columnNames[c]
}

func (c Column) String() string {
	switch c {
	case ColumnLineNumber:
		return "LineNumber"
	case ColumnPCAddress:
		return "PCAddress"
	case ColumnOpCode:
		return "OpCode"
	case ColumnOperands:
		return "Operands"
	case ColumnBinaryRepresentation:
		return "BinaryRepresentation"
	}

	panic("unreachable")
}

const (
	// ColumnPadding pads every column by one character.
	ColumnPadding = " "
	// OpCodeColumnIndent indents the op code column so child instructions
	// nest visually under their block label.
	OpCodeColumnIndent = "     "
	// OperandTokenSpace separates tokens within the same operand.
	OperandTokenSpace = " "
	// OperandDelimiter separates operands.
	OperandDelimiter = ", "
)
