package model

import "fmt"

// TokenType classifies a single span of isa text.
type TokenType int

const (
	// TokenType_None marks plain text that carries no isa semantics.
	TokenType_None TokenType = iota
	// TokenType_Label marks a code block label.
	TokenType_Label
	// TokenType_BranchLabel marks a label targeted by a branch instruction.
	TokenType_BranchLabel
	// TokenType_ScalarRegister marks a scalar register or register range.
	TokenType_ScalarRegister
	// TokenType_VectorRegister marks a vector register or register range.
	TokenType_VectorRegister
	// TokenType_Constant marks a numeric constant.
	TokenType_Constant
)

func (t TokenType) String() string {
	switch t {
	case TokenType_None:
		return "None"
	case TokenType_Label:
		return "Label"
	case TokenType_BranchLabel:
		return "BranchLabel"
	case TokenType_ScalarRegister:
		return "ScalarRegister"
	case TokenType_VectorRegister:
		return "VectorRegister"
	case TokenType_Constant:
		return "Constant"
	}

	panic("unreachable")
}

// Token is a classified span of instruction text. It assists color coding and
// user interaction, like selecting and highlighting.
//
// A token's text is fixed at classification time; only the horizontal offsets
// are recomputed when font metrics change.
type Token struct {
	// The token's isa text.
	Text string
	// The type of this token.
	Type TokenType
	// The starting register index if this token represents a register, -1
	// otherwise. Branch resolution repurposes this field on a resolved
	// branch target token to hold the target block's position, since a
	// branch target is never itself a register.
	StartRegisterIndex int
	// The ending register index if this token represents a register range,
	// -1 for a single register.
	EndRegisterIndex int
	// Horizontal hit box bounds, in character width units scaled by the
	// cached character width.
	XStart float64
	XEnd   float64
	// true if the token can be selected, false otherwise.
	Selectable bool
}

// EmptyToken returns a token that does not represent anything.
func EmptyToken() Token {
	return Token{
		Type:               TokenType_None,
		StartRegisterIndex: -1,
		EndRegisterIndex:   -1,
		XStart:             -1,
		XEnd:               -1,
	}
}

// BlockHeaderRow is the row index addressing a block's own header line
// instead of one of its child rows.
const BlockHeaderRow = -1

// RowIndex addresses one line of a document as a (block, row) pair.
type RowIndex struct {
	Block int
	Row   int
}

// InvalidRowIndex addresses no line at all. Queries on out-of-range input
// return it instead of failing.
var InvalidRowIndex = RowIndex{Block: -1, Row: -1}

// IsBlockHeader reports whether the index addresses a block header line.
func (i RowIndex) IsBlockHeader() bool {
	return i.Row == BlockHeaderRow
}

// Valid reports whether the index addresses any line.
func (i RowIndex) Valid() bool {
	return i.Block >= 0
}

func (i RowIndex) String() string {
	return fmt.Sprintf("(%v, %v)", i.Block, i.Row)
}
