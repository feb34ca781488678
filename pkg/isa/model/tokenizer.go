package model

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// UnconditionalBranchPrefix is the op code text of unconditional
	// branches.
	UnconditionalBranchPrefix = "s_branch"
	// ConditionalBranchPrefix is the op code text prefix of conditional
	// branches.
	ConditionalBranchPrefix = "s_cbranch_"
)

// Single register operands; match negated or absolute-value forms too.
// Ex) s0, -s0, |s0|
var (
	scalarRegisterPattern = regexp.MustCompile(`^-?(\|s[0-9]+\||s[0-9]+)$`)
	vectorRegisterPattern = regexp.MustCompile(`^-?(\|v[0-9]+\||v[0-9]+)$`)

	// The start of a pair of single register operands. Ex) [s0
	scalarPairStartPattern = regexp.MustCompile(`^\[-?(\|s[0-9]+\||s[0-9]+)$`)
	vectorPairStartPattern = regexp.MustCompile(`^\[-?(\|v[0-9]+\||v[0-9]+)$`)

	// The end of a pair of single register operands. Ex) s0]
	scalarPairEndPattern = regexp.MustCompile(`^-?(\|s[0-9]+\||s[0-9]+)\]$`)
	vectorPairEndPattern = regexp.MustCompile(`^-?(\|v[0-9]+\||v[0-9]+)\]$`)

	// Register range operands. Ex) s[0:1]
	scalarRegisterRangePattern = regexp.MustCompile(`^s\[[0-9]+:[0-9]+\]$`)
	vectorRegisterRangePattern = regexp.MustCompile(`^v\[[0-9]+:[0-9]+\]$`)

	// Constant operands. Ex) 0 or 1.0 or 0x01
	constantPattern = regexp.MustCompile(`^-?[0-9]`)
)

// IsBranchOpCode reports whether the op code text belongs to a branch
// instruction.
func IsBranchOpCode(opCode string) bool {
	return strings.Contains(opCode, UnconditionalBranchPrefix) || strings.Contains(opCode, ConditionalBranchPrefix)
}

// splitTrimmed splits line on delimiter and trims surrounding whitespace from
// every piece.
func splitTrimmed(line, delimiter string) []string {
	pieces := strings.Split(line, delimiter)

	for i := range pieces {
		pieces[i] = strings.TrimSpace(pieces[i])
	}

	return pieces
}

// registerIndex parses the register number following the register letter.
// ok is false when no digit follows the letter.
func registerIndex(text string, letter byte) (index int, ok bool) {
	position := strings.IndexByte(text, letter)
	if position < 0 {
		return -1, false
	}

	rest := text[position+1:]
	end := 0

	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}

	if end == 0 {
		return -1, false
	}

	index, err := strconv.Atoi(rest[:end])
	if err != nil {
		return -1, false
	}

	return index, true
}

// TokenizeInstruction classifies an op code and its raw operand strings into
// tokens and assigns their horizontal hit boxes. It never fails; operand text
// that matches no category becomes unselectable plain text.
func TokenizeInstruction(opCode string, operands []string, characterWidth float64) (Token, [][]Token) {
	opCodeToken, operandTokens := ClassifyInstruction(opCode, operands)
	LayoutInstruction(&opCodeToken, operandTokens, characterWidth)

	return opCodeToken, operandTokens
}

// ClassifyInstruction produces one op code token and one token group per
// operand, without geometry.
//
// The op code is always a single selectable token. Operands of a branch
// instruction are typed as branch target labels instead of being pattern
// matched; other operands are matched, in priority order, as single scalar
// register, single vector register, scalar register range, vector register
// range, then numeric constant. Matches must cover the whole sub-token.
func ClassifyInstruction(opCode string, operands []string) (Token, [][]Token) {
	opCodeToken := EmptyToken()
	opCodeToken.Text = opCode
	opCodeToken.Selectable = true

	isBranch := IsBranchOpCode(opCode)

	operandTokens := make([][]Token, 0, len(operands))

	for _, operand := range operands {
		subTokens := splitTrimmed(operand, OperandTokenSpace)
		group := make([]Token, 0, len(subTokens))

		for _, text := range subTokens {
			group = append(group, classifyOperandToken(text, isBranch))
		}

		operandTokens = append(operandTokens, group)
	}

	return opCodeToken, operandTokens
}

func classifyOperandToken(text string, isBranch bool) Token {
	token := EmptyToken()
	token.Text = text

	if isBranch {
		// Identify this operand token simply as the target of a branch
		// instruction.
		token.Type = TokenType_BranchLabel
		token.Selectable = true

		return token
	}

	isScalarRegister := scalarRegisterPattern.MatchString(text) ||
		scalarPairStartPattern.MatchString(text) ||
		scalarPairEndPattern.MatchString(text)

	isVectorRegister := vectorRegisterPattern.MatchString(text) ||
		vectorPairStartPattern.MatchString(text) ||
		vectorPairEndPattern.MatchString(text)

	isScalarRegisterRange := scalarRegisterRangePattern.MatchString(text)
	isVectorRegisterRange := vectorRegisterRangePattern.MatchString(text)

	isConstant := constantPattern.MatchString(text)

	switch {
	case isScalarRegister || isVectorRegister:
		letter := byte('s')
		tokenType := TokenType_ScalarRegister

		if isVectorRegister {
			letter = 'v'
			tokenType = TokenType_VectorRegister
		}

		index, ok := registerIndex(text, letter)
		if !ok {
			// No digit after the register letter; degrade to plain text.
			return token
		}

		token.Type = tokenType
		token.StartRegisterIndex = index
		token.Selectable = true

	case isScalarRegisterRange || isVectorRegisterRange:
		tokenType := TokenType_ScalarRegister

		if isVectorRegisterRange {
			tokenType = TokenType_VectorRegister
		}

		// Strip 's[' or 'v[' and the trailing ']'.
		bounds := splitTrimmed(text[2:len(text)-1], ":")

		start, _ := strconv.Atoi(bounds[0])
		end, _ := strconv.Atoi(bounds[1])

		token.Type = tokenType
		token.StartRegisterIndex = start
		token.EndRegisterIndex = end
		token.Selectable = true

	case isConstant:
		token.Type = TokenType_Constant
		token.Selectable = true
	}

	return token
}

// LayoutInstruction assigns horizontal hit boxes to an instruction's tokens.
// Offsets accumulate left to right: a space width between tokens of the same
// operand, a delimiter width between operands. The op code token is offset by
// the op code column indent.
//
// Safe to re-run whenever the cached character width changes; it only touches
// positional offsets.
func LayoutInstruction(opCodeToken *Token, operandTokens [][]Token, characterWidth float64) {
	opCodeToken.XStart = characterWidth * float64(len(OpCodeColumnIndent))
	opCodeToken.XEnd = opCodeToken.XStart + characterWidth*float64(len(opCodeToken.Text))

	startX := 0.0
	endX := 0.0

	for _, group := range operandTokens {
		var tokenWidth float64

		for i := range group {
			token := &group[i]

			tokenWidth = characterWidth * float64(len(token.Text))
			endX += tokenWidth

			token.XStart = startX
			token.XEnd = endX

			if i < len(group)-1 {
				// Add whitespace width too.
				startX += tokenWidth + characterWidth
				endX += characterWidth
			}
		}

		startX += tokenWidth + characterWidth*float64(len(OperandDelimiter))
		endX += characterWidth * float64(len(OperandDelimiter))
	}
}
