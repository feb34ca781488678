// Package decode provides supplementary instruction information lookups
// backed by per-architecture isa spec files.
package decode

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Manu343726/isaview/pkg/utils"
)

// InstructionInfo describes one decoded instruction.
type InstructionInfo struct {
	// Instruction name
	Name string `yaml:"name"`
	// Instruction description (for documentation and tooltips)
	Description string `yaml:"description"`
	// Functional group the instruction belongs to
	FunctionalGroup string `yaml:"group"`
	// Name of the instruction's encoding
	Encoding string `yaml:"encoding"`
}

// Decoder turns the hex binary representation of one instruction into its
// instruction information.
type Decoder interface {
	Decode(binaryRepresentation string) (InstructionInfo, error)
}

var (
	ErrUnknownInstruction = errors.New("unknown instruction encoding")
	ErrBadEncoding        = errors.New("malformed binary representation")
)

// parseEncoding parses a hex binary representation string. Listings may
// write multi-dword encodings with spaces and an optional 0x prefix.
func parseEncoding(binaryRepresentation string) (uint64, error) {
	text := strings.ReplaceAll(binaryRepresentation, " ", "")
	text = strings.TrimPrefix(text, "0x")

	if text == "" {
		return 0, utils.MakeError(ErrBadEncoding, "empty encoding")
	}

	value, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		return 0, utils.MakeError(ErrBadEncoding, "cannot parse %q as hex", binaryRepresentation)
	}

	return value, nil
}
