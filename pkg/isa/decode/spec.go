package decode

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Manu343726/isaview/pkg/utils"
)

// SpecFormatDocs documents the isa spec file format.
const SpecFormatDocs = `Isa spec file format

An isa spec is a yaml file naming an architecture and listing its known
instructions. Each instruction carries a mask/match pattern over the
instruction encoding: an encoding E belongs to the instruction when
E & mask == match. Patterns are tried in file order and the first match wins.

Example:

  architecture: rdna3
  instructions:
    - name: S_ENDPGM
      description: End of program; terminate wavefront.
      group: Program flow
      encoding: SOPP
      mask: "0xFFFF0000"
      match: "0xBFB00000"`

// specFile is the on-disk schema of an isa spec file.
type specFile struct {
	Architecture string            `yaml:"architecture"`
	Instructions []specInstruction `yaml:"instructions"`
}

// specInstruction pairs instruction information with the mask/match pattern
// that identifies its encoding.
type specInstruction struct {
	InstructionInfo `yaml:",inline"`

	// Hex strings; an encoding E belongs to this instruction when
	// E & mask == match.
	Mask  string `yaml:"mask"`
	Match string `yaml:"match"`
}

type pattern struct {
	mask  uint64
	match uint64
	info  InstructionInfo
}

// SpecDecoder decodes instructions by matching their encodings against the
// mask/match patterns of an isa spec file. Patterns are tried in spec file
// order; the first match wins.
type SpecDecoder struct {
	architecture string
	patterns     []pattern
}

// LoadSpec reads and compiles an isa spec file.
func LoadSpec(path string) (*SpecDecoder, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file specFile

	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, utils.MakeError(err, "cannot parse isa spec %q", path)
	}

	decoder := &SpecDecoder{
		architecture: file.Architecture,
		patterns:     make([]pattern, 0, len(file.Instructions)),
	}

	for _, instruction := range file.Instructions {
		mask, err := parseEncoding(instruction.Mask)
		if err != nil {
			return nil, utils.MakeError(err, "instruction %q: bad mask", instruction.Name)
		}

		match, err := parseEncoding(instruction.Match)
		if err != nil {
			return nil, utils.MakeError(err, "instruction %q: bad match", instruction.Name)
		}

		decoder.patterns = append(decoder.patterns, pattern{
			mask:  mask,
			match: match,
			info:  instruction.InstructionInfo,
		})
	}

	return decoder, nil
}

// Architecture returns the architecture name declared by the spec file.
func (d *SpecDecoder) Architecture() string {
	return d.architecture
}

// Decode looks up the instruction information for a hex binary
// representation.
func (d *SpecDecoder) Decode(binaryRepresentation string) (InstructionInfo, error) {
	value, err := parseEncoding(binaryRepresentation)
	if err != nil {
		return InstructionInfo{}, err
	}

	for _, p := range d.patterns {
		if value&p.mask == p.match {
			return p.info, nil
		}
	}

	return InstructionInfo{}, utils.MakeError(ErrUnknownInstruction, "no pattern matches %q", binaryRepresentation)
}
