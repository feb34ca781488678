// Package parser builds isa document blocks from plain disassembly listing
// text, the textual format shader compilers and profilers emit.
//
// The recognized shape is one item per line:
//
//	; leading comments form a comment block
//	label:
//	    s_mov_b32 s0, s1            // 000000000000: BE800081
//	    ; inline comment
//	    s_branch label              // 000000000004: BF820000
//
// An instruction line is the op code and its comma-separated operands,
// optionally followed by "// <pc address>: <binary representation>".
package parser

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/Manu343726/isaview/pkg/isa/model"
)

// FormatDocs documents the accepted listing text format.
const FormatDocs = `Disassembly listing format

A listing is plain text with one item per line. Blank lines are ignored and
leading/trailing whitespace is not significant.

  label:        opens a code block; every following instruction belongs to it
  ; text        a comment ("//" also works); comments before any label form a
                comment block, comments inside a code block become comment rows
  <op> <operands> [// <pc address>: <binary representation>]
                an instruction: the op code, comma separated operands, and an
                optional trailing annotation with the program counter address
                and the hex instruction encoding

Example:

  ; simple loop
  main:
      s_mov_b32 s0, 0             // 000000000000: BE800080
  loop:
      s_add_u32 s0, s0, 1         // 000000000004: 8000FF00
      s_cbranch_scc0 loop         // 00000000000C: BF850000
      s_endpgm                    // 000000000010: BF810000`

// ListingParser parses one disassembly listing into model blocks.
type ListingParser struct {
	labelPattern *regexp.Regexp

	blocks  []*model.Block
	current *model.Block
	line    int
}

// NewListingParser creates a parser for one listing.
func NewListingParser() *ListingParser {
	return &ListingParser{
		labelPattern: regexp.MustCompile(`^([A-Za-z_.$][A-Za-z0-9_.$]*):$`),
	}
}

// ParseFile parses a listing file into blocks ready for a model load.
func ParseFile(path string) ([]*model.Block, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return NewListingParser().Parse(file)
}

// Parse consumes the listing and returns its blocks in document order. Lines
// that fit no rule are skipped with a debug log; malformed text never fails
// the parse.
func (p *ListingParser) Parse(reader io.Reader) ([]*model.Block, error) {
	p.blocks = nil
	p.current = nil
	p.line = 0

	scanner := bufio.NewScanner(reader)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		p.parseLine(line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return p.blocks, nil
}

func (p *ListingParser) parseLine(line string) {
	if match := p.labelPattern.FindStringSubmatch(line); match != nil {
		p.current = model.NewCodeBlock(len(p.blocks), p.line, match[1])
		p.blocks = append(p.blocks, p.current)
		p.line++

		return
	}

	if text, ok := commentText(line); ok {
		p.addComment(text)
		return
	}

	if p.current == nil || p.current.Kind != model.RowKind_Code {
		// An instruction outside any code block; the listing is decoded
		// text, so this only happens on hand-edited input.
		slog.Debug("skipping instruction outside a code block", "line", p.line, "text", line)
		return
	}

	p.current.AddRow(parseInstruction(p.line, line))
	p.line++
}

// addComment appends a comment row to the open block, opening a comment
// block when no block is open yet.
func (p *ListingParser) addComment(text string) {
	if p.current == nil {
		p.current = model.NewCommentBlock(len(p.blocks), p.line, text)
		p.blocks = append(p.blocks, p.current)
		p.line++

		return
	}

	p.current.AddRow(model.NewCommentRow(p.line, text))
	p.line++
}

// commentText strips the comment marker from a whole-line comment.
func commentText(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, ";"):
		return strings.TrimSpace(strings.TrimPrefix(line, ";")), true
	case strings.HasPrefix(line, "//"):
		return strings.TrimSpace(strings.TrimPrefix(line, "//")), true
	}

	return "", false
}

// parseInstruction splits one instruction line into op code, operands, pc
// address and binary representation.
func parseInstruction(line int, text string) *model.Row {
	body, annotation, found := strings.Cut(text, "//")

	pcAddress := ""
	binary := ""

	if found {
		// "// <pc address>: <binary representation>"
		if address, encoding, hasColon := strings.Cut(annotation, ":"); hasColon {
			pcAddress = strings.TrimSpace(address)
			binary = strings.TrimSpace(encoding)
		}
	}

	return buildInstructionRow(line, strings.TrimSpace(body), pcAddress, binary)
}

func buildInstructionRow(line int, body, pcAddress, binary string) *model.Row {
	opCode, rest, _ := strings.Cut(body, " ")

	var operands []string

	rest = strings.TrimSpace(rest)
	if rest != "" {
		operands = strings.Split(rest, ",")

		for i := range operands {
			operands[i] = strings.TrimSpace(operands[i])
		}
	}

	return model.NewInstructionRow(line, opCode, operands, pcAddress, binary)
}
