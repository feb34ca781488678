package model

import "log/slog"

// clearBranchReferences drops the branch instruction to label mapping of
// every code block.
func (m *Model) clearBranchReferences() {
	for _, block := range m.blocks {
		if block.Kind != RowKind_Code {
			continue
		}

		block.BranchReferences = nil
	}
}

// ResolveBranches computes the bidirectional mapping between branch
// instructions and the code block labels they target. Any previous mapping
// is cleared first, so resolving an unchanged document twice yields the same
// references.
//
// Only the first token of the first operand group is considered as a branch
// target; the isa never encodes more than one label per instruction. A
// branch whose label text matches no code block stays unresolved and offers
// no navigation. Duplicate label text is not an error: the later block wins
// the lookup.
//
// The pass is O(blocks + instructions). Load runs it automatically.
func (m *Model) ResolveBranches() {
	if len(m.blocks) == 0 {
		return
	}

	m.clearBranchReferences()

	labelToBlock := make(map[string]int)

	for _, block := range m.blocks {
		if block.Kind != RowKind_Code {
			continue
		}

		if previous, duplicate := labelToBlock[block.Label.Text]; duplicate {
			slog.Debug("duplicate code block label, later block wins",
				"label", block.Label.Text,
				"previous_block", previous,
				"block", block.Position)
		}

		labelToBlock[block.Label.Text] = block.Position
	}

	for blockIndex, block := range m.blocks {
		if block.Kind != RowKind_Code {
			continue
		}

		for rowIndex, row := range block.Rows {
			if row.Kind != RowKind_Code || !IsBranchOpCode(row.OpCode.Text) {
				continue
			}

			if len(row.Operands) == 0 || len(row.Operands[0]) == 0 {
				continue
			}

			// Assume the branch target is the first token of the first
			// operand group.
			target := &row.Operands[0][0]

			targetBlockIndex, ok := labelToBlock[target.Text]
			if !ok {
				continue
			}

			// The code block remembers which branch instructions target it.
			targetBlock := m.blocks[targetBlockIndex]
			targetBlock.BranchReferences = append(targetBlock.BranchReferences, RowIndex{Block: blockIndex, Row: rowIndex})

			// The branch instruction remembers which code block is its
			// target.
			target.StartRegisterIndex = targetBlockIndex
		}
	}
}
