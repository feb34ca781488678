package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// branchDocument builds a small document with a conditional branch into a
// loop, a self branch, and a branch whose label exists nowhere.
func branchDocument() []*Block {
	comment := NewCommentBlock(0, 0, "branch resolution fixture")

	main := NewCodeBlock(1, 1, "main")
	main.AddRow(NewInstructionRow(2, "s_mov_b32", []string{"s0", "1"}, "000000000000", "BE800081"))
	main.AddRow(NewInstructionRow(3, "s_cbranch_scc0", []string{"loop"}, "000000000004", "BF850002"))

	loop := NewCodeBlock(2, 4, "loop")
	loop.AddRow(NewInstructionRow(5, "s_branch", []string{"loop"}, "000000000008", "BF820000"))
	loop.AddRow(NewInstructionRow(6, "s_branch", []string{"nowhere"}, "00000000000C", "BF820001"))

	return []*Block{comment, main, loop}
}

func TestResolveBranches_LinksBranchesAndLabels(t *testing.T) {
	m := NewModel(nil)
	m.Load(branchDocument())

	// The loop label is targeted by the conditional branch in main and by
	// its own self branch, in document order.
	require.True(t, m.IsBranchTarget(2))
	assert.Equal(t, []RowIndex{{Block: 1, Row: 1}, {Block: 2, Row: 0}}, m.BranchReferences(2))

	assert.False(t, m.IsBranchTarget(0))
	assert.False(t, m.IsBranchTarget(1))

	// Each resolved branch token stores its target block.
	target, ok := m.BranchTarget(RowIndex{Block: 1, Row: 1})
	require.True(t, ok)
	assert.Equal(t, RowIndex{Block: 2, Row: BlockHeaderRow}, target)

	target, ok = m.BranchTarget(RowIndex{Block: 2, Row: 0})
	require.True(t, ok)
	assert.Equal(t, RowIndex{Block: 2, Row: BlockHeaderRow}, target)
}

func TestResolveBranches_UnresolvedBranchOffersNoNavigation(t *testing.T) {
	m := NewModel(nil)
	m.Load(branchDocument())

	_, ok := m.BranchTarget(RowIndex{Block: 2, Row: 1})
	assert.False(t, ok)

	assert.Empty(t, m.NavigationTargets(RowIndex{Block: 2, Row: 1}))

	// The branch label token keeps its provisional classification.
	token := m.Block(2).Rows[1].Operands[0][0]
	assert.Equal(t, TokenType_BranchLabel, token.Type)
	assert.Equal(t, -1, token.StartRegisterIndex)
}

func TestResolveBranches_NonBranchRowsAreIgnored(t *testing.T) {
	m := NewModel(nil)
	m.Load(branchDocument())

	_, ok := m.BranchTarget(RowIndex{Block: 1, Row: 0})
	assert.False(t, ok)
}

func TestResolveBranches_ResolvingTwiceIsIdempotent(t *testing.T) {
	m := NewModel(nil)
	m.Load(branchDocument())

	references := append([]RowIndex(nil), m.BranchReferences(2)...)

	m.ResolveBranches()
	m.ResolveBranches()

	assert.Equal(t, references, m.BranchReferences(2))
}

func TestResolveBranches_DuplicateLabelLaterBlockWins(t *testing.T) {
	first := NewCodeBlock(0, 0, "dup")
	first.AddRow(NewInstructionRow(1, "s_branch", []string{"dup"}, "", ""))

	second := NewCodeBlock(1, 2, "dup")

	m := NewModel(nil)
	m.Load([]*Block{first, second})

	target, ok := m.BranchTarget(RowIndex{Block: 0, Row: 0})
	require.True(t, ok)
	assert.Equal(t, 1, target.Block)

	assert.Empty(t, m.BranchReferences(0))
	assert.Equal(t, []RowIndex{{Block: 0, Row: 0}}, m.BranchReferences(1))
}

func TestNavigationTargets_BothDirections(t *testing.T) {
	m := NewModel(nil)
	m.Load(branchDocument())

	// From a branch instruction to its target block header.
	assert.Equal(t, []RowIndex{{Block: 2, Row: BlockHeaderRow}}, m.NavigationTargets(RowIndex{Block: 1, Row: 1}))

	// From a block header back to every branch targeting it.
	assert.Equal(t, []RowIndex{{Block: 1, Row: 1}, {Block: 2, Row: 0}}, m.NavigationTargets(RowIndex{Block: 2, Row: BlockHeaderRow}))
}

func TestResolveBranches_EmptyDocument(t *testing.T) {
	m := NewModel(nil)

	assert.NotPanics(t, func() { m.ResolveBranches() })
	assert.False(t, m.IsBranchTarget(0))
}
