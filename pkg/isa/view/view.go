// Package view is an interactive terminal viewer for isa documents: a
// two-level tree of blocks and rows with token color coding, text search,
// and branch/label navigation with back/forward history.
package view

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Manu343726/isaview/pkg/isa/model"
	"github.com/Manu343726/isaview/pkg/isa/nav"
)

// Key bindings, shown in the status bar.
const helpText = `[gray]/[-] search  [gray]n/N[-] next/prev match  [gray]Enter[-] follow branch/label  [gray]b/f[-] history back/forward  [gray]l[-] line numbers  [gray]q[-] quit`

// Viewer drives the interactive session over one loaded document.
type Viewer struct {
	app    *tview.Application
	tree   *tview.TreeView
	status *tview.TextView
	search *tview.InputField
	layout *tview.Flex

	filter  *model.ColumnFilter
	history *nav.History

	// One tree node per document line, in line number order.
	nodes map[model.RowIndex]*tview.TreeNode

	matches     []model.RowIndex
	matchCursor int
}

// NewViewer builds the viewer over a filtered document.
func NewViewer(filter *model.ColumnFilter) *Viewer {
	v := &Viewer{
		app:     tview.NewApplication(),
		tree:    tview.NewTreeView(),
		status:  tview.NewTextView().SetDynamicColors(true),
		search:  tview.NewInputField().SetLabel("search: "),
		filter:  filter,
		history: nav.NewHistory(),
		nodes:   make(map[model.RowIndex]*tview.TreeNode),
	}

	v.buildTree()

	v.tree.SetGraphics(false)
	v.tree.SetSelectedFunc(v.onSelected)
	v.tree.SetChangedFunc(v.onChanged)
	v.tree.SetInputCapture(v.onKey)

	v.search.SetDoneFunc(v.onSearchDone)

	v.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.tree, 0, 1, true).
		AddItem(v.status, 1, 0, false)

	v.status.SetText(helpText)

	return v
}

// Run blocks until the user quits.
func (v *Viewer) Run() error {
	return v.app.SetRoot(v.layout, true).Run()
}

// buildTree creates one node per block header and one per child row.
func (v *Viewer) buildTree() {
	m := v.filter.Model()

	root := tview.NewTreeNode("")

	for block := 0; block < m.BlockCount(); block++ {
		headerIndex := model.RowIndex{Block: block, Row: model.BlockHeaderRow}

		header := tview.NewTreeNode(v.lineText(headerIndex)).
			SetReference(headerIndex).
			SetSelectable(true)
		root.AddChild(header)

		v.nodes[headerIndex] = header

		for row := 0; row < m.RowCount(block); row++ {
			index := model.RowIndex{Block: block, Row: row}

			child := tview.NewTreeNode(v.lineText(index)).
				SetReference(index).
				SetSelectable(true)
			header.AddChild(child)

			v.nodes[index] = child
		}
	}

	v.tree.SetRoot(root).SetTopLevel(1)

	if len(root.GetChildren()) > 0 {
		v.tree.SetCurrentNode(root.GetChildren()[0])
	}
}

// refreshTree rewrites every node's text, e.g. after toggling line numbers.
func (v *Viewer) refreshTree() {
	for index, node := range v.nodes {
		node.SetText(v.lineText(index))
	}
}

// lineText renders one document line with tview color tags.
func (v *Viewer) lineText(index model.RowIndex) string {
	m := v.filter.Model()

	var builder strings.Builder

	for _, column := range v.filter.VisibleColumns() {
		width := m.ColumnWidth(column)
		text := m.CellText(index, column)

		if column == model.ColumnLineNumber {
			// Right-aligned.
			builder.WriteString(strings.Repeat(" ", max(0, width-len(text))))
			builder.WriteString("[gray]")
			builder.WriteString(tview.Escape(text))
			builder.WriteString("[-]")
			builder.WriteString(model.ColumnPadding)

			continue
		}

		if plain, ok := v.tokenCellText(index, column, &builder); ok {
			builder.WriteString(strings.Repeat(" ", max(0, width-plain)))
			continue
		}

		builder.WriteString(cellTag(m.ForegroundHint(index, column)))
		builder.WriteString(tview.Escape(text))
		builder.WriteString("[-]")
		builder.WriteString(strings.Repeat(" ", max(0, width-len(text))))
	}

	return strings.TrimRight(builder.String(), " ")
}

// tokenCellText writes a token-colored op code or operands cell and returns
// its plain width. ok is false when the cell has no tokens.
func (v *Viewer) tokenCellText(index model.RowIndex, column model.Column, builder *strings.Builder) (int, bool) {
	m := v.filter.Model()

	groups := m.Tokens(index, column)
	if groups == nil {
		return 0, false
	}

	enabled := m.LineEnabled(index)
	plain := 0

	if column == model.ColumnOpCode && !index.IsBlockHeader() {
		builder.WriteString(model.OpCodeColumnIndent)
		plain += len(model.OpCodeColumnIndent)
	}

	for i, group := range groups {
		for j, token := range group {
			tag := tokenTag(token, m, index)
			if !enabled {
				tag = ""
			}

			builder.WriteString(tag)
			builder.WriteString(tview.Escape(token.Text))

			if tag != "" {
				builder.WriteString("[-:-:-]")
			}

			plain += len(token.Text)

			if j < len(group)-1 {
				builder.WriteString(model.OperandTokenSpace)
				plain += len(model.OperandTokenSpace)
			}
		}

		if i < len(groups)-1 {
			builder.WriteString(model.OperandDelimiter)
			plain += len(model.OperandDelimiter)
		}
	}

	return plain, true
}

func cellTag(hint model.ColorHint) string {
	switch hint {
	case model.ColorHint_Comment:
		return "[gray]"
	case model.ColorHint_BranchTargetLabel:
		return "[fuchsia]"
	}

	return "[-]"
}

func tokenTag(token model.Token, m *model.Model, index model.RowIndex) string {
	switch token.Type {
	case model.TokenType_Label:
		if index.IsBlockHeader() && m.IsBranchTarget(index.Block) {
			return "[fuchsia]"
		}

		return "[fuchsia::b]"
	case model.TokenType_BranchLabel:
		return "[fuchsia]"
	case model.TokenType_ScalarRegister:
		return "[aqua]"
	case model.TokenType_VectorRegister:
		return "[green]"
	case model.TokenType_Constant:
		return "[yellow]"
	}

	if token.Selectable {
		return "[blue]"
	}

	return ""
}

func (v *Viewer) onKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q':
		v.app.Stop()
		return nil
	case '/':
		v.openSearch()
		return nil
	case 'n':
		v.cycleMatch(1)
		return nil
	case 'N':
		v.cycleMatch(-1)
		return nil
	case 'b':
		v.historyStep(v.history.Back)
		return nil
	case 'f':
		v.historyStep(v.history.Forward)
		return nil
	case 'l':
		v.filter.Model().ToggleLineNumbers()
		v.refreshTree()

		return nil
	}

	return event
}

// onSelected follows the branch or label under the cursor and records the
// jump in the history.
func (v *Viewer) onSelected(node *tview.TreeNode) {
	index, ok := node.GetReference().(model.RowIndex)
	if !ok {
		return
	}

	m := v.filter.Model()

	targets := m.NavigationTargets(index)
	if len(targets) == 0 {
		return
	}

	v.history.Add(v.entry(index))
	v.jumpTo(targets[0])
	v.history.Add(v.entry(targets[0]))
}

// onChanged updates the status bar with supplementary decoder information for
// the line under the cursor.
func (v *Viewer) onChanged(node *tview.TreeNode) {
	index, ok := node.GetReference().(model.RowIndex)
	if !ok {
		v.status.SetText(helpText)
		return
	}

	info, ok := v.filter.Model().Decoded(index)
	if !ok {
		v.status.SetText(helpText)
		return
	}

	v.status.SetText(fmt.Sprintf("[white]%v[-] (%v): %v",
		tview.Escape(info.Name), tview.Escape(info.FunctionalGroup), tview.Escape(info.Description)))
}

func (v *Viewer) entry(index model.RowIndex) nav.Entry {
	m := v.filter.Model()

	line, _ := m.LineNumber(index)

	text := m.CellText(index, model.ColumnOpCode)
	if !index.IsBlockHeader() {
		text = strings.TrimSpace(text + " " + m.CellText(index, model.ColumnOperands))
	}

	return nav.Entry{Index: index, LineNumber: line, Text: text}
}

func (v *Viewer) historyStep(step func() (nav.Entry, bool)) {
	entry, ok := step()
	if !ok {
		return
	}

	v.jumpTo(entry.Index)
}

func (v *Viewer) jumpTo(index model.RowIndex) {
	node, ok := v.nodes[index]
	if !ok {
		return
	}

	v.tree.SetCurrentNode(node)
}

func (v *Viewer) openSearch() {
	v.layout.AddItem(v.search, 1, 0, false)
	v.app.SetFocus(v.search)
}

func (v *Viewer) onSearchDone(key tcell.Key) {
	v.layout.RemoveItem(v.search)
	v.app.SetFocus(v.tree)

	if key != tcell.KeyEnter {
		return
	}

	v.matches = v.filter.Model().Search(v.search.GetText())
	v.matchCursor = -1

	if len(v.matches) == 0 {
		v.status.SetText(fmt.Sprintf("no matches for %q", v.search.GetText()))
		return
	}

	v.cycleMatch(1)
}

// cycleMatch moves to the next or previous search match, wrapping around.
func (v *Viewer) cycleMatch(direction int) {
	if len(v.matches) == 0 {
		return
	}

	v.matchCursor = (v.matchCursor + direction + len(v.matches)) % len(v.matches)
	v.jumpTo(v.matches[v.matchCursor])

	v.status.SetText(fmt.Sprintf("match %v/%v for %q",
		v.matchCursor+1, len(v.matches), v.search.GetText()))
}
