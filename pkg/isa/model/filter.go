package model

import "fmt"

// ColumnFilter projects the model onto a subset of visible columns without
// mutating it. Views that support per-column visibility toggles render
// through a filter; the underlying model always answers for every column.
type ColumnFilter struct {
	model   *Model
	visible [ColumnCount]bool
}

// NewColumnFilter creates a filter over the model. visibility must supply a
// flag for every column; the line number column's effective visibility is
// additionally gated by the model's own line number toggle.
func NewColumnFilter(model *Model, visibility []bool) *ColumnFilter {
	if len(visibility) < int(ColumnCount) {
		panic(fmt.Sprintf("isa column filter: %v visibility flags supplied, %v columns exist", len(visibility), int(ColumnCount)))
	}

	filter := &ColumnFilter{model: model}

	for column := Column(0); column < ColumnCount; column++ {
		filter.visible[column] = visibility[column]
	}

	return filter
}

// Model returns the underlying model.
func (f *ColumnFilter) Model() *Model {
	return f.model
}

// SetColumnVisibility shows or hides one column. Out-of-range columns are
// ignored.
func (f *ColumnFilter) SetColumnVisibility(column Column, visible bool) {
	if column < 0 || column >= ColumnCount {
		return
	}

	f.visible[column] = visible
}

// ColumnVisible reports whether a column is currently shown.
func (f *ColumnFilter) ColumnVisible(column Column) bool {
	if column < 0 || column >= ColumnCount {
		return false
	}

	if column == ColumnLineNumber && !f.model.LineNumbersVisible() {
		return false
	}

	return f.visible[column]
}

// VisibleColumns returns the shown columns in model order.
func (f *ColumnFilter) VisibleColumns() []Column {
	columns := make([]Column, 0, ColumnCount)

	for column := Column(0); column < ColumnCount; column++ {
		if f.ColumnVisible(column) {
			columns = append(columns, column)
		}
	}

	return columns
}

// ColumnCount returns the number of shown columns.
func (f *ColumnFilter) ColumnCount() int {
	return len(f.VisibleColumns())
}

// ToSource maps a filtered column position to the model column it shows. ok
// is false when the position is out of range.
func (f *ColumnFilter) ToSource(filteredColumn int) (Column, bool) {
	columns := f.VisibleColumns()

	if filteredColumn < 0 || filteredColumn >= len(columns) {
		return ColumnCount, false
	}

	return columns[filteredColumn], true
}

// FromSource maps a model column to its filtered position. ok is false when
// the column is hidden.
func (f *ColumnFilter) FromSource(column Column) (int, bool) {
	for i, visible := range f.VisibleColumns() {
		if visible == column {
			return i, true
		}
	}

	return -1, false
}

// CellText returns the display text of one cell through the filter.
func (f *ColumnFilter) CellText(index RowIndex, filteredColumn int) string {
	column, ok := f.ToSource(filteredColumn)
	if !ok {
		return ""
	}

	return f.model.CellText(index, column)
}
