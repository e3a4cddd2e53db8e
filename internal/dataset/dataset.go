// =============================================================================
// Payment Auditor - Dataset
// =============================================================================
//
// A Dataset is an ordered table: ordered column labels and ordered rows.
// Rows carry their identity (Index) and their position in the source sheet
// (Line) through every stage of the pipeline, so a row flagged by a rule can
// always be traced back to the spreadsheet it came from.
//
// Datasets are treated as immutable snapshots. Stages that change cells or
// labels build a new Dataset; nothing in this module edits a caller's
// dataset in place.
//
// =============================================================================

package dataset

import (
	"fmt"
	"strings"
)

// Row is one data row.
type Row struct {
	// Index is the 0-based position of the row among the data rows.
	Index int

	// Line is the 1-based line (csv) or row number (xlsx) in the source.
	// Zero when the row did not come from a file.
	Line int

	// Cells maps column label to value. An absent label reads as Missing.
	Cells map[string]Value
}

// Get returns the value under a column label, Missing if absent.
func (r Row) Get(column string) Value {
	if r.Cells == nil {
		return Missing()
	}
	return r.Cells[column]
}

// clone returns a copy of the row with its own cell map.
func (r Row) clone() Row {
	cells := make(map[string]Value, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}
	return Row{Index: r.Index, Line: r.Line, Cells: cells}
}

// Dataset is an ordered table of rows.
type Dataset struct {
	// Source describes where the data came from (file path, sheet).
	Source string

	columns []string
	rows    []Row
}

// New creates an empty dataset with the given column labels.
// Labels are copied; blank and repeated labels are made unique.
func New(columns []string) *Dataset {
	return &Dataset{columns: UniqueLabels(columns)}
}

// Columns returns a copy of the column labels in order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Rows returns a copy of the row slice. Cell maps are shared, callers must
// not modify them.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	copy(out, d.rows)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns the i-th row.
func (d *Dataset) Row(i int) Row { return d.rows[i] }

// HasColumn reports whether a column label exists.
func (d *Dataset) HasColumn(label string) bool {
	for _, c := range d.columns {
		if c == label {
			return true
		}
	}
	return false
}

// Append adds a row built from cells. Index is assigned from the current
// length; line is the source line number (0 if unknown). Cells for labels
// that are not columns of the dataset are rejected.
func (d *Dataset) Append(line int, cells map[string]Value) error {
	row := Row{Index: len(d.rows), Line: line, Cells: make(map[string]Value, len(cells))}
	for k, v := range cells {
		if !d.HasColumn(k) {
			return fmt.Errorf("unknown column %q", k)
		}
		row.Cells[k] = v
	}
	d.rows = append(d.rows, row)
	return nil
}

// AppendValues adds a row from positional values, one per column. Missing
// trailing values read as Missing.
func (d *Dataset) AppendValues(line int, values ...Value) error {
	if len(values) > len(d.columns) {
		return fmt.Errorf("row has %d values but dataset has %d columns", len(values), len(d.columns))
	}
	cells := make(map[string]Value, len(values))
	for i, v := range values {
		cells[d.columns[i]] = v
	}
	return d.Append(line, cells)
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Source: d.Source, columns: d.Columns(), rows: make([]Row, len(d.rows))}
	for i, r := range d.rows {
		out.rows[i] = r.clone()
	}
	return out
}

// Derive builds a new dataset with the given columns, mapping every row of
// d through fn. Row identity (Index, Line) is preserved. fn receives a copy
// of the row's cells which it may modify and return.
func (d *Dataset) Derive(columns []string, fn func(cells map[string]Value) map[string]Value) *Dataset {
	out := &Dataset{Source: d.Source, columns: append([]string(nil), columns...), rows: make([]Row, len(d.rows))}
	for i, r := range d.rows {
		c := r.clone()
		out.rows[i] = Row{Index: r.Index, Line: r.Line, Cells: fn(c.Cells)}
	}
	return out
}

// =============================================================================
// HEADER CLEANING
// =============================================================================

// UniqueLabels trims labels, names blank ones "Column_N" (1-based position)
// and suffixes repeats with ".1", ".2", ... in order of appearance.
func UniqueLabels(labels []string) []string {
	out := make([]string, len(labels))
	seen := make(map[string]int, len(labels))
	taken := make(map[string]bool, len(labels))

	for i, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			label = fmt.Sprintf("Column_%d", i+1)
		}
		candidate := label
		for taken[candidate] {
			seen[label]++
			candidate = fmt.Sprintf("%s.%d", label, seen[label])
		}
		taken[candidate] = true
		out[i] = candidate
	}

	return out
}
