package core

import (
	"path/filepath"
	"strings"
)

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldNumeric
	FieldList
)

// FieldSpec describes a single positional CSV column.
type FieldSpec struct {
	Name     string    // Header name as written by the reference data tables
	Type     FieldType // Expected data type
	Required bool      // An empty value makes the row malformed
	Optional bool      // Trailing column that may be absent from shorter rows
}

// TableInfo contains descriptive information about a source table.
type TableInfo struct {
	Key         string // Unique identifier: "units"
	Group       string // Library the table feeds: "Units", "Flows", "LCIA"
	Label       string // Display name: "Units"
	File        string // File (or directory for partitioned tables) below the data dir
	Partitioned bool   // File is a directory holding one CSV per partition
	Order       int    // Position in the ingestion order
	Columns     []string
}

// TableDefinition contains everything needed to read one source table.
type TableDefinition struct {
	Info       TableInfo
	FieldSpecs []FieldSpec

	// SortColumns lists the column positions used by the table sorter,
	// most significant first.
	SortColumns []int
}

// MinColumns returns the number of cells a row needs to be usable.
// Trailing optional columns do not count.
func (t TableDefinition) MinColumns() int {
	n := len(t.FieldSpecs)
	for n > 0 && t.FieldSpecs[n-1].Optional {
		n--
	}
	return n
}

// Path returns the location of the table below dir.
func (t TableDefinition) Path(dir string) string {
	return filepath.Join(dir, filepath.FromSlash(t.Info.File))
}

// Row is a single data row of a source table.
type Row struct {
	Table string
	File  string
	Line  int // 1-based line number in File
	Cells []string
}

// Text returns the raw cell at position i, or "" if the row is shorter.
func (r Row) Text(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Opt returns the cell at position i with surrounding whitespace removed.
// Blank cells are returned as "".
func (r Row) Opt(i int) string {
	return strings.TrimSpace(r.Text(i))
}

// Float parses the mandatory number at position i.
// A non-numeric value is returned as a *ParseError wrapping ErrParse.
func (r Row) Float(i int) (float64, error) {
	raw := r.Text(i)
	v, ok := ParseNumber(raw)
	if !ok {
		return 0, &ParseError{Table: r.Table, File: r.File, Line: r.Line, Column: i, Value: raw}
	}
	return v, nil
}

// OptFloat parses the optional number at position i.
// Blank or non-numeric values yield nil.
func (r Row) OptFloat(i int) *float64 {
	v, ok := ParseNumber(r.Text(i))
	if !ok {
		return nil
	}
	return &v
}
