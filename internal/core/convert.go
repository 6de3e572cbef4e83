package core

// convert.go provides the conversion helpers for reference data cells.
//
// Reference data is machine-maintained, so conversions are strict:
//   - numbers are plain decimal or scientific notation, nothing else
//   - identifiers are taken verbatim (no trimming, no case folding)
//   - list cells are ';' separated

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain numeric literal.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber converts a cell to a float64.
// Surrounding whitespace is ignored. Returns false if the cell is blank or
// not a numeric literal; hex floats, "inf" and "nan" are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SplitList splits a ';' separated list cell, trimming each item and
// dropping empty ones. Returns nil for a blank cell.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// CleanHeader normalizes a header cell for comparison:
// trims whitespace and a leading BOM, lowercases.
func CleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

// FormatNumber renders a float the way the index tables and reports print it:
// shortest representation that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
