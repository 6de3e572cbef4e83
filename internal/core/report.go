package core

import (
	"fmt"
	"log/slog"
	"sort"
)

// Skip reasons counted by a Report.
const (
	ReasonReference = "reference"
	ReasonMalformed = "malformed"
)

// Warning is a run-level problem that leaves a dependent artifact unset.
type Warning struct {
	Table   string
	Message string
}

// Report collects what happened while reading the source tables: rows read,
// rows or links skipped and configuration warnings. Every entry is logged
// when it is recorded.
//
// A Report is not safe for concurrent use; ingestion is single threaded.
type Report struct {
	logger   *slog.Logger
	read     map[string]int
	skipped  map[string]map[string]int
	warnings []Warning
}

// NewReport creates an empty report that logs through logger.
// A nil logger falls back to slog.Default().
func NewReport(logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}
	return &Report{
		logger:  logger,
		read:    make(map[string]int),
		skipped: make(map[string]map[string]int),
	}
}

// Logger returns the logger the report writes to.
func (r *Report) Logger() *slog.Logger {
	return r.logger
}

// RowRead counts a data row read from table.
func (r *Report) RowRead(table string) {
	r.read[table]++
}

// Reference records a reference error for row: the row, or the link it
// declares, is skipped and ingestion continues.
func (r *Report) Reference(row Row, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.skip(row.Table, ReasonReference)
	r.logger.Error("invalid reference",
		"table", row.Table,
		"file", row.File,
		"line", row.Line,
		"error", msg,
	)
}

// Malformed records a row that was skipped because it failed validation.
func (r *Report) Malformed(row Row, err error) {
	r.skip(row.Table, ReasonMalformed)
	r.logger.Error("skipping malformed row",
		"table", row.Table,
		"file", row.File,
		"line", row.Line,
		"error", err,
	)
}

// Warn records a configuration warning for table.
func (r *Report) Warn(table string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, Warning{Table: table, Message: msg})
	r.logger.Warn(msg, "table", table)
}

func (r *Report) skip(table, reason string) {
	byReason, ok := r.skipped[table]
	if !ok {
		byReason = make(map[string]int)
		r.skipped[table] = byReason
	}
	byReason[reason]++
}

// Read returns the number of data rows read from table.
func (r *Report) Read(table string) int {
	return r.read[table]
}

// Skipped returns how many rows or links of table were skipped for reason.
func (r *Report) Skipped(table, reason string) int {
	return r.skipped[table][reason]
}

// SkippedTotal returns the number of skips over all tables and reasons.
func (r *Report) SkippedTotal() int {
	total := 0
	for _, byReason := range r.skipped {
		for _, n := range byReason {
			total += n
		}
	}
	return total
}

// Warnings returns the recorded warnings in the order they were raised.
func (r *Report) Warnings() []Warning {
	return append([]Warning(nil), r.warnings...)
}

// Tables returns every table that was read or skipped, sorted.
func (r *Report) Tables() []string {
	seen := make(map[string]bool)
	for t := range r.read {
		seen[t] = true
	}
	for t := range r.skipped {
		seen[t] = true
	}
	tables := make([]string, 0, len(seen))
	for t := range seen {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Reasons returns the skip reasons recorded for table, sorted.
func (r *Report) Reasons(table string) []string {
	reasons := make([]string, 0, len(r.skipped[table]))
	for reason := range r.skipped[table] {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}
