package core

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

const (
	testUnitsKey   = "test_units"
	testFactorsKey = "test_factors"
)

var registerOnce sync.Once

// registerTestTables registers a plain and a partitioned table used by the
// tests in this package.
func registerTestTables() {
	registerOnce.Do(func() {
		Register(TableDefinition{
			Info: TableInfo{Key: testUnitsKey, Group: "Test", File: "units.csv", Order: 1},
			FieldSpecs: []FieldSpec{
				{Name: "ID", Required: true},
				{Name: "Name"},
				{Name: "Conversion factor", Type: FieldNumeric},
				{Name: "Location", Optional: true},
			},
			SortColumns: []int{1, 0},
		})
		Register(TableDefinition{
			Info: TableInfo{Key: testFactorsKey, Group: "Test", File: "factors", Partitioned: true, Order: 2},
			FieldSpecs: []FieldSpec{
				{Name: "Impact category", Required: true},
				{Name: "Flow", Required: true},
				{Name: "Value"},
			},
			SortColumns: []int{0, 1},
		})
	})
}

// writeFile writes content below dir, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// newTestReport returns a report that logs into a buffer.
func newTestReport() (*Report, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewReport(logger), &buf
}

// collect reads every row of the table key.
func collect(t *testing.T, src *Source, key string) []Row {
	t.Helper()
	var rows []Row
	if err := src.Each(key, func(r Row) error {
		rows = append(rows, r)
		return nil
	}); err != nil {
		t.Fatalf("Each(%s): %v", key, err)
	}
	return rows
}
