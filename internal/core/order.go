package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// SortRecords sorts data records in place by the given column positions,
// most significant first. Values are compared as strings; a missing cell
// compares as "". The sort is stable.
func SortRecords(records [][]string, columns []int) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		for _, c := range columns {
			va, vb := cell(a, c), cell(b, c)
			if va != vb {
				return va < vb
			}
		}
		return false
	})
}

func cell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// SortCSV reads a CSV document from r, sorts its data rows by columns and
// writes it to w. The header row stays first.
func SortCSV(r io.Reader, w io.Writer, columns []int) error {
	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) > 1 {
		SortRecords(records[1:], columns)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// SortFile sorts the CSV file at path in place.
func SortFile(path string, columns []int) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sort-*.tmp")
	if err != nil {
		in.Close()
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	err = SortCSV(in, tmp, columns)
	in.Close()
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("sort %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// SortTables sorts every registered table below the source directory that
// has sort columns, partition by partition. It returns the files it sorted.
func (s *Source) SortTables() ([]string, error) {
	var sorted []string
	for _, def := range All() {
		if len(def.SortColumns) == 0 {
			continue
		}
		files, err := s.Files(def)
		if err != nil {
			return sorted, err
		}
		for _, f := range files {
			if err := SortFile(f, def.SortColumns); err != nil {
				return sorted, err
			}
			s.Report.Logger().Debug("sorted table", "table", def.Info.Key, "file", f)
			sorted = append(sorted, f)
		}
	}
	return sorted, nil
}
