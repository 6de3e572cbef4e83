package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source reads the registered tables from a reference data directory.
type Source struct {
	Dir    string
	Report *Report

	// Paths overrides the location of individual tables by table key.
	Paths map[string]string
}

// NewSource creates a source for dir that records problems in report.
func NewSource(dir string, report *Report) *Source {
	if report == nil {
		report = NewReport(nil)
	}
	return &Source{Dir: dir, Report: report}
}

// Files returns the CSV files backing the table, in read order.
// A missing table yields no files. Partitions are read in lexical order of
// their file names, and non-CSV entries are ignored.
func (s *Source) Files(def TableDefinition) ([]string, error) {
	path := def.Path(s.Dir)
	if p, ok := s.Paths[def.Info.Key]; ok && p != "" {
		path = p
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !def.Info.Partitioned {
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrMalformedRow, path)
		}
		return []string{path}, nil
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: partitioned table %s is not a directory", ErrMalformedRow, path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Each calls fn for every valid data row of the table key. The header row is
// skipped. Malformed rows are reported and skipped. An error returned by fn
// stops the read and is returned unchanged.
func (s *Source) Each(key string, fn func(Row) error) error {
	def := MustGet(key)
	files, err := s.Files(def)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.eachInFile(def, file, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) eachInFile(def TableDefinition, file string, fn func(Row) error) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	return s.eachRecord(def, file, f, fn)
}

// recordReader is the part of *csv.Reader the row loop uses.
type recordReader interface {
	Read() ([]string, error)
	FieldPos(field int) (line, column int)
}

func (s *Source) eachRecord(def TableDefinition, file string, r io.Reader, fn func(Row) error) error {
	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return s.readRecords(def, file, cr, fn)
}

// readRecords treats the first record as the header, even when it fails to
// parse, and hands every valid data row to fn.
func (s *Source) readRecords(def TableDefinition, file string, cr recordReader, fn func(Row) error) error {
	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			header = false
			s.Report.Malformed(Row{Table: def.Info.Key, File: file, Line: perr.StartLine}, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		if header {
			header = false
			for _, m := range HeaderMismatches(def, record) {
				s.Report.Logger().Debug("header differs from table definition",
					"table", def.Info.Key, "file", file, "detail", m)
			}
			continue
		}

		line, _ := cr.FieldPos(0)
		row := Row{Table: def.Info.Key, File: file, Line: line, Cells: record}
		if err := ValidateRow(def, record); err != nil {
			s.Report.Malformed(row, err)
			continue
		}
		s.Report.RowRead(def.Info.Key)
		if err := fn(row); err != nil {
			return err
		}
	}
}
