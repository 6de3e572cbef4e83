package matrix

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File names of an export inside a library directory.
const (
	MatrixFile      = "C.npz"
	ImpactIndexFile = "index_C.csv"
	FlowIndexFile   = "index_B.csv"
)

// Shape returns the number of rows and columns.
func (e *Export) Shape() (rows, cols int) {
	return e.Matrix.Rows, e.Matrix.Cols
}

// WriteDir writes the matrix and both index tables into dir.
func (e *Export) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{MatrixFile, func(w io.Writer) error { return WriteNPZ(w, e.Matrix) }},
		{FlowIndexFile, func(w io.Writer) error { return WriteFlowIndex(w, e.Flows) }},
		{ImpactIndexFile, func(w io.Writer) error { return WriteImpactIndex(w, e.Impacts) }},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
