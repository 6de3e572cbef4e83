// Package matrix assembles the characterization matrix: a sparse impact
// category by flow matrix in compressed sparse column layout, together with
// the index tables that describe its rows and columns.
package matrix

import (
	"fmt"
	"sort"
)

// CSC is a sparse matrix in compressed sparse column layout, the layout
// scipy.sparse.csc_array uses. Row indices are sorted within each column and
// each (row, column) pair is stored at most once.
type CSC struct {
	Rows    int
	Cols    int
	Data    []float64
	Indices []int32 // row index of each stored value
	Indptr  []int32 // column j spans Data[Indptr[j]:Indptr[j+1]]
}

// Triplet is one coordinate entry.
type Triplet struct {
	Row   int
	Col   int
	Value float64
}

// FromCOO builds a CSC matrix from coordinate entries. Entries with the same
// coordinates are summed.
func FromCOO(rows, cols int, entries []Triplet) (*CSC, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid shape %dx%d", rows, cols)
	}
	sorted := make([]Triplet, len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, fmt.Errorf("entry (%d, %d) out of bounds for shape %dx%d", e.Row, e.Col, rows, cols)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Col != sorted[j].Col {
			return sorted[i].Col < sorted[j].Col
		}
		return sorted[i].Row < sorted[j].Row
	})

	m := &CSC{
		Rows:   rows,
		Cols:   cols,
		Indptr: make([]int32, cols+1),
	}
	for i := 0; i < len(sorted); {
		e := sorted[i]
		sum := e.Value
		j := i + 1
		for j < len(sorted) && sorted[j].Row == e.Row && sorted[j].Col == e.Col {
			sum += sorted[j].Value
			j++
		}
		m.Data = append(m.Data, sum)
		m.Indices = append(m.Indices, int32(e.Row))
		m.Indptr[e.Col+1]++
		i = j
	}
	for c := 0; c < cols; c++ {
		m.Indptr[c+1] += m.Indptr[c]
	}
	return m, nil
}

// NNZ returns the number of stored values.
func (m *CSC) NNZ() int {
	return len(m.Data)
}

// At returns the value at (row, col); absent entries are zero.
func (m *CSC) At(row, col int) float64 {
	if col < 0 || col >= m.Cols {
		return 0
	}
	start, end := int(m.Indptr[col]), int(m.Indptr[col+1])
	k := sort.Search(end-start, func(i int) bool {
		return int(m.Indices[start+i]) >= row
	})
	if k < end-start && int(m.Indices[start+k]) == row {
		return m.Data[start+k]
	}
	return 0
}

// Triplets returns the stored values in column-major order.
func (m *CSC) Triplets() []Triplet {
	out := make([]Triplet, 0, len(m.Data))
	for c := 0; c < m.Cols; c++ {
		for k := m.Indptr[c]; k < m.Indptr[c+1]; k++ {
			out = append(out, Triplet{Row: int(m.Indices[k]), Col: c, Value: m.Data[k]})
		}
	}
	return out
}
