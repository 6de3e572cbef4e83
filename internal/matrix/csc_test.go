package matrix

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCOO(t *testing.T) {
	m, err := FromCOO(3, 2, []Triplet{
		{Row: 2, Col: 1, Value: 5},
		{Row: 0, Col: 0, Value: 1},
		{Row: 1, Col: 1, Value: 3},
		{Row: 2, Col: 0, Value: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 2, 4}, m.Indptr)
	assert.Equal(t, []int32{0, 2, 1, 2}, m.Indices)
	assert.Equal(t, []float64{1, 2, 3, 5}, m.Data)
	assert.Equal(t, 4, m.NNZ())
	assert.Equal(t, 5.0, m.At(2, 1))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(0, 7))
}

func TestFromCOOSumsDuplicates(t *testing.T) {
	m, err := FromCOO(1, 1, []Triplet{
		{Row: 0, Col: 0, Value: 2},
		{Row: 0, Col: 0, Value: 0.5},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, m.NNZ())
	assert.Equal(t, 2.5, m.At(0, 0))
}

func TestFromCOOEmptyColumns(t *testing.T) {
	m, err := FromCOO(2, 3, []Triplet{{Row: 1, Col: 2, Value: 4}})
	require.NoError(t, err)

	assert.Equal(t, []int32{0, 0, 0, 1}, m.Indptr)
	assert.Equal(t, []Triplet{{Row: 1, Col: 2, Value: 4}}, m.Triplets())
}

func TestFromCOOOutOfBounds(t *testing.T) {
	_, err := FromCOO(1, 1, []Triplet{{Row: 1, Col: 0, Value: 1}})
	assert.Error(t, err)

	_, err = FromCOO(-1, 1, nil)
	assert.Error(t, err)
}

func BenchmarkFromCOO(b *testing.B) {
	const rows, cols = 30, 20000
	entries := make([]Triplet, 0, rows*cols/10)
	for c := 0; c < cols; c++ {
		for r := c % 10; r < rows; r += 10 {
			entries = append(entries, Triplet{Row: r, Col: c, Value: float64(r + c)})
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FromCOO(rows, cols, entries); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWriteNPZ(b *testing.B) {
	entries := make([]Triplet, 0, 10000)
	for c := 0; c < 10000; c++ {
		entries = append(entries, Triplet{Row: c % 25, Col: c, Value: 1.5})
	}
	m, err := FromCOO(25, 10000, entries)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteNPZ(io.Discard, m); err != nil {
			b.Fatal(err)
		}
	}
}
