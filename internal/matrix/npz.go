package matrix

// npz.go writes a CSC matrix in the format of scipy.sparse.save_npz: a
// deflated zip archive of .npy arrays named data, indices, indptr, format,
// shape and _is_array.

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

var npyMagic = []byte("\x93NUMPY")

// npyArray is a 1-d or 0-d array ready to be written as .npy.
type npyArray struct {
	descr string
	shape []int
	data  any // value written with binary.Write in little endian order
}

// WriteNPZ writes m to w so that scipy.sparse.load_npz reads it back as a
// csc_array.
func WriteNPZ(w io.Writer, m *CSC) error {
	data := m.Data
	if data == nil {
		data = []float64{}
	}
	indices := m.Indices
	if indices == nil {
		indices = []int32{}
	}

	members := []struct {
		name  string
		array npyArray
	}{
		{"indices", npyArray{descr: "<i4", shape: []int{len(indices)}, data: indices}},
		{"indptr", npyArray{descr: "<i4", shape: []int{len(m.Indptr)}, data: m.Indptr}},
		{"format", npyArray{descr: "|S3", data: []byte("csc")}},
		{"shape", npyArray{descr: "<i8", shape: []int{2}, data: []int64{int64(m.Rows), int64(m.Cols)}}},
		{"data", npyArray{descr: "<f8", shape: []int{len(data)}, data: data}},
		{"_is_array", npyArray{descr: "|b1", data: []byte{1}}},
	}

	zw := zip.NewWriter(w)
	for _, mem := range members {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: mem.name + ".npy", Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("create %s.npy: %w", mem.name, err)
		}
		if err := writeNPY(f, mem.array); err != nil {
			return fmt.Errorf("write %s.npy: %w", mem.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close npz: %w", err)
	}
	return nil
}

// writeNPY writes a version 1.0 .npy file. The header is padded with spaces
// so that the data starts at a multiple of 64 bytes.
func writeNPY(w io.Writer, a npyArray) error {
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", a.descr, shapeLiteral(a.shape))
	// magic (6) + version (2) + header length (2) + header + newline
	total := len(npyMagic) + 4 + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += strings.Repeat(" ", 64-pad)
	}
	header += "\n"

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.Write([]byte{1, 0})
	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	buf.WriteString(header)
	if err := binary.Write(&buf, binary.LittleEndian, a.data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func shapeLiteral(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return fmt.Sprintf("(%d,)", shape[0])
	}
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = fmt.Sprint(n)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
