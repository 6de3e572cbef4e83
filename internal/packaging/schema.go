// Package packaging writes the entity graph and the characterization matrix
// as openLCA libraries and single-archive data packs.
package packaging

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"

	"github.com/JonMunkholm/refdata/internal/model"
)

// SchemaVersion is written to olca-schema.json in every archive.
const SchemaVersion = 2

var folders = map[model.ModelType]string{
	model.TypeUnitGroup:      "unit_groups",
	model.TypeFlowProperty:   "flow_properties",
	model.TypeCurrency:       "currencies",
	model.TypeFlow:           "flows",
	model.TypeLocation:       "locations",
	model.TypeImpactCategory: "lcia_categories",
	model.TypeImpactMethod:   "lcia_methods",
}

// Folder returns the archive folder for root entities of type t.
func Folder(t model.ModelType) (string, bool) {
	f, ok := folders[t]
	return f, ok
}

// SchemaWriter writes entities into an olca-schema zip archive, one JSON
// file per entity at <folder>/<id>.json. An entity whose path was already
// written is skipped.
type SchemaWriter struct {
	zw      *zip.Writer
	written map[string]bool
}

// NewSchemaWriter starts an archive on w and writes olca-schema.json.
func NewSchemaWriter(w io.Writer) (*SchemaWriter, error) {
	sw := &SchemaWriter{zw: zip.NewWriter(w), written: make(map[string]bool)}
	if err := sw.put("olca-schema.json", map[string]int{"version": SchemaVersion}); err != nil {
		return nil, err
	}
	return sw, nil
}

// Write adds e to the archive. It returns false when e has no id or its
// path is already taken.
func (s *SchemaWriter) Write(e model.Entity) (bool, error) {
	h := e.Header()
	if h.ID == "" {
		return false, nil
	}
	folder, ok := Folder(h.Type)
	if !ok {
		return false, fmt.Errorf("%s %s is not a root entity", h.Type, h.ID)
	}
	path := folder + "/" + h.ID + ".json"
	if s.written[path] {
		return false, nil
	}
	if err := s.put(path, e); err != nil {
		return false, err
	}
	s.written[path] = true
	return true, nil
}

// WriteAll writes every entity and returns how many were added.
func (s *SchemaWriter) WriteAll(entities []model.Entity) (int, error) {
	n := 0
	for _, e := range entities {
		ok, err := s.Write(e)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Close finishes the archive. It does not close the underlying writer.
func (s *SchemaWriter) Close() error {
	return s.zw.Close()
}

func (s *SchemaWriter) put(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	f, err := s.zw.CreateHeader(&zip.FileHeader{Name: path, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
