package web

import (
	"time"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/model"
)

// Snapshot is the immutable result of one read and assembly that the server
// exposes. Export is nil when no matrix could be built.
type Snapshot struct {
	Version string
	BuiltAt time.Time
	Data    *model.RefData
	Export  *matrix.Export
	Report  *core.Report
}

// kinds maps the URL segment of /api/{kind}/{alias} to an entity type.
var kinds = map[string]model.ModelType{
	"units":           model.TypeUnit,
	"unit_groups":     model.TypeUnitGroup,
	"flow_properties": model.TypeFlowProperty,
	"currencies":      model.TypeCurrency,
	"flows":           model.TypeFlow,
	"locations":       model.TypeLocation,
	"lcia_categories": model.TypeImpactCategory,
	"lcia_methods":    model.TypeImpactMethod,
}

// TableStatus is one entry of /api/tables.
type TableStatus struct {
	Key         string         `json:"key"`
	Group       string         `json:"group"`
	Label       string         `json:"label"`
	File        string         `json:"file"`
	Partitioned bool           `json:"partitioned,omitempty"`
	Columns     []string       `json:"columns"`
	RowsRead    int            `json:"rowsRead"`
	Skipped     map[string]int `json:"skipped,omitempty"`
}

// MatrixSummary describes the characterization matrix.
type MatrixSummary struct {
	Impacts  int `json:"impacts"`
	Flows    int `json:"flows"`
	Nonzeros int `json:"nonzeros"`
}

// Summary is the body of /api/summary.
type Summary struct {
	Version  string         `json:"version"`
	BuiltAt  time.Time      `json:"builtAt"`
	Entities map[string]int `json:"entities"`
	Matrix   *MatrixSummary `json:"matrix"`
	Skipped  int            `json:"skipped"`
	Warnings []string       `json:"warnings"`
}

// Tables lists every registered source table with its read statistics, in
// ingestion order.
func (s *Snapshot) Tables() []TableStatus {
	defs := core.All()
	out := make([]TableStatus, 0, len(defs))
	for _, def := range defs {
		st := TableStatus{
			Key:         def.Info.Key,
			Group:       def.Info.Group,
			Label:       def.Info.Label,
			File:        def.Info.File,
			Partitioned: def.Info.Partitioned,
			Columns:     make([]string, len(def.FieldSpecs)),
		}
		for i, f := range def.FieldSpecs {
			st.Columns[i] = f.Name
		}
		if s.Report != nil {
			st.RowsRead = s.Report.Read(def.Info.Key)
			for _, reason := range s.Report.Reasons(def.Info.Key) {
				if st.Skipped == nil {
					st.Skipped = make(map[string]int)
				}
				st.Skipped[reason] = s.Report.Skipped(def.Info.Key, reason)
			}
		}
		out = append(out, st)
	}
	return out
}

// Summary returns the entity counts, matrix size and warnings.
func (s *Snapshot) Summary() Summary {
	sum := Summary{
		Version:  s.Version,
		BuiltAt:  s.BuiltAt,
		Entities: make(map[string]int),
		Warnings: []string{},
	}
	if s.Data != nil {
		for kind, n := range s.Data.Counts() {
			sum.Entities[string(kind)] = n
		}
	}
	if s.Export != nil {
		rows, cols := s.Export.Shape()
		sum.Matrix = &MatrixSummary{Impacts: rows, Flows: cols, Nonzeros: s.Export.Matrix.NNZ()}
	}
	if s.Report != nil {
		sum.Skipped = s.Report.SkippedTotal()
		for _, w := range s.Report.Warnings() {
			sum.Warnings = append(sum.Warnings, w.Table+": "+w.Message)
		}
	}
	return sum
}
