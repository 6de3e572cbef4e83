package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ImpactRowHeader is the header of index_C.csv.
var ImpactRowHeader = []string{"index", "indicator ID", "indicator name", "indicator unit"}

// FlowRowHeader is the header of index_B.csv.
var FlowRowHeader = []string{
	"index",
	"is input",
	"flow ID",
	"flow name",
	"flow category",
	"flow unit",
	"flow type",
	"location ID",
	"location name",
	"location code",
}

// ImpactRow describes a matrix row.
type ImpactRow struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
}

// Record returns the row as written to index_C.csv.
func (r ImpactRow) Record() []string {
	return []string{strconv.Itoa(r.Index), r.ID, r.Name, r.Unit}
}

// FlowRow describes a matrix column.
type FlowRow struct {
	Index int `json:"index"`

	// IsInput is a guess from the flow category, see model.IsProbablyInput.
	IsInput bool `json:"isInput"`

	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Type         string `json:"type"`
	LocationID   string `json:"locationId,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	LocationCode string `json:"locationCode,omitempty"`
}

// Record returns the row as written to index_B.csv.
func (r FlowRow) Record() []string {
	return []string{
		strconv.Itoa(r.Index),
		strconv.FormatBool(r.IsInput),
		r.ID,
		r.Name,
		r.Category,
		r.Unit,
		r.Type,
		r.LocationID,
		r.LocationName,
		r.LocationCode,
	}
}

// WriteImpactIndex writes the impact index table.
func WriteImpactIndex(w io.Writer, rows []ImpactRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, ImpactRowHeader)
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return writeCSV(w, records)
}

// WriteFlowIndex writes the flow index table.
func WriteFlowIndex(w io.Writer, rows []FlowRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, FlowRowHeader)
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return writeCSV(w, records)
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// ReadFlowIndex parses an index_B.csv table.
func ReadFlowIndex(r io.Reader) ([]FlowRow, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	rows := make([]FlowRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) != len(FlowRowHeader) {
			return nil, fmt.Errorf("flow index line %d: %d columns, expected %d", n+2, len(rec), len(FlowRowHeader))
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("flow index line %d: invalid number %q", n+2, rec[0])
		}
		input, err := strconv.ParseBool(rec[1])
		if err != nil {
			return nil, fmt.Errorf("flow index line %d: invalid boolean %q", n+2, rec[1])
		}
		rows = append(rows, FlowRow{
			Index:        idx,
			IsInput:      input,
			ID:           rec[2],
			Name:         rec[3],
			Category:     rec[4],
			Unit:         rec[5],
			Type:         rec[6],
			LocationID:   rec[7],
			LocationName: rec[8],
			LocationCode: rec[9],
		})
	}
	return rows, nil
}
