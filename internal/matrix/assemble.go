package matrix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/core/tables"
	"github.com/JonMunkholm/refdata/internal/model"
)

// IndexOrder selects how rows and columns get their dense indices.
type IndexOrder string

const (
	// FirstSeen numbers impact categories and flows in the order the
	// factors are scanned.
	FirstSeen IndexOrder = "first-seen"
	// Sorted numbers them by identifier.
	Sorted IndexOrder = "sorted"
)

// ParseIndexOrder parses "first-seen" or "sorted". Blank means first-seen.
func ParseIndexOrder(s string) (IndexOrder, error) {
	switch IndexOrder(strings.ToLower(strings.TrimSpace(s))) {
	case FirstSeen, "":
		return FirstSeen, nil
	case Sorted:
		return Sorted, nil
	}
	return "", fmt.Errorf("unknown matrix index order %q (want first-seen or sorted)", s)
}

// Options configure Assemble.
type Options struct {
	Order  IndexOrder
	Report *core.Report
}

// Export is an assembled characterization matrix with its index tables.
type Export struct {
	Matrix  *CSC
	Impacts []ImpactRow
	Flows   []FlowRow
}

// Assemble builds the characterization matrix from the impact factors of
// data. Every impact category with factors gets a row. A factor contributes
// an entry when it has a numeric, non-zero value and a flow; formulas and
// zero values are left out.
//
// When the matrix would have no rows or no columns a warning is recorded and
// Assemble returns nil without an error. An index entry that cannot be
// traced back to the graph is an ErrConsistency error.
func Assemble(data *model.RefData, opts Options) (*Export, error) {
	report := opts.Report
	if report == nil {
		report = core.NewReport(nil)
	}
	if opts.Order == "" {
		opts.Order = FirstSeen
	}

	impactIdx := newDenseIndex()
	flowIdx := newDenseIndex()
	var entries []Triplet

	for _, impact := range data.ImpactCategories.Values() {
		if impact.ID == "" || len(impact.ImpactFactors) == 0 {
			continue
		}
		row := impactIdx.add(impact.ID)
		for _, f := range impact.ImpactFactors {
			if f.Flow.ID == "" || f.Value == nil || *f.Value == 0 {
				continue
			}
			col := flowIdx.add(f.Flow.ID)
			entries = append(entries, Triplet{Row: row, Col: col, Value: *f.Value})
		}
	}

	k, m := impactIdx.size(), flowIdx.size()
	if k == 0 || m == 0 {
		report.Warn(tables.ImpactFactors, "no LCIA factors found")
		return nil, nil
	}

	if opts.Order == Sorted {
		rowMap := impactIdx.sortIDs()
		colMap := flowIdx.sortIDs()
		for i := range entries {
			entries[i].Row = rowMap[entries[i].Row]
			entries[i].Col = colMap[entries[i].Col]
		}
	}

	csc, err := FromCOO(k, m, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConsistency, err)
	}

	impacts, err := impactRows(data, impactIdx.ids)
	if err != nil {
		return nil, err
	}
	flows, err := flowRows(data, flowIdx.ids)
	if err != nil {
		return nil, err
	}

	report.Logger().Info("characterization matrix assembled",
		"rows", k, "cols", m, "nonzeros", csc.NNZ(), "order", string(opts.Order))
	return &Export{Matrix: csc, Impacts: impacts, Flows: flows}, nil
}

// denseIndex assigns consecutive indices to identifiers.
type denseIndex struct {
	pos map[string]int
	ids []string
}

func newDenseIndex() *denseIndex {
	return &denseIndex{pos: make(map[string]int)}
}

func (x *denseIndex) add(id string) int {
	if i, ok := x.pos[id]; ok {
		return i
	}
	i := len(x.ids)
	x.pos[id] = i
	x.ids = append(x.ids, id)
	return i
}

func (x *denseIndex) size() int {
	return len(x.ids)
}

// sortIDs renumbers the identifiers in lexical order and returns the mapping
// from old to new indices.
func (x *denseIndex) sortIDs() []int {
	old := x.ids
	x.ids = append([]string(nil), old...)
	sort.Strings(x.ids)
	remap := make([]int, len(old))
	for i, id := range x.ids {
		x.pos[id] = i
	}
	for i, id := range old {
		remap[i] = x.pos[id]
	}
	return remap
}

func impactRows(data *model.RefData, ids []string) ([]ImpactRow, error) {
	rows := make([]ImpactRow, 0, len(ids))
	for i, id := range ids {
		impact, ok := data.ImpactCategories.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: impact category %q of matrix row %d not found", core.ErrConsistency, id, i)
		}
		rows = append(rows, ImpactRow{
			Index: i,
			ID:    id,
			Name:  impact.Name,
			Unit:  impact.RefUnit,
		})
	}
	return rows, nil
}

func flowRows(data *model.RefData, ids []string) ([]FlowRow, error) {
	rows := make([]FlowRow, 0, len(ids))
	for i, id := range ids {
		flow, ok := data.Flows.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: flow %q of matrix column %d not found", core.ErrConsistency, id, i)
		}
		row := FlowRow{
			Index:    i,
			IsInput:  model.IsProbablyInput(flow),
			ID:       id,
			Name:     flow.Name,
			Category: flow.Category,
			Unit:     data.RefUnitName(flow),
			Type:     typeOf(flow),
		}
		if flow.Location != nil {
			row.LocationID = flow.Location.ID
			if loc, ok := data.Locations.Get(flow.Location.ID); ok {
				row.LocationName = loc.Name
				row.LocationCode = loc.Code
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func typeOf(f *model.Flow) string {
	switch f.FlowType {
	case model.ProductFlow:
		return "product"
	case model.WasteFlow:
		return "waste"
	default:
		return "elementary"
	}
}
