// Package report renders human readable listings of the reference data.
package report

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/JonMunkholm/refdata/internal/model"
)

// Title is the heading of the flow listing.
const Title = "openLCA reference flows"

const elementaryPrefix = "Elementary flows/"

// FlowRow is one line of the flow listing.
type FlowRow struct {
	Name     string
	Category string
	CAS      string
	Formula  string
	Property string
	Even     bool
}

// FlowRows lists the flows of d sorted by name. Categories lose their
// "Elementary flows/" prefix and Property is the name of the reference flow
// property. Rows alternate starting with an even row.
func FlowRows(d *model.RefData) []FlowRow {
	flows := d.Flows.Values()
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Name < flows[j].Name
	})

	rows := make([]FlowRow, len(flows))
	for i, f := range flows {
		rows[i] = FlowRow{
			Name:     f.Name,
			Category: strings.TrimPrefix(f.Category, elementaryPrefix),
			CAS:      f.CAS,
			Formula:  f.Formula,
			Even:     i%2 == 0,
		}
		if ref := f.RefFactor(); ref != nil {
			rows[i].Property = ref.FlowProperty.Name
		}
	}
	return rows
}

// WriteFlows renders the flow listing of d as a standalone HTML page.
func WriteFlows(ctx context.Context, w io.Writer, d *model.RefData) error {
	return FlowsPage(Title, FlowRows(d)).Render(ctx, w)
}
