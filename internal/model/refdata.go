// Package model builds the reference data entity graph from the source
// tables.
//
// Tables are read in dependency order: units, unit groups, flow properties,
// currencies, flows, flow property factors, locations, impact categories,
// impact factors, impact methods. Rows that reference unknown entities are
// logged and skipped; a non-numeric value in a mandatory numeric column
// aborts the read.
package model

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/refdata/internal/core"
)

// Subset selects how much of the reference data is read.
type Subset int

const (
	// SubsetUnits reads units, unit groups, flow properties and currencies.
	SubsetUnits Subset = iota + 1
	// SubsetFlows additionally reads flows and locations.
	SubsetFlows
	// SubsetAll additionally reads impact categories and methods.
	SubsetAll
)

// String returns the subset name as used on the command line.
func (s Subset) String() string {
	switch s {
	case SubsetUnits:
		return "units"
	case SubsetFlows:
		return "flows"
	case SubsetAll:
		return "all"
	default:
		return fmt.Sprintf("Subset(%d)", int(s))
	}
}

// ParseSubset parses "units", "flows" or "all".
func ParseSubset(s string) (Subset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "units":
		return SubsetUnits, nil
	case "flows":
		return SubsetFlows, nil
	case "all", "":
		return SubsetAll, nil
	default:
		return 0, fmt.Errorf("unknown subset %q (want units, flows or all)", s)
	}
}

// RefData is the resolved entity graph.
type RefData struct {
	Units            *Index[*Unit]
	UnitGroups       *Index[*UnitGroup]
	FlowProperties   *Index[*FlowProperty]
	Currencies       *Index[*Currency]
	Flows            *Index[*Flow]
	Locations        *Index[*Location]
	ImpactCategories *Index[*ImpactCategory]
	ImpactMethods    *Index[*ImpactMethod]

	// RefCurrency is nil when no currency is marked as reference.
	RefCurrency *Currency
}

// NewRefData returns an empty graph.
func NewRefData() *RefData {
	return &RefData{
		Units:            NewIndex[*Unit](TypeUnit),
		UnitGroups:       NewIndex[*UnitGroup](TypeUnitGroup),
		FlowProperties:   NewIndex[*FlowProperty](TypeFlowProperty),
		Currencies:       NewIndex[*Currency](TypeCurrency),
		Flows:            NewIndex[*Flow](TypeFlow),
		Locations:        NewIndex[*Location](TypeLocation),
		ImpactCategories: NewIndex[*ImpactCategory](TypeImpactCategory),
		ImpactMethods:    NewIndex[*ImpactMethod](TypeImpactMethod),
	}
}

// Counts returns the number of distinct entities per kind.
func (d *RefData) Counts() map[ModelType]int {
	return map[ModelType]int{
		TypeUnit:           d.Units.Len(),
		TypeUnitGroup:      d.UnitGroups.Len(),
		TypeFlowProperty:   d.FlowProperties.Len(),
		TypeCurrency:       d.Currencies.Len(),
		TypeFlow:           d.Flows.Len(),
		TypeLocation:       d.Locations.Len(),
		TypeImpactCategory: d.ImpactCategories.Len(),
		TypeImpactMethod:   d.ImpactMethods.Len(),
	}
}

// Lookup finds an entity of the given kind by alias.
func (d *RefData) Lookup(kind ModelType, alias string) (Entity, bool) {
	switch kind {
	case TypeUnit:
		return lookup(d.Units, alias)
	case TypeUnitGroup:
		return lookup(d.UnitGroups, alias)
	case TypeFlowProperty:
		return lookup(d.FlowProperties, alias)
	case TypeCurrency:
		return lookup(d.Currencies, alias)
	case TypeFlow:
		return lookup(d.Flows, alias)
	case TypeLocation:
		return lookup(d.Locations, alias)
	case TypeImpactCategory:
		return lookup(d.ImpactCategories, alias)
	case TypeImpactMethod:
		return lookup(d.ImpactMethods, alias)
	}
	return nil, false
}

func lookup[T interface {
	comparable
	Entity
}](x *Index[T], alias string) (Entity, bool) {
	e, ok := x.Get(alias)
	if !ok {
		return nil, false
	}
	return e, true
}

// StripImpactFactors clears the factor lists of all impact categories. It is
// called after the characterization matrix was assembled, right before the
// categories are serialized.
func (d *RefData) StripImpactFactors() {
	for _, c := range d.ImpactCategories.Values() {
		c.ImpactFactors = nil
	}
}

// Read builds the entity graph from src. Reference errors and malformed rows
// are recorded in src.Report. A parse error aborts the read.
func Read(src *core.Source, subset Subset) (*RefData, error) {
	r := &reader{
		src:    src,
		report: src.Report,
		data:   NewRefData(),
	}

	steps := []struct {
		subset Subset
		name   string
		fn     func() error
	}{
		{SubsetUnits, "units", r.readUnits},
		{SubsetUnits, "unit groups", r.readUnitGroups},
		{SubsetUnits, "flow properties", r.readFlowProperties},
		{SubsetUnits, "currencies", r.readCurrencies},
		{SubsetFlows, "flows", r.readFlows},
		{SubsetFlows, "flow property factors", r.readFlowPropertyFactors},
		{SubsetFlows, "locations", r.readLocations},
		{SubsetFlows, "flow locations", r.resolveFlowLocations},
		{SubsetAll, "impact categories", r.readImpactCategories},
		{SubsetAll, "impact factors", r.readImpactFactors},
		{SubsetAll, "impact methods", r.readImpactMethods},
		{SubsetAll, "method categories", r.readMethodCategories},
		{SubsetAll, "nw sets", r.readNwSets},
	}

	for _, step := range steps {
		if step.subset > subset {
			break
		}
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("read %s: %w", step.name, err)
		}
	}

	r.report.Logger().Info("reference data read",
		"subset", subset.String(),
		"units", r.data.Units.Len(),
		"unit_groups", r.data.UnitGroups.Len(),
		"flow_properties", r.data.FlowProperties.Len(),
		"currencies", r.data.Currencies.Len(),
		"flows", r.data.Flows.Len(),
		"locations", r.data.Locations.Len(),
		"impact_categories", r.data.ImpactCategories.Len(),
		"impact_methods", r.data.ImpactMethods.Len(),
		"skipped", r.report.SkippedTotal(),
	)
	return r.data, nil
}

// reader carries the state shared between the table passes.
type reader struct {
	src    *core.Source
	report *core.Report
	data   *RefData

	// units bucketed by the group identifier of the units table
	unitBuckets map[string][]*Unit

	// declared default flow property per unit group alias
	groupDefaults map[string]string

	// flow locations are resolved after the locations table was read
	pendingLocations []pendingLocation
}

type pendingLocation struct {
	flow  *Flow
	alias string
	row   core.Row
}

// fillHead sets the id, name, description and category columns shared by
// most tables and returns the aliases of the entity.
func fillHead(h *Head, kind ModelType, row core.Row) []string {
	h.Type = kind
	h.ID = row.Text(0)
	h.Name = row.Text(1)
	h.Description = row.Opt(2)
	h.Category = row.Opt(3)
	return aliases(h.ID, h.Name)
}

// aliases returns the distinct non-blank identifiers.
func aliases(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == id {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, id)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// register puts e into idx under every alias. Replacing a different entity
// is recorded as a warning.
func register[T comparable](r *reader, idx *Index[T], row core.Row, e T, names []string) {
	for _, alias := range names {
		if _, replaced := idx.Put(alias, e); replaced {
			r.report.Warn(row.Table, "line %d: %s alias %q now refers to a different entity",
				row.Line, idx.Kind(), alias)
		}
	}
}
