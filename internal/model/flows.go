package model

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/core/tables"
)

// readFlows creates the flows and seeds each with a reference factor of 1
// for its declared reference property. An unknown reference property leaves
// the flow without factors.
func (r *reader) readFlows() error {
	return r.src.Each(tables.Flows, func(row core.Row) error {
		flow := &Flow{
			FlowType: flowTypeOf(row.Opt(4)),
			CAS:      row.Opt(5),
			Formula:  row.Opt(6),
		}
		fillHead(&flow.Head, TypeFlow, row)
		register(r, r.data.Flows, row, flow, aliases(flow.ID))

		if loc := row.Opt(8); loc != "" {
			r.pendingLocations = append(r.pendingLocations, pendingLocation{flow: flow, alias: loc, row: row})
		}

		propAlias := row.Text(7)
		prop, ok := r.data.FlowProperties.Get(propAlias)
		if !ok {
			r.report.Reference(row, "invalid flow property %q in flow %s", propAlias, flow.ID)
			return nil
		}
		flow.FlowProperties = []FlowPropertyFactor{{
			Type:              TypeFlowPropertyFactor,
			ConversionFactor:  1,
			FlowProperty:      prop.Ref(),
			IsRefFlowProperty: true,
		}}
		return nil
	})
}

func flowTypeOf(s string) FlowType {
	if s == "" {
		return ""
	}
	switch s[0] {
	case 'e', 'E':
		return ElementaryFlow
	case 'p', 'P':
		return ProductFlow
	case 'w', 'W':
		return WasteFlow
	}
	return ""
}

// readFlowPropertyFactors adds the additional flow property factors. A factor
// for a property the flow already has is ignored.
func (r *reader) readFlowPropertyFactors() error {
	return r.src.Each(tables.FlowPropertyFactors, func(row core.Row) error {
		flow, ok := r.data.Flows.Get(row.Text(0))
		if !ok {
			r.report.Reference(row, "invalid flow %q in flow property factors", row.Text(0))
			return nil
		}
		prop, ok := r.data.FlowProperties.Get(row.Text(1))
		if !ok {
			r.report.Reference(row, "invalid flow property %q in flow property factors", row.Text(1))
			return nil
		}
		factor, err := row.Float(2)
		if err != nil {
			return err
		}
		if !flow.AddPropertyFactor(prop.Ref(), factor) {
			r.report.Logger().Debug("duplicate flow property factor ignored",
				"flow", flow.ID, "property", prop.ID, "line", row.Line)
		}
		return nil
	})
}

func (r *reader) readLocations() error {
	return r.src.Each(tables.Locations, func(row core.Row) error {
		lat, err := row.Float(5)
		if err != nil {
			return err
		}
		lon, err := row.Float(6)
		if err != nil {
			return err
		}
		loc := &Location{
			Code:      row.Opt(4),
			Latitude:  lat,
			Longitude: lon,
		}
		names := fillHead(&loc.Head, TypeLocation, row)
		register(r, r.data.Locations, row, loc, names)
		return nil
	})
}

// resolveFlowLocations links flows to the locations named in the flows table.
func (r *reader) resolveFlowLocations() error {
	for _, p := range r.pendingLocations {
		loc, ok := r.data.Locations.Get(p.alias)
		if !ok {
			r.report.Reference(p.row, "invalid location %q in flow %s", p.alias, p.flow.ID)
			continue
		}
		ref := loc.Ref()
		p.flow.Location = &ref
	}
	r.pendingLocations = nil
	return nil
}

// Categories returns the distinct, sorted flow category paths.
func (d *RefData) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range d.Flows.Values() {
		if seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		out = append(out, f.Category)
	}
	sort.Strings(out)
	return out
}

// RefUnitName resolves the name of the reference unit of a flow through its
// reference flow property and that property's unit group.
// Returns "" if any link is missing.
func (d *RefData) RefUnitName(f *Flow) string {
	factor := f.RefFactor()
	if factor == nil {
		return ""
	}
	prop, ok := d.FlowProperties.Get(factor.FlowProperty.ID)
	if !ok || prop.UnitGroup == nil {
		return ""
	}
	group, ok := d.UnitGroups.Get(prop.UnitGroup.ID)
	if !ok {
		return ""
	}
	if u := group.RefUnit(); u != nil {
		return u.Name
	}
	return ""
}

// IsProbablyInput guesses whether an elementary flow is taken from nature:
// true when its category mentions "resource". This is a coarse heuristic
// over category names, not a rule.
func IsProbablyInput(f *Flow) bool {
	return strings.Contains(strings.ToLower(f.Category), "resource")
}
