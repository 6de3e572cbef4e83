package model

import (
	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/core/tables"
)

func (r *reader) readImpactCategories() error {
	return r.src.Each(tables.ImpactCategories, func(row core.Row) error {
		impact := &ImpactCategory{RefUnit: row.Opt(4)}
		fillHead(&impact.Head, TypeImpactCategory, row)
		register(r, r.data.ImpactCategories, row, impact, aliases(impact.ID))
		return nil
	})
}

// readImpactFactors merges the factor partitions into the impact categories.
// The category, flow, flow property, unit and (when given) location must all
// resolve or the row is dropped. A value that is not a number is kept as a
// formula.
func (r *reader) readImpactFactors() error {
	return r.src.Each(tables.ImpactFactors, func(row core.Row) error {
		impact, ok := r.data.ImpactCategories.Get(row.Text(0))
		if !ok {
			r.report.Reference(row, "invalid impact category %q", row.Text(0))
			return nil
		}
		flow, ok := r.data.Flows.Get(row.Text(1))
		if !ok {
			r.report.Reference(row, "invalid flow %q", row.Text(1))
			return nil
		}
		prop, ok := r.data.FlowProperties.Get(row.Text(2))
		if !ok {
			r.report.Reference(row, "invalid flow property %q", row.Text(2))
			return nil
		}
		unit, ok := r.data.Units.Get(row.Text(3))
		if !ok {
			r.report.Reference(row, "invalid unit %q", row.Text(3))
			return nil
		}

		factor := ImpactFactor{
			Type:         TypeImpactFactor,
			Flow:         flow.Ref(),
			FlowProperty: prop.Ref(),
			Unit:         unit.Ref(),
		}
		if alias := row.Opt(4); alias != "" {
			loc, ok := r.data.Locations.Get(alias)
			if !ok {
				r.report.Reference(row, "invalid location %q", alias)
				return nil
			}
			ref := loc.Ref()
			factor.Location = &ref
		}

		if v, ok := core.ParseNumber(row.Text(5)); ok {
			factor.Value = &v
		} else {
			factor.Formula = row.Text(5)
		}
		impact.ImpactFactors = append(impact.ImpactFactors, factor)
		return nil
	})
}

func (r *reader) readImpactMethods() error {
	return r.src.Each(tables.ImpactMethods, func(row core.Row) error {
		method := &ImpactMethod{}
		names := fillHead(&method.Head, TypeImpactMethod, row)
		register(r, r.data.ImpactMethods, row, method, names)
		return nil
	})
}

func (r *reader) readMethodCategories() error {
	return r.src.Each(tables.MethodCategories, func(row core.Row) error {
		method, ok := r.data.ImpactMethods.Get(row.Text(0))
		if !ok {
			r.report.Reference(row, "invalid impact method %q", row.Text(0))
			return nil
		}
		impact, ok := r.data.ImpactCategories.Get(row.Text(1))
		if !ok {
			r.report.Reference(row, "invalid impact category %q in method %s", row.Text(1), method.ID)
			return nil
		}
		method.ImpactCategories = append(method.ImpactCategories, impact.Ref())
		return nil
	})
}

// readNwSets attaches the normalisation and weighting sets to their methods.
// A set is created on its first row, even if that row names an unknown
// impact category.
func (r *reader) readNwSets() error {
	return r.src.Each(tables.MethodNwSets, func(row core.Row) error {
		method, ok := r.data.ImpactMethods.Get(row.Text(0))
		if !ok {
			r.report.Reference(row, "invalid impact method %q", row.Text(0))
			return nil
		}

		setID := row.Text(1)
		nwSet := method.NwSet(setID)
		if nwSet == nil {
			nwSet = &NwSet{
				Type:              TypeNwSet,
				ID:                setID,
				Name:              row.Text(2),
				WeightedScoreUnit: row.Opt(6),
			}
			method.NwSets = append(method.NwSets, nwSet)
		}

		impact, ok := r.data.ImpactCategories.Get(row.Text(3))
		if !ok {
			r.report.Reference(row, "invalid impact category %q in nw set %s", row.Text(3), setID)
			return nil
		}
		nwSet.Factors = append(nwSet.Factors, NwFactor{
			Type:                TypeNwFactor,
			ImpactCategory:      impact.Ref(),
			NormalisationFactor: row.OptFloat(4),
			WeightingFactor:     row.OptFloat(5),
		})
		return nil
	})
}
