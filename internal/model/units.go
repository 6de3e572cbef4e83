package model

import (
	"strings"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/core/tables"
)

// readUnits registers every unit under its id and name and buckets it by the
// unit group identifier of the row.
func (r *reader) readUnits() error {
	r.unitBuckets = make(map[string][]*Unit)
	return r.src.Each(tables.Units, func(row core.Row) error {
		factor, err := row.Float(3)
		if err != nil {
			return err
		}
		unit := &Unit{
			Head: Head{
				Type:        TypeUnit,
				ID:          row.Text(0),
				Name:        row.Text(1),
				Description: row.Opt(2),
			},
			ConversionFactor: factor,
			Synonyms:         core.SplitList(row.Text(4)),
			Group:            row.Text(5),
		}
		register(r, r.data.Units, row, unit, aliases(unit.ID, unit.Name))

		if unit.Group != "" {
			r.unitBuckets[unit.Group] = append(r.unitBuckets[unit.Group], unit)
		}
		return nil
	})
}

// readUnitGroups creates the unit groups, attaches the bucketed units of
// every group alias and flags the reference unit. Units whose group is never
// declared stay ungrouped.
func (r *reader) readUnitGroups() error {
	r.groupDefaults = make(map[string]string)
	return r.src.Each(tables.UnitGroups, func(row core.Row) error {
		group := &UnitGroup{}
		names := fillHead(&group.Head, TypeUnitGroup, row)
		group.Units = []*Unit{}
		defaultProp := row.Text(4)
		refUnit := row.Opt(5)

		register(r, r.data.UnitGroups, row, group, names)
		for _, alias := range names {
			group.Units = append(group.Units, r.unitBuckets[alias]...)
			r.groupDefaults[alias] = defaultProp
		}

		if refUnit == "" {
			return nil
		}
		for _, u := range group.Units {
			if u.ID == refUnit || u.Name == refUnit {
				u.IsRefUnit = true
				return nil
			}
		}
		r.report.Warn(row.Table, "line %d: reference unit %q not found in unit group %s",
			row.Line, refUnit, group.ID)
		return nil
	})
}

// readFlowProperties creates the flow properties, links them to their unit
// groups and sets the default flow property of a group when one of the
// property aliases matches the declared default.
func (r *reader) readFlowProperties() error {
	return r.src.Each(tables.FlowProperties, func(row core.Row) error {
		prop := &FlowProperty{FlowPropertyType: propertyTypeOf(row.Opt(5))}
		names := fillHead(&prop.Head, TypeFlowProperty, row)
		register(r, r.data.FlowProperties, row, prop, names)

		groupAlias := row.Text(4)
		group, ok := r.data.UnitGroups.Get(groupAlias)
		if !ok {
			r.report.Reference(row, "invalid unit group %q in flow property %s", groupAlias, prop.ID)
			return nil
		}
		ref := group.Ref()
		prop.UnitGroup = &ref
		if contains(names, r.groupDefaults[groupAlias]) {
			propRef := prop.Ref()
			group.DefaultFlowProperty = &propRef
		}
		return nil
	})
}

func propertyTypeOf(s string) FlowPropertyType {
	if strings.HasPrefix(strings.ToLower(s), "e") {
		return EconomicQuantity
	}
	return PhysicalQuantity
}

// readCurrencies creates the currencies and links each of them to the
// reference currency. Without a reference currency, including an empty or
// missing table, a single warning is recorded and the links stay unset.
func (r *reader) readCurrencies() error {
	var refCurrency *Currency
	err := r.src.Each(tables.Currencies, func(row core.Row) error {
		factor, err := row.Float(6)
		if err != nil {
			return err
		}
		c := &Currency{
			Code:             row.Opt(5),
			ConversionFactor: factor,
		}
		names := fillHead(&c.Head, TypeCurrency, row)
		register(r, r.data.Currencies, row, c, names)

		if contains(names, row.Text(4)) {
			refCurrency = c
		}
		return nil
	})
	if err != nil {
		return err
	}

	if refCurrency == nil {
		r.report.Warn(tables.Currencies, "no reference currency defined")
		return nil
	}
	r.data.RefCurrency = refCurrency
	ref := refCurrency.Ref()
	for _, c := range r.data.Currencies.Values() {
		c.RefCurrency = &ref
	}
	return nil
}
