package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Issue is a finding of Lint.
type Issue struct {
	Kind    ModelType
	ID      string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.ID, i.Message)
}

// Lint checks the graph for data that reads fine but will surprise the
// consumers of the libraries: identifiers that are not UUIDs, unit groups
// without a reference unit and flows without a reference flow property.
func Lint(d *RefData) []Issue {
	var issues []Issue
	checkID := func(kind ModelType, id string) {
		if _, err := uuid.Parse(id); err != nil {
			issues = append(issues, Issue{Kind: kind, ID: id, Message: "identifier is not a UUID"})
		}
	}

	for _, g := range d.UnitGroups.Values() {
		checkID(TypeUnitGroup, g.ID)
		if g.RefUnit() == nil {
			issues = append(issues, Issue{Kind: TypeUnitGroup, ID: g.ID, Message: "no reference unit"})
		}
		for _, u := range g.Units {
			checkID(TypeUnit, u.ID)
		}
	}
	for _, p := range d.FlowProperties.Values() {
		checkID(TypeFlowProperty, p.ID)
		if p.UnitGroup == nil {
			issues = append(issues, Issue{Kind: TypeFlowProperty, ID: p.ID, Message: "no unit group"})
		}
	}
	for _, c := range d.Currencies.Values() {
		checkID(TypeCurrency, c.ID)
	}
	for _, f := range d.Flows.Values() {
		checkID(TypeFlow, f.ID)
		if f.RefFactor() == nil {
			issues = append(issues, Issue{Kind: TypeFlow, ID: f.ID, Message: "no reference flow property"})
		}
	}
	for _, l := range d.Locations.Values() {
		checkID(TypeLocation, l.ID)
	}
	for _, c := range d.ImpactCategories.Values() {
		checkID(TypeImpactCategory, c.ID)
	}
	for _, m := range d.ImpactMethods.Values() {
		checkID(TypeImpactMethod, m.ID)
		for _, s := range m.NwSets {
			checkID(TypeNwSet, s.ID)
		}
	}
	return issues
}
