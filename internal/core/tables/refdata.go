package tables

import "github.com/JonMunkholm/refdata/internal/core"

func init() {
	registerUnits()
	registerFlows()
	registerLCIA()
}

func registerUnits() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: Units, Group: GroupUnits, Label: "Units", File: "units.csv", Order: 10},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Conversion factor", Type: core.FieldNumeric},
			{Name: "Synonyms", Type: core.FieldList},
			{Name: "Unit group", Type: core.FieldText},
		},
		SortColumns: []int{1, 0},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: UnitGroups, Group: GroupUnits, Label: "Unit groups", File: "unit_groups.csv", Order: 20},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
			{Name: "Default flow property", Type: core.FieldText},
			{Name: "Reference unit", Type: core.FieldText},
		},
		SortColumns: []int{1, 0},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: FlowProperties, Group: GroupUnits, Label: "Flow properties", File: "flow_properties.csv", Order: 30},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
			{Name: "Unit group", Type: core.FieldText},
			{Name: "Property type", Type: core.FieldText},
		},
		SortColumns: []int{1, 0},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: Currencies, Group: GroupUnits, Label: "Currencies", File: "currencies.csv", Order: 40},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
			{Name: "Reference currency", Type: core.FieldText},
			{Name: "Code", Type: core.FieldText},
			{Name: "Conversion factor", Type: core.FieldNumeric},
		},
		SortColumns: []int{1, 0},
	})
}

func registerFlows() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: Flows, Group: GroupFlows, Label: "Flows", File: "flows.csv", Order: 50},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
			{Name: "Type", Type: core.FieldText},
			{Name: "CAS", Type: core.FieldText},
			{Name: "Formula", Type: core.FieldText},
			{Name: "Reference property", Type: core.FieldText},
			{Name: "Location", Type: core.FieldText, Optional: true},
		},
		SortColumns: []int{1, 3, 0},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: FlowPropertyFactors, Group: GroupFlows, Label: "Flow property factors", File: "flow_property_factors.csv", Order: 60},
		FieldSpecs: []core.FieldSpec{
			{Name: "Flow", Type: core.FieldText, Required: true},
			{Name: "Flow property", Type: core.FieldText, Required: true},
			{Name: "Factor", Type: core.FieldNumeric},
		},
		SortColumns: []int{0, 1},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: Locations, Group: GroupFlows, Label: "Locations", File: "locations.csv", Order: 70},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
			{Name: "Code", Type: core.FieldText},
			{Name: "Latitude", Type: core.FieldNumeric},
			{Name: "Longitude", Type: core.FieldNumeric},
		},
		SortColumns: []int{1, 0},
	})
}

func registerLCIA() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: ImpactCategories, Group: GroupLCIA, Label: "Impact categories", File: "lcia_categories.csv", Order: 80},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
			{Name: "Reference unit", Type: core.FieldText},
		},
		SortColumns: []int{1, 0},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: ImpactFactors, Group: GroupLCIA, Label: "Impact factors", File: "lcia_factors", Partitioned: true, Order: 90},
		FieldSpecs: []core.FieldSpec{
			{Name: "Impact category", Type: core.FieldText, Required: true},
			{Name: "Flow", Type: core.FieldText, Required: true},
			{Name: "Flow property", Type: core.FieldText, Required: true},
			{Name: "Unit", Type: core.FieldText, Required: true},
			{Name: "Location", Type: core.FieldText},
			{Name: "Value", Type: core.FieldText},
		},
		SortColumns: []int{0, 1},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: ImpactMethods, Group: GroupLCIA, Label: "Impact methods", File: "lcia_methods.csv", Order: 100},
		FieldSpecs: []core.FieldSpec{
			{Name: "ID", Type: core.FieldText, Required: true},
			{Name: "Name", Type: core.FieldText},
			{Name: "Description", Type: core.FieldText},
			{Name: "Category", Type: core.FieldText},
		},
		SortColumns: []int{1, 0},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: MethodCategories, Group: GroupLCIA, Label: "Method categories", File: "lcia_method_categories.csv", Order: 110},
		FieldSpecs: []core.FieldSpec{
			{Name: "Method", Type: core.FieldText, Required: true},
			{Name: "Impact category", Type: core.FieldText, Required: true},
		},
		SortColumns: []int{0, 1},
	})

	core.Register(core.TableDefinition{
		Info: core.TableInfo{Key: MethodNwSets, Group: GroupLCIA, Label: "Normalisation and weighting sets", File: "lcia_method_nw_sets.csv", Order: 120},
		FieldSpecs: []core.FieldSpec{
			{Name: "Method", Type: core.FieldText, Required: true},
			{Name: "NW set ID", Type: core.FieldText, Required: true},
			{Name: "NW set name", Type: core.FieldText},
			{Name: "Impact category", Type: core.FieldText, Required: true},
			{Name: "Normalisation", Type: core.FieldNumeric},
			{Name: "Weighting", Type: core.FieldNumeric},
			{Name: "Weighted score unit", Type: core.FieldText, Optional: true},
		},
		SortColumns: []int{0, 2, 1, 3},
	})
}
