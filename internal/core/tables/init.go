// Package tables registers the reference data source tables with the core
// registry. Import this package to ensure all tables are registered.
package tables

// Table keys. Ingestion order follows the declaration order below.
const (
	Units                = "units"
	UnitGroups           = "unit_groups"
	FlowProperties       = "flow_properties"
	Currencies           = "currencies"
	Flows                = "flows"
	FlowPropertyFactors  = "flow_property_factors"
	Locations            = "locations"
	ImpactCategories     = "lcia_categories"
	ImpactFactors        = "lcia_factors"
	ImpactMethods        = "lcia_methods"
	MethodCategories     = "lcia_method_categories"
	MethodNwSets         = "lcia_method_nw_sets"
)

// Library groups.
const (
	GroupUnits = "Units"
	GroupFlows = "Flows"
	GroupLCIA  = "LCIA"
)
