package model

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/core/tables"
	"github.com/JonMunkholm/refdata/internal/model/modeltest"
)

func readFixture(t *testing.T, overrides map[string]string, subset Subset) (*RefData, *core.Report) {
	t.Helper()
	report := core.NewReport(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	data, err := Read(core.NewSource(modeltest.Dir(t, overrides), report), subset)
	require.NoError(t, err)
	return data, report
}

func TestRead_UnitGroups(t *testing.T) {
	data, report := readFixture(t, nil, SubsetUnits)

	group, ok := data.UnitGroups.Get("g-mass")
	require.True(t, ok)
	byName, ok := data.UnitGroups.Get("Units of mass")
	require.True(t, ok)
	assert.Same(t, group, byName, "aliases must resolve to one object")

	require.Len(t, group.Units, 2)
	assert.Equal(t, "u-kg", group.Units[0].ID)
	assert.True(t, group.Units[0].IsRefUnit)
	assert.Equal(t, 1000.0, group.Units[1].ConversionFactor)
	assert.False(t, group.Units[1].IsRefUnit)
	assert.Equal(t, []string{"kilogram", "kilo"}, group.Units[0].Synonyms)

	vol, _ := data.UnitGroups.Get("g-vol")
	require.Len(t, vol.Units, 1)
	assert.True(t, vol.Units[0].IsRefUnit, "reference unit matched by id")

	// the unit of an unknown group is registered but not grouped
	x, ok := data.Units.Get("u-x")
	require.True(t, ok)
	assert.Equal(t, "g-unknown", x.Group)
	assert.Equal(t, 4, data.Units.Len())
	assert.Equal(t, 2, data.UnitGroups.Len())
	assert.Zero(t, report.Skipped(tables.Units, core.ReasonReference))
}

func TestRead_ReferenceUnitInvariant(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetUnits)

	for _, g := range data.UnitGroups.Values() {
		refs := 0
		for _, u := range g.Units {
			if u.IsRefUnit {
				refs++
			}
		}
		assert.LessOrEqual(t, refs, 1, "group %s", g.ID)
	}
}

func TestRead_ReferenceUnitFlaggedOnce(t *testing.T) {
	data, report := readFixture(t, map[string]string{
		"units.csv": "ID,Name,Description,Conversion factor,Synonyms,Unit group\n" +
			"u1,kg,,1,,G1\n" +
			"u2,kg,,1000,,G1\n",
		"unit_groups.csv": "ID,Name,Description,Category,Default flow property,Reference unit\n" +
			"G1,Mass,,,,kg\n" +
			"G2,Empty,,,,m\n",
	}, SubsetUnits)

	g1, _ := data.UnitGroups.Get("G1")
	require.Len(t, g1.Units, 2)
	assert.True(t, g1.Units[0].IsRefUnit)
	assert.False(t, g1.Units[1].IsRefUnit)

	g2, ok := data.UnitGroups.Get("G2")
	require.True(t, ok)
	assert.Empty(t, g2.Units)
	assert.Nil(t, g2.RefUnit())

	// the second kg unit replaced the first one under the "kg" alias and the
	// missing reference unit of G2 is reported
	assert.Len(t, report.Warnings(), 2)
}

func TestRead_FlowProperties(t *testing.T) {
	data, report := readFixture(t, nil, SubsetUnits)

	mass, ok := data.FlowProperties.Get("Mass")
	require.True(t, ok)
	assert.Equal(t, PhysicalQuantity, mass.FlowPropertyType)
	require.NotNil(t, mass.UnitGroup)
	assert.Equal(t, "g-mass", mass.UnitGroup.ID)

	group, _ := data.UnitGroups.Get("g-mass")
	require.NotNil(t, group.DefaultFlowProperty)
	assert.Equal(t, "p-mass", group.DefaultFlowProperty.ID)

	// unit group resolved by name, default property declared on that alias
	vol, _ := data.UnitGroups.Get("g-vol")
	require.NotNil(t, vol.DefaultFlowProperty)
	assert.Equal(t, "p-vol", vol.DefaultFlowProperty.ID)

	eur, ok := data.FlowProperties.Get("p-eur")
	require.True(t, ok, "property with unknown unit group is still registered")
	assert.Nil(t, eur.UnitGroup)
	assert.Equal(t, EconomicQuantity, eur.FlowPropertyType)
	assert.Equal(t, 1, report.Skipped(tables.FlowProperties, core.ReasonReference))
}

func TestRead_Currencies(t *testing.T) {
	data, report := readFixture(t, nil, SubsetUnits)

	require.NotNil(t, data.RefCurrency)
	assert.Equal(t, "c-eur", data.RefCurrency.ID)
	for _, c := range data.Currencies.Values() {
		require.NotNil(t, c.RefCurrency, c.ID)
		assert.Equal(t, "c-eur", c.RefCurrency.ID)
	}
	usd, _ := data.Currencies.Get("USD")
	assert.Nil(t, usd, "codes are not aliases")
	assert.Empty(t, report.Warnings())
}

func TestRead_NoReferenceCurrency(t *testing.T) {
	data, report := readFixture(t, map[string]string{
		"currencies.csv": "ID,Name,Description,Category,Reference currency,Code,Conversion factor\n" +
			"c-eur,Euro,,,,EUR,1\n" +
			"c-usd,US Dollar,,,,USD,0.9\n",
	}, SubsetUnits)

	assert.Nil(t, data.RefCurrency)
	for _, c := range data.Currencies.Values() {
		assert.Nil(t, c.RefCurrency, c.ID)
	}
	warnings := report.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "no reference currency defined", warnings[0].Message)
}

func TestRead_Flows(t *testing.T) {
	data, report := readFixture(t, nil, SubsetFlows)

	co2, ok := data.Flows.Get("f-co2")
	require.True(t, ok)
	assert.Equal(t, ElementaryFlow, co2.FlowType)
	assert.Equal(t, "000124-38-9", co2.CAS)
	require.Len(t, co2.FlowProperties, 2, "duplicate p-mass factor is ignored")
	assert.Equal(t, "p-mass", co2.FlowProperties[0].FlowProperty.ID)
	assert.Equal(t, 1.0, co2.FlowProperties[0].ConversionFactor)
	assert.True(t, co2.FlowProperties[0].IsRefFlowProperty)
	assert.Equal(t, 0.5, co2.FlowProperties[1].ConversionFactor)
	assert.False(t, co2.FlowProperties[1].IsRefFlowProperty)

	water, _ := data.Flows.Get("f-water")
	require.NotNil(t, water.Location)
	assert.Equal(t, "l-de", water.Location.ID)
	assert.Equal(t, "p-vol", water.RefFactor().FlowProperty.ID)

	steel, _ := data.Flows.Get("f-steel")
	assert.Equal(t, ProductFlow, steel.FlowType)
	assert.Nil(t, steel.Location)

	// unknown reference property: no seeded factor, the later factor of 1
	// becomes the reference
	bad, _ := data.Flows.Get("f-bad")
	assert.Equal(t, WasteFlow, bad.FlowType)
	require.Len(t, bad.FlowProperties, 1)
	assert.True(t, bad.FlowProperties[0].IsRefFlowProperty)

	_, ok = data.Flows.Get("Carbon dioxide")
	assert.False(t, ok, "flows are registered by id only")

	assert.Equal(t, 2, report.Skipped(tables.Flows, core.ReasonReference))
	assert.Equal(t, 1, report.Skipped(tables.FlowPropertyFactors, core.ReasonReference))
}

func TestRead_FlowPropertyFactorDedup(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetFlows)

	for _, f := range data.Flows.Values() {
		seen := make(map[string]bool)
		refs := 0
		for _, factor := range f.FlowProperties {
			assert.False(t, seen[factor.FlowProperty.ID], "flow %s: duplicate property %s", f.ID, factor.FlowProperty.ID)
			seen[factor.FlowProperty.ID] = true
			if factor.IsRefFlowProperty {
				refs++
			}
		}
		assert.LessOrEqual(t, refs, 1, "flow %s", f.ID)
	}
}

func TestRead_Locations(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetFlows)

	loc, ok := data.Locations.Get("Germany")
	require.True(t, ok)
	assert.Equal(t, "DE", loc.Code)
	assert.Equal(t, 51.1, loc.Latitude)
	assert.Equal(t, 10.4, loc.Longitude)
}

func TestRead_ImpactFactors(t *testing.T) {
	data, report := readFixture(t, nil, SubsetAll)

	gwp, ok := data.ImpactCategories.Get("i-gwp")
	require.True(t, ok)
	assert.Equal(t, "kg CO2 eq", gwp.RefUnit)
	require.Len(t, gwp.ImpactFactors, 3)

	first := gwp.ImpactFactors[0]
	require.NotNil(t, first.Value)
	assert.Equal(t, 2.0, *first.Value)
	assert.Empty(t, first.Formula)
	assert.Equal(t, Ref{Type: TypeUnit, ID: "u-kg", Name: "kg"}, first.Unit)

	zero := gwp.ImpactFactors[1]
	require.NotNil(t, zero.Value)
	assert.Equal(t, 0.0, *zero.Value)

	formula := gwp.ImpactFactors[2]
	assert.Nil(t, formula.Value)
	assert.Equal(t, "abc", formula.Formula)

	wat, _ := data.ImpactCategories.Get("i-wat")
	require.Len(t, wat.ImpactFactors, 1)
	require.NotNil(t, wat.ImpactFactors[0].Location)
	assert.Equal(t, "l-de", wat.ImpactFactors[0].Location.ID)

	empty, _ := data.ImpactCategories.Get("i-empty")
	assert.Empty(t, empty.ImpactFactors)

	assert.Equal(t, 3, report.Skipped(tables.ImpactFactors, core.ReasonReference))
}

func TestRead_NonNumericFactorBecomesFormula(t *testing.T) {
	data, _ := readFixture(t, map[string]string{
		"lcia_factors/a.csv": "Impact category,Flow,Flow property,Unit,Location,Value\n" +
			"i-gwp,f-co2,p-mass,kg,,abc\n",
		"lcia_factors/b.csv": "",
	}, SubsetAll)

	gwp, _ := data.ImpactCategories.Get("i-gwp")
	require.Len(t, gwp.ImpactFactors, 1)
	assert.Nil(t, gwp.ImpactFactors[0].Value)
	assert.Equal(t, "abc", gwp.ImpactFactors[0].Formula)
}

func TestRead_ImpactMethods(t *testing.T) {
	data, report := readFixture(t, nil, SubsetAll)

	method, ok := data.ImpactMethods.Get("EF 3.1")
	require.True(t, ok)
	assert.Equal(t, "Environmental Footprint", method.Description)
	require.Len(t, method.ImpactCategories, 2)
	assert.Equal(t, "i-gwp", method.ImpactCategories[0].ID)

	require.Len(t, method.NwSets, 2)
	eu := method.NwSet("nw-1")
	require.NotNil(t, eu)
	assert.Equal(t, "Pt", eu.WeightedScoreUnit)
	require.Len(t, eu.Factors, 2)
	require.NotNil(t, eu.Factors[0].NormalisationFactor)
	assert.Equal(t, 0.0001, *eu.Factors[0].NormalisationFactor)
	assert.Nil(t, eu.Factors[1].NormalisationFactor)
	assert.Equal(t, 0.1, *eu.Factors[1].WeightingFactor)

	world := method.NwSet("nw-2")
	require.NotNil(t, world, "set is created before its category is checked")
	assert.Empty(t, world.Factors)

	assert.Equal(t, 1, report.Skipped(tables.MethodCategories, core.ReasonReference))
	assert.Equal(t, 1, report.Skipped(tables.MethodNwSets, core.ReasonReference))
}

func TestRead_Subsets(t *testing.T) {
	units, _ := readFixture(t, nil, SubsetUnits)
	assert.Zero(t, units.Flows.Len())
	assert.Zero(t, units.ImpactCategories.Len())

	flows, _ := readFixture(t, nil, SubsetFlows)
	assert.Equal(t, 4, flows.Flows.Len())
	assert.Equal(t, 1, flows.Locations.Len())
	assert.Zero(t, flows.ImpactCategories.Len())

	all, _ := readFixture(t, nil, SubsetAll)
	assert.Equal(t, 3, all.ImpactCategories.Len())
	assert.Equal(t, 1, all.ImpactMethods.Len())
}

func TestRead_MissingTablesHaveNoRows(t *testing.T) {
	report := core.NewReport(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	data, err := Read(core.NewSource(t.TempDir(), report), SubsetAll)
	require.NoError(t, err)

	for kind, n := range data.Counts() {
		assert.Zero(t, n, string(kind))
	}
	warnings := report.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "no reference currency defined", warnings[0].Message)
}

func TestRead_EmptyCurrencyTableWarns(t *testing.T) {
	data, report := readFixture(t, map[string]string{
		"currencies.csv": "ID,Name,Description,Category,Reference currency,Code,Conversion factor\n",
	}, SubsetUnits)

	assert.Zero(t, data.Currencies.Len())
	assert.Nil(t, data.RefCurrency)
	warnings := report.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, tables.Currencies, warnings[0].Table)
	assert.Equal(t, "no reference currency defined", warnings[0].Message)
}

func TestRead_ParseErrorAborts(t *testing.T) {
	const (
		unitsHeader      = "ID,Name,Description,Conversion factor,Synonyms,Unit group\n"
		currenciesHeader = "ID,Name,Description,Category,Reference currency,Code,Conversion factor\n"
		locationsHeader  = "ID,Name,Description,Category,Code,Latitude,Longitude\n"
		factorsHeader    = "Flow,Flow property,Factor\n"
	)

	tests := []struct {
		name   string
		file   string
		table  string
		column int
	}{
		{"unit conversion factor", "units.csv", unitsHeader + "u1,kg,,one,,G1\n", 3},
		{"blank unit conversion factor", "units.csv", unitsHeader + "u1,kg,,,,G1\n", 3},
		{"currency conversion factor", "currencies.csv", currenciesHeader + "c1,Euro,,,c1,EUR,n/a\n", 6},
		{"blank currency conversion factor", "currencies.csv", currenciesHeader + "c1,Euro,,,c1,EUR,\n", 6},
		{"location latitude", "locations.csv", locationsHeader + "l1,X,,,X,north,1\n", 5},
		{"blank location latitude", "locations.csv", locationsHeader + "l1,X,,,X,,1\n", 5},
		{"blank location longitude", "locations.csv", locationsHeader + "l1,X,,,X,1, \n", 6},
		{"flow property factor", "flow_property_factors.csv", factorsHeader + "f-co2,p-vol,half\n", 2},
		{"blank flow property factor", "flow_property_factors.csv", factorsHeader + "f-co2,p-vol,\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := modeltest.Dir(t, map[string]string{tt.file: tt.table})
			report := core.NewReport(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			_, err := Read(core.NewSource(dir, report), SubsetAll)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrParse))

			var perr *core.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, 2, perr.Line)
			assert.Equal(t, tt.column, perr.Column)
			table := strings.TrimSuffix(tt.file, ".csv")
			assert.Zero(t, report.Skipped(table, core.ReasonMalformed), "the row must not be skipped as malformed")
		})
	}
}

func TestRead_FactorReferenceCheckedBeforeNumber(t *testing.T) {
	data, report := readFixture(t, map[string]string{
		"flow_property_factors.csv": "Flow,Flow property,Factor\nf-none,p-vol,\n",
	}, SubsetFlows)

	assert.Equal(t, 1, report.Skipped(tables.FlowPropertyFactors, core.ReasonReference))
	assert.NotZero(t, data.Flows.Len())
}

func TestRead_Idempotent(t *testing.T) {
	dir := modeltest.Dir(t, nil)
	read := func() *RefData {
		report := core.NewReport(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		data, err := Read(core.NewSource(dir, report), SubsetAll)
		require.NoError(t, err)
		return data
	}
	a, b := read(), read()

	assert.Equal(t, a.Counts(), b.Counts())
	for i, f := range a.Flows.Values() {
		assert.Equal(t, f, b.Flows.Values()[i])
	}
	for i, c := range a.ImpactCategories.Values() {
		assert.Equal(t, c, b.ImpactCategories.Values()[i])
	}
}

func TestStripImpactFactors(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetAll)
	data.StripImpactFactors()

	for _, c := range data.ImpactCategories.Values() {
		assert.Nil(t, c.ImpactFactors, c.ID)
	}
}

func TestRefData_Lookup(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetAll)

	e, ok := data.Lookup(TypeFlowProperty, "Volume")
	require.True(t, ok)
	assert.Equal(t, "p-vol", e.Header().ID)

	_, ok = data.Lookup(TypeFlow, "nope")
	assert.False(t, ok)
	_, ok = data.Lookup(TypeNwSet, "nw-1")
	assert.False(t, ok)
}

func TestRefData_Categories(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetFlows)
	assert.Equal(t, []string{
		"Elementary flows/Emission to air/unspecified",
		"Elementary flows/Resource/in water",
		"Products",
		"Waste",
	}, data.Categories())
}

func TestRefData_RefUnitName(t *testing.T) {
	data, _ := readFixture(t, nil, SubsetFlows)

	co2, _ := data.Flows.Get("f-co2")
	assert.Equal(t, "kg", data.RefUnitName(co2))
	water, _ := data.Flows.Get("f-water")
	assert.Equal(t, "m3", data.RefUnitName(water))
	assert.Equal(t, "", data.RefUnitName(&Flow{}))
}

func TestIsProbablyInput(t *testing.T) {
	assert.True(t, IsProbablyInput(&Flow{Head: Head{Category: "Elementary flows/resources/in water"}}))
	assert.True(t, IsProbablyInput(&Flow{Head: Head{Category: "Elementary flows/Resource/in ground"}}))
	assert.False(t, IsProbablyInput(&Flow{Head: Head{Category: "Emissions to air"}}))
	assert.False(t, IsProbablyInput(&Flow{}))
}

func TestParseSubset(t *testing.T) {
	s, err := ParseSubset("Flows")
	require.NoError(t, err)
	assert.Equal(t, SubsetFlows, s)
	assert.Equal(t, "flows", s.String())

	_, err = ParseSubset("everything")
	assert.Error(t, err)
}
