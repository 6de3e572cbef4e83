// Package modeltest provides a small, complete reference data set for tests.
//
// The data set exercises every table: a unit group with two units (the first
// one is the reference unit), a flow property with an unknown unit group,
// two currencies, flows with duplicate property factors and an unknown
// reference property, factor partitions with a zero value, a formula and
// unresolvable references, and a method with two NW sets.
package modeltest

import (
	"os"
	"path/filepath"
	"testing"
)

// Files maps a path below the data directory to its CSV content.
var Files = map[string]string{
	"units.csv": `ID,Name,Description,Conversion factor,Synonyms,Unit group
u-kg,kg,kilogram,1.0,kilogram;kilo,g-mass
u-t,t,tonne,1000.0,,g-mass
u-m3,m3,cubic metre,1,,g-vol
u-x,x,,1,,g-unknown
`,
	"unit_groups.csv": `ID,Name,Description,Category,Default flow property,Reference unit
g-mass,Units of mass,,Technical unit groups,p-mass,kg
g-vol,Units of volume,,Technical unit groups,p-vol,u-m3
`,
	"flow_properties.csv": `ID,Name,Description,Category,Unit group,Property type
p-mass,Mass,,Technical flow properties,g-mass,Physical quantity
p-vol,Volume,,Technical flow properties,Units of volume,
p-eur,Market value,,Economic flow properties,g-missing,Economic quantity
`,
	"currencies.csv": `ID,Name,Description,Category,Reference currency,Code,Conversion factor
c-eur,Euro,,,c-eur,EUR,1
c-usd,US Dollar,,,c-eur,USD,0.9
`,
	"flows.csv": `ID,Name,Description,Category,Type,CAS,Formula,Reference property,Location
f-co2,Carbon dioxide,,Elementary flows/Emission to air/unspecified,Elementary flow,000124-38-9,CO2,p-mass,
f-water,"Water, river",,Elementary flows/Resource/in water,e,,,Volume,Germany
f-steel,Steel,,Products,Product flow,,,p-mass,XX
f-bad,Bad,,Waste,waste flow,,,p-none
`,
	"flow_property_factors.csv": `Flow,Flow property,Factor
f-co2,p-mass,2
f-co2,p-vol,0.5
f-water,p-mass,1000
f-none,p-mass,1
f-bad,p-mass,1
`,
	"locations.csv": `ID,Name,Description,Category,Code,Latitude,Longitude
l-de,Germany,,Europe,DE,51.1,10.4
`,
	"lcia_categories.csv": `ID,Name,Description,Category,Reference unit
i-gwp,Climate change,,EF 3.1,kg CO2 eq
i-wat,Water use,,EF 3.1,m3 world eq
i-empty,Empty,,,
`,
	"lcia_factors/a.csv": `Impact category,Flow,Flow property,Unit,Location,Value
i-gwp,f-co2,p-mass,kg,,2.0
i-gwp,f-co2,p-vol,m3,,0
i-gwp,f-water,p-mass,kg,,abc
i-gwp,f-missing,p-mass,kg,,5
`,
	"lcia_factors/b.csv": `Impact category,Flow,Flow property,Unit,Location,Value
i-wat,f-water,p-vol,u-m3,Germany,1.5
i-wat,f-co2,p-mass,kg,Nowhere,3
i-nope,f-co2,p-mass,kg,,1
`,
	"lcia_methods.csv": `ID,Name,Description,Category
m-ef,EF 3.1,Environmental Footprint,EF
`,
	"lcia_method_categories.csv": `Method,Impact category
m-ef,i-gwp
m-ef,i-wat
m-x,i-gwp
`,
	"lcia_method_nw_sets.csv": `Method,NW set ID,NW set name,Impact category,Normalisation,Weighting,Weighted score unit
m-ef,nw-1,EU,i-gwp,0.0001,0.2,Pt
m-ef,nw-1,EU,i-wat,,0.1,Pt
m-ef,nw-2,World,i-zzz,1,1,
`,
}

// Write writes the data set below dir, with overrides replacing or adding
// files. An empty override content removes the file.
func Write(t testing.TB, dir string, overrides map[string]string) {
	t.Helper()
	files := make(map[string]string, len(Files))
	for name, content := range Files {
		files[name] = content
	}
	for name, content := range overrides {
		if content == "" {
			delete(files, name)
			continue
		}
		files[name] = content
	}

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// Dir writes the data set to a temporary directory and returns it.
func Dir(t testing.TB, overrides map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	Write(t, dir, overrides)
	return dir
}
