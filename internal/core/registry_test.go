package core

import "testing"

func TestRegistryLookups(t *testing.T) {
	registerTestTables()

	def, ok := Get(testUnitsKey)
	if !ok {
		t.Fatalf("Get(%q) not found", testUnitsKey)
	}
	if def.Info.Label != testUnitsKey {
		t.Errorf("Label = %q, want key as default label", def.Info.Label)
	}
	if len(def.Info.Columns) != 4 || def.Info.Columns[2] != "Conversion factor" {
		t.Errorf("Columns = %v", def.Info.Columns)
	}

	if _, ok := Get("nope"); ok {
		t.Error("Get(nope) should not be found")
	}

	tables := ByGroup("Test")
	if len(tables) != 2 || tables[0].Info.Key != testUnitsKey || tables[1].Info.Key != testFactorsKey {
		t.Errorf("ByGroup(Test) = %v, want units before factors", tables)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	registerTestTables()
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register(TableDefinition{Info: TableInfo{Key: testUnitsKey}})
}

func TestMustGetUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown table")
		}
	}()
	MustGet("does_not_exist")
}
