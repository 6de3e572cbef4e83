package core

import (
	"errors"
	"testing"
)

func testDefinition() TableDefinition {
	return TableDefinition{
		Info: TableInfo{Key: "flows"},
		FieldSpecs: []FieldSpec{
			{Name: "ID", Required: true},
			{Name: "Name"},
			{Name: "Reference property"},
			{Name: "Location", Optional: true},
		},
	}
}

func TestMinColumns(t *testing.T) {
	if got := testDefinition().MinColumns(); got != 3 {
		t.Errorf("MinColumns() = %d, want 3", got)
	}
}

func TestValidateRow(t *testing.T) {
	def := testDefinition()
	tests := []struct {
		name    string
		cells   []string
		wantErr bool
	}{
		{name: "complete row", cells: []string{"f1", "CO2", "p1", "DE"}, wantErr: false},
		{name: "optional column missing", cells: []string{"f1", "CO2", "p1"}, wantErr: false},
		{name: "empty optional cells", cells: []string{"f1", "", ""}, wantErr: false},
		{name: "too short", cells: []string{"f1", "CO2"}, wantErr: true},
		{name: "blank row", cells: []string{"", " ", ""}, wantErr: true},
		{name: "empty required id", cells: []string{" ", "CO2", "p1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRow(def, tt.cells)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRow() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedRow) {
				t.Errorf("error %v does not wrap ErrMalformedRow", err)
			}
		})
	}
}

func TestHeaderMismatches(t *testing.T) {
	def := testDefinition()

	if got := HeaderMismatches(def, []string{"id", "Name ", "REFERENCE PROPERTY"}); len(got) != 0 {
		t.Errorf("expected no mismatches, got %v", got)
	}

	got := HeaderMismatches(def, []string{"Flow ID", "Name"})
	if len(got) != 2 {
		t.Errorf("got %d mismatches, want 2: %v", len(got), got)
	}
}
