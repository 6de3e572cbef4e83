package core

import (
	"reflect"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "integer", input: "1000", want: 1000, wantOK: true},
		{name: "decimal", input: "0.001", want: 0.001, wantOK: true},
		{name: "negative", input: "-2.5", want: -2.5, wantOK: true},
		{name: "leading dot", input: ".5", want: 0.5, wantOK: true},
		{name: "scientific", input: "1.5e-3", want: 0.0015, wantOK: true},
		{name: "scientific upper", input: "2E10", want: 2e10, wantOK: true},
		{name: "surrounding whitespace", input: "  42  ", want: 42, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "formula", input: "abc", wantOK: false},
		{name: "expression", input: "2*x", wantOK: false},
		{name: "inf", input: "inf", wantOK: false},
		{name: "nan", input: "NaN", wantOK: false},
		{name: "hex float", input: "0x1p-2", wantOK: false},
		{name: "thousands separator", input: "1,000", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: "", want: nil},
		{input: "  ", want: nil},
		{input: "kg", want: []string{"kg"}},
		{input: "kilogram; kilo ;kg", want: []string{"kilogram", "kilo", "kg"}},
		{input: "a;;b;", want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := SplitList(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "ID", want: "id"},
		{input: "\ufeffID", want: "id"},
		{input: "  Conversion factor ", want: "conversion factor"},
	}

	for _, tt := range tests {
		if got := CleanHeader(tt.input); got != tt.want {
			t.Errorf("CleanHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{input: 1, want: "1"},
		{input: 0.001, want: "0.001"},
		{input: 1e-20, want: "1e-20"},
		{input: 1000, want: "1000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRowAccessors(t *testing.T) {
	row := Row{Table: "units", File: "units.csv", Line: 3, Cells: []string{"u1", " kg ", "", "abc"}}

	if got := row.Text(1); got != " kg " {
		t.Errorf("Text(1) = %q, want %q", got, " kg ")
	}
	if got := row.Opt(1); got != "kg" {
		t.Errorf("Opt(1) = %q, want %q", got, "kg")
	}
	if got := row.Text(10); got != "" {
		t.Errorf("Text(10) = %q, want empty", got)
	}
	if got := row.OptFloat(2); got != nil {
		t.Errorf("OptFloat(2) = %v, want nil", *got)
	}

	_, err := row.Float(3)
	if err == nil {
		t.Fatal("Float(3) expected error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("Float(3) error type = %T, want *ParseError", err)
	}
	if perr.Line != 3 || perr.Column != 3 || perr.Value != "abc" {
		t.Errorf("ParseError = %+v", perr)
	}
}
