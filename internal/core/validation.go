package core

// validation.go provides row-level checks for source tables before they reach
// the entity resolvers.
//
// Validation happens at two levels:
//  1. Header validation: the header names are compared with the definition.
//     Columns are positional, so a mismatch is only logged.
//  2. Row validation: a row must carry every non-optional column and a
//     non-empty value for required columns. Numbers are not checked here;
//     the resolvers decide whether a bad number is fatal or a formula.
//     Mandatory numeric columns are therefore never Required: a blank one
//     must reach Row.Float and fail as a parse error.

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation problem for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The offending value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// HeaderMismatches compares a header row with the table definition and
// returns one message per differing position. Missing trailing optional
// columns are not reported.
func HeaderMismatches(def TableDefinition, header []string) []string {
	var out []string
	for i, spec := range def.FieldSpecs {
		if i >= len(header) {
			if !spec.Optional {
				out = append(out, fmt.Sprintf("column %d: missing %q", i, spec.Name))
			}
			continue
		}
		if CleanHeader(header[i]) != strings.ToLower(spec.Name) {
			out = append(out, fmt.Sprintf("column %d: got %q, want %q", i, strings.TrimSpace(header[i]), spec.Name))
		}
	}
	return out
}

// ValidateRow checks a data row against the table definition and returns the
// first problem found, wrapped in ErrMalformedRow.
func ValidateRow(def TableDefinition, cells []string) error {
	if isBlankRow(cells) {
		return fmt.Errorf("%w: empty row", ErrMalformedRow)
	}

	if min := def.MinColumns(); len(cells) < min {
		return fmt.Errorf("%w: row has %d columns, expected %d", ErrMalformedRow, len(cells), min)
	}

	for i, spec := range def.FieldSpecs {
		if !spec.Required || i >= len(cells) {
			continue
		}
		if strings.TrimSpace(cells[i]) == "" {
			return fmt.Errorf("%w: %s", ErrMalformedRow, ValidationError{
				Field:   spec.Name,
				Message: "required field is empty",
			})
		}
	}
	return nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
