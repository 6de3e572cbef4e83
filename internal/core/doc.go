// Package core provides the CSV plumbing shared by every reference data table.
//
// The package knows nothing about units, flows or impact categories. It
// describes source tables, reads them from a data directory and reports what
// had to be skipped, so the model package can focus on building the entity
// graph.
//
// # Table Registry
//
// Source tables are registered at init time using [Register]. Each
// [TableDefinition] describes the positional layout of one CSV file:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{Key: "units", Group: "Units", File: "units.csv", Order: 10},
//	    FieldSpecs: []core.FieldSpec{
//	        {Name: "ID", Required: true},
//	        {Name: "Name"},
//	        {Name: "Conversion factor", Type: core.FieldNumeric},
//	    },
//	    SortColumns: []int{1, 0},
//	})
//
// Column order is positional and must match the file. A header row is always
// skipped; header names that differ from the definition are only logged.
//
// # Reading
//
// [Source.Each] streams the rows of a table through a callback. A missing
// file yields no rows. Partitioned tables (a directory of CSV files) are read
// file by file in sorted file name order, which keeps every derived index
// deterministic.
//
// # Error Handling
//
// Errors fall into the categories exposed as sentinel values:
//
//   - [ErrReference]: a dependent row names an unknown entity. Logged, skipped.
//   - [ErrMalformedRow]: a row is too short or misses its identifier. Logged, skipped.
//   - [ErrParse]: a mandatory number is not numeric. Aborts the run.
//   - [ErrConfiguration]: a run-level default is missing. Logged as a warning.
//   - [ErrConsistency]: derived indexes disagree with the graph. Aborts the run.
//
// Skips and warnings are counted in a [Report]. Technical errors are mapped
// to user-facing messages with support codes using [MapError].
package core
