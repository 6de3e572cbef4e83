package core

import (
	"errors"
	"strings"
	"testing"
)

func TestReportCounts(t *testing.T) {
	report, logs := newTestReport()
	row := Row{Table: "flows", File: "flows.csv", Line: 7}

	report.RowRead("flows")
	report.RowRead("flows")
	report.Reference(row, "invalid flow property %s", "p9")
	report.Malformed(row, errors.New("too short"))
	report.Malformed(Row{Table: "units"}, errors.New("empty"))
	report.Warn("currencies", "no reference currency defined")

	if got := report.Read("flows"); got != 2 {
		t.Errorf("Read(flows) = %d, want 2", got)
	}
	if got := report.Skipped("flows", ReasonReference); got != 1 {
		t.Errorf("Skipped(flows, reference) = %d, want 1", got)
	}
	if got := report.SkippedTotal(); got != 3 {
		t.Errorf("SkippedTotal() = %d, want 3", got)
	}
	if got := strings.Join(report.Tables(), ","); got != "flows,units" {
		t.Errorf("Tables() = %s, want flows,units", got)
	}
	if got := strings.Join(report.Reasons("flows"), ","); got != "malformed,reference" {
		t.Errorf("Reasons(flows) = %s", got)
	}

	warnings := report.Warnings()
	if len(warnings) != 1 || warnings[0].Table != "currencies" {
		t.Errorf("Warnings() = %+v", warnings)
	}

	out := logs.String()
	for _, want := range []string{"invalid flow property p9", "line=7", "no reference currency defined"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
