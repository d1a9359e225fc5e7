package binpacking

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDiffCSVOneRowPerScenario(t *testing.T) {
	results := []Result{
		{Scenario: Scenario{Label: "load20_items8"}, StdDiffPct: []float64{105.2, 98.7}},
		{Scenario: Scenario{Label: "load20_items16"}, StdDiffPct: []float64{110.0}},
	}
	var buf bytes.Buffer
	if err := WriteDiffCSV(&buf, results); err != nil {
		t.Fatalf("WriteDiffCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0] != "load20_items8,105.2,98.7" {
		t.Fatalf("line 0 = %q", lines[0])
	}
	if lines[1] != "load20_items16,110.0" {
		t.Fatalf("line 1 = %q", lines[1])
	}
}

func TestDiffFilename(t *testing.T) {
	if got := DiffFilename("./out", 8); got != "out/diff_nextfitcond_worstfit_8bins.csv" {
		t.Fatalf("DiffFilename = %q", got)
	}
}
