package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guimove/eas-sim/internal/orchestrator"
	"github.com/guimove/eas-sim/internal/topology"
)

func sampleResult() orchestrator.TopologyResult {
	return orchestrator.TopologyResult{
		Topology: topology.Descriptor{Counts: map[topology.Class]int{topology.Little: 4, topology.Big: 2}},
		Variants: []orchestrator.VariantResult{
			{
				Name:                 "OverutilDisabled",
				EnergyDiffPct:        -12.34,
				TaskCyclesDiffPct:    1.04,
				EnergyCyclesDiffPct:  -0.5,
				BalanceCyclesDiffPct: 0,
				IdleCyclesDiffPct:    3.26,
				EnergyAwarePlacedPct: 87.449,
			},
		},
	}
}

func TestWriteDiffCSVHeaderAndRounding(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDiffCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteDiffCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Version,Energy diff %,Task cycles diff %,Energy cycles diff %,Balance cycles diff %,Idle cycles diff %" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	want := "OverutilDisabled,-12.3,1.0,-0.5,0.0,3.3"
	if lines[1] != want {
		t.Fatalf("row = %q, want %q", lines[1], want)
	}
}

func TestWritePlacementCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePlacementCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WritePlacementCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Version,Proportion % of task placed by energy aware mean" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "OverutilDisabled,87.4" {
		t.Fatalf("row = %q, want %q", lines[1], "OverutilDisabled,87.4")
	}
}

func TestFilenameHelpers(t *testing.T) {
	if got := DiffFilename("./out", "4little-2big"); got != "out/diff_4little-2big.csv" {
		t.Fatalf("DiffFilename = %q", got)
	}
	if got := PlacementFilename("./out", "4little-2big"); got != "out/placement_4little-2big.csv" {
		t.Fatalf("PlacementFilename = %q", got)
	}
}
