package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"github.com/guimove/eas-sim/internal/orchestrator"
)

// diffHeader and placementHeader are spec.md §6's literal, fixed-order CSV
// headers.
var (
	diffHeader = []string{
		"Version", "Energy diff %", "Task cycles diff %",
		"Energy cycles diff %", "Balance cycles diff %", "Idle cycles diff %",
	}
	placementHeader = []string{
		"Version", "Proportion % of task placed by energy aware mean",
	}
)

// WriteDiffCSV writes diff_<topology>.csv to w: one row per configured
// variant, each field the variant's mean percent delta against the
// baseline EAS run, rounded to one decimal (spec.md §6).
func WriteDiffCSV(w io.Writer, tr orchestrator.TopologyResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(diffHeader); err != nil {
		return fmt.Errorf("writing diff CSV header: %w", err)
	}
	for _, v := range tr.Variants {
		row := []string{
			v.Name,
			round1(v.EnergyDiffPct),
			round1(v.TaskCyclesDiffPct),
			round1(v.EnergyCyclesDiffPct),
			round1(v.BalanceCyclesDiffPct),
			round1(v.IdleCyclesDiffPct),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing diff CSV row for %s: %w", v.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePlacementCSV writes placement_<topology>.csv to w: one row per
// configured variant, the mean proportion of tasks it placed via the
// energy-aware path rather than load balancing (spec.md §6).
func WritePlacementCSV(w io.Writer, tr orchestrator.TopologyResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(placementHeader); err != nil {
		return fmt.Errorf("writing placement CSV header: %w", err)
	}
	for _, v := range tr.Variants {
		row := []string{v.Name, round1(v.EnergyAwarePlacedPct)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing placement CSV row for %s: %w", v.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DiffFilename and PlacementFilename derive the per-topology output paths
// spec.md §6 names, rooted at dir.
func DiffFilename(dir, topologyLabel string) string {
	return filepath.Join(dir, fmt.Sprintf("diff_%s.csv", topologyLabel))
}

func PlacementFilename(dir, topologyLabel string) string {
	return filepath.Join(dir, fmt.Sprintf("placement_%s.csv", topologyLabel))
}

func round1(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
