package report

import (
	"io"
	"strings"
)

// RunSummary is the result of a single `run` simulation: one topology, one
// scheduler variant, no baseline comparison. Mirrors the profiler counters
// spec.md §4.7 requires the simulator to expose.
type RunSummary struct {
	Topology string
	Variant  string
	Ticks    int64

	CreatedTasks int64
	EndedTasks   int64

	PlacedEnergyAware  int64
	PlacedLoadBalanced int64

	TotalEnergy int64
	// CyclesRepartition is the five-bucket {user, energy, balance, idle,
	// slack} histogram as a percentage of total cycles.
	CyclesRepartition [5]float64
}

var cyclesBucketNames = [5]string{"User", "Energy", "Balance", "Idle", "Slack"}

// WriteTable renders s as a human-readable summary, following
// github.com/guimove/clusterfit's internal/report.TableReporter layout.
func WriteTable(w io.Writer, s RunSummary) error {
	ew := &errWriter{w: w}

	ew.printf("\n")
	ew.printf("EAS Simulation Summary\n")
	ew.printf("%s\n", strings.Repeat("=", 48))
	ew.printf("Topology:    %s\n", s.Topology)
	ew.printf("Variant:     %s\n", s.Variant)
	ew.printf("Ticks:       %d\n", s.Ticks)
	ew.printf("%s\n\n", strings.Repeat("=", 48))

	ew.printf("Tasks created:   %d\n", s.CreatedTasks)
	ew.printf("Tasks ended:     %d\n", s.EndedTasks)
	ew.printf("\n")

	placedTotal := s.PlacedEnergyAware + s.PlacedLoadBalanced
	energyAwarePct := 0.0
	if placedTotal > 0 {
		energyAwarePct = float64(s.PlacedEnergyAware) / float64(placedTotal) * 100
	}
	ew.printf("Placed energy-aware:    %d (%.1f%%)\n", s.PlacedEnergyAware, energyAwarePct)
	ew.printf("Placed load-balancing:  %d (%.1f%%)\n", s.PlacedLoadBalanced, 100-energyAwarePct)
	ew.printf("\n")

	ew.printf("Total energy: %d\n", s.TotalEnergy)
	ew.printf("\n")
	ew.printf("Cycles repartition:\n")
	for i, name := range cyclesBucketNames {
		ew.printf("  %-8s %6.1f%%\n", name, s.CyclesRepartition[i])
	}
	ew.printf("\n")

	return ew.err
}
