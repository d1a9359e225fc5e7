package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/eas"
	"github.com/guimove/eas-sim/internal/loadgen"
	"github.com/guimove/eas-sim/internal/profiler"
	"github.com/guimove/eas-sim/internal/report"
	"github.com/guimove/eas-sim/internal/topology"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single EAS simulation and print a summary",
	Long: `Runs one scheduler configuration against one CPU topology for the
configured duration and prints a human-readable summary: energy consumed,
cycle-class repartition, and wake-up placement proportions.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.String("variant", "EAS", "scheduler variant to run (EAS for the baseline)")
	f.Int("little", 0, "override little-core count")
	f.Int("middle", 0, "override middle-core count")
	f.Int("big", 0, "override big-core count")
	f.Int64("seed", 0, "override the load generator's random seed")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	variant, _ := cmd.Flags().GetString("variant")

	applyTopologyOverrides(cmd)
	seed := cfg.LoadGen.RandomSeed
	if s, _ := cmd.Flags().GetInt64("seed"); cmd.Flags().Changed("seed") {
		seed = uint64(s)
	}

	desc := topology.Descriptor{Counts: map[topology.Class]int{
		topology.Little: cfg.Topology.Little,
		topology.Middle: cfg.Topology.Middle,
		topology.Big:    cfg.Topology.Big,
	}}

	p := profiler.New(nil)
	cpus := topology.Build(desc, p)
	if len(cpus) == 0 {
		return fmt.Errorf("topology has no CPUs configured")
	}

	overUtil, placement, err := policiesFor(variant, cpus)
	if err != nil {
		return err
	}

	lg := loadgen.New(seed, loadgen.Params{
		Peak:           cfg.LoadGen.PickDistribInts,
		High:           cfg.LoadGen.MaxDistribInsts,
		CreateTaskProb: cfg.LoadGen.CreateTaskProb,
	})

	s := eas.New(eas.Config{
		CPUs:      cpus,
		LoadGen:   lg,
		Profiler:  p,
		OverUtil:  overUtil,
		Placement: placement,
		TickMs:    cfg.Simulation.SchedTickPeriodMs,
	})

	ticks := cfg.Ticks()
	s.Run(ticks)

	summary := report.RunSummary{
		Topology:           desc.Label(),
		Variant:            variant,
		Ticks:              ticks,
		CreatedTasks:       p.CreatedTask(),
		EndedTasks:         p.EndedTask(),
		PlacedEnergyAware:  p.PlacedEnergyAware(),
		PlacedLoadBalanced: p.PlacedLoadBalancing(),
		TotalEnergy:        p.TotalEnergy(),
		CyclesRepartition:  p.CyclesRepartition(),
	}
	return report.WriteTable(os.Stdout, summary)
}

// applyTopologyOverrides layers --little/--middle/--big flag values onto
// the loaded config when the user actually set them.
func applyTopologyOverrides(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetInt("little"); cmd.Flags().Changed("little") {
		cfg.Topology.Little = v
	}
	if v, _ := cmd.Flags().GetInt("middle"); cmd.Flags().Changed("middle") {
		cfg.Topology.Middle = v
	}
	if v, _ := cmd.Flags().GetInt("big"); cmd.Flags().Changed("big") {
		cfg.Topology.Big = v
	}
}

// policiesFor resolves a variant name to its OverUtilPolicy/PlacementPolicy
// pair, constructing any per-domain cursor state against the concrete CPU
// list the way internal/orchestrator's variant table does.
func policiesFor(name string, cpus []*cpu.CPU) (eas.OverUtilPolicy, eas.PlacementPolicy, error) {
	domains := domainsOf(cpus)
	k := cfg.Variants.ManycoresThreshold

	switch name {
	case "EAS", "":
		return eas.DefaultOverUtil{}, eas.DefaultPlacement{}, nil
	case "OverutilDisabled":
		return eas.OverutilDisabled{}, eas.DefaultPlacement{}, nil
	case "OverutilManycores":
		return eas.NewOverutilManycores(float64(k)), eas.DefaultPlacement{}, nil
	case "OverutilTwolimits":
		return eas.NewOverutilTwolimits(), eas.DefaultPlacement{}, nil
	case "OverutilTwolimitsManycores":
		return eas.NewOverutilTwolimitsManycores(float64(k)), eas.DefaultPlacement{}, nil
	case "CorechoiceNextfit":
		return eas.DefaultOverUtil{}, eas.NewCorechoiceNextfit(domains), nil
	case "CorechoiceNextfitOverutilTwolimits":
		ou, pl := eas.NewCorechoiceNextfitOverutilTwolimits(domains)
		return ou, pl, nil
	default:
		return nil, nil, fmt.Errorf("unknown variant %q", name)
	}
}

// domainsOf returns the distinct performance domains present in cpus, in
// first-seen order.
func domainsOf(cpus []*cpu.CPU) []cpu.PerfDom {
	seen := make(map[cpu.PerfDom]bool, len(cpus))
	var out []cpu.PerfDom
	for _, c := range cpus {
		if !seen[c.Domain()] {
			seen[c.Domain()] = true
			out = append(out, c.Domain())
		}
	}
	return out
}
