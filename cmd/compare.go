package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/guimove/eas-sim/internal/kube"
	"github.com/guimove/eas-sim/internal/orchestrator"
	"github.com/guimove/eas-sim/internal/report"
	"github.com/guimove/eas-sim/internal/topology"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare scheduler variants against the EAS baseline",
	Long: `Runs the EAS baseline plus every configured variant, Repetitions times,
against one or more CPU topologies, and writes diff_<topology>.csv and
placement_<topology>.csv per spec.md §6.`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringSlice("variants", nil, "override the configured variant list")
	f.Int("repetitions", 0, "override the repetition count")
	f.String("out", "", "override the output directory")
	f.Bool("calibrate-manycores", false,
		"sweep OverutilManycores' k threshold across 2..len(cpus)/2+1 instead of running the configured variant list")
	compareCmd.Flags().StringArray("topology", nil,
		"topology as little:middle:big (repeatable); defaults to the configured topology")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if vs, _ := cmd.Flags().GetStringSlice("variants"); cmd.Flags().Changed("variants") {
		cfg.Variants.Names = vs
	}
	if r, _ := cmd.Flags().GetInt("repetitions"); cmd.Flags().Changed("repetitions") {
		cfg.Simulation.Repetitions = r
	}
	if o, _ := cmd.Flags().GetString("out"); cmd.Flags().Changed("out") {
		cfg.Output.Dir = o
	}
	if calibrate, _ := cmd.Flags().GetBool("calibrate-manycores"); calibrate {
		cfg.Variants.CalibrateManycores = true
	}

	topologies, err := resolveTopologies(cmd)
	if err != nil {
		return err
	}

	if cfg.Variants.CalibrateManycores {
		return runManycoresCalibration(topologies)
	}

	exp := orchestrator.New(cfg)
	results, err := exp.Run(context.Background(), topologies)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, tr := range results {
		label := tr.Topology.Label()
		if err := writeCSV(report.DiffFilename(cfg.Output.Dir, label), func(f *os.File) error {
			return report.WriteDiffCSV(f, tr)
		}); err != nil {
			return err
		}
		if err := writeCSV(report.PlacementFilename(cfg.Output.Dir, label), func(f *os.File) error {
			return report.WritePlacementCSV(f, tr)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s and %s\n",
			filepath.Base(report.DiffFilename(cfg.Output.Dir, label)),
			filepath.Base(report.PlacementFilename(cfg.Output.Dir, label)))
	}

	if err := pushToGateway(results); err != nil {
		return err
	}
	return nil
}

// pushToGateway mirrors each topology's aggregated variant results onto a
// Prometheus Pushgateway when internal/kube is configured and enabled, so a
// dashboard watching the gateway picks up a `compare` run's results without
// scraping this short-lived process directly.
func pushToGateway(results []orchestrator.TopologyResult) error {
	if !cfg.Kubernetes.Enabled {
		return nil
	}

	ctx := context.Background()
	client, restConfig, _, _, err := kube.NewClient(cfg.Kubernetes.Kubeconfig, cfg.Kubernetes.Context)
	if err != nil {
		return fmt.Errorf("connecting to kubernetes for pushgateway: %w", err)
	}

	target := cfg.Kubernetes.PushgatewayURL
	if target == "" {
		discovered, err := kube.DiscoverPushgateway(ctx, client, kube.DiscoveryOptions{Namespace: cfg.Kubernetes.DiscoveryNamespace})
		if err != nil {
			return fmt.Errorf("no kubernetes.pushgateway_url configured and auto-discovery failed: %w", err)
		}
		target = discovered.URL
	}

	reg := prometheus.NewRegistry()
	energyDiff := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "eas_sim",
		Name:      "compare_energy_diff_pct",
		Help:      "Mean energy percent delta of a variant against the EAS baseline.",
	}, []string{"topology", "variant"})
	placedPct := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "eas_sim",
		Name:      "compare_energy_aware_placed_pct",
		Help:      "Mean percent of wake-ups placed by the energy-aware path.",
	}, []string{"topology", "variant"})
	reg.MustRegister(energyDiff, placedPct)

	for _, tr := range results {
		label := tr.Topology.Label()
		for _, v := range tr.Variants {
			energyDiff.WithLabelValues(label, v.Name).Set(v.EnergyDiffPct)
			placedPct.WithLabelValues(label, v.Name).Set(v.EnergyAwarePlacedPct)
		}
	}

	if err := kube.PushResults(ctx, client, restConfig, target, "eas_sim_compare", reg); err != nil {
		return fmt.Errorf("pushing compare results: %w", err)
	}
	fmt.Println("pushed compare results to pushgateway")
	return nil
}

// resolveTopologies reads repeated --topology little:middle:big flags, or
// falls back to the single configured topology when none are given.
func resolveTopologies(cmd *cobra.Command) ([]topology.Descriptor, error) {
	specs, _ := cmd.Flags().GetStringArray("topology")
	if len(specs) == 0 {
		return []topology.Descriptor{{Counts: map[topology.Class]int{
			topology.Little: cfg.Topology.Little,
			topology.Middle: cfg.Topology.Middle,
			topology.Big:    cfg.Topology.Big,
		}}}, nil
	}

	out := make([]topology.Descriptor, 0, len(specs))
	for _, spec := range specs {
		var little, middle, big int
		if _, err := fmt.Sscanf(spec, "%d:%d:%d", &little, &middle, &big); err != nil {
			return nil, fmt.Errorf("invalid --topology %q, want little:middle:big: %w", spec, err)
		}
		out = append(out, topology.Descriptor{Counts: map[topology.Class]int{
			topology.Little: little,
			topology.Middle: middle,
			topology.Big:    big,
		}})
	}
	return out, nil
}

// writeCSV opens path for writing and hands it to write, closing the file
// afterward regardless of outcome.
func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}

// runManycoresCalibration reproduces original_source/run-experiments.py's
// run_extra_experiment_calibration_on: it sweeps OverutilManycores' k
// threshold across 2..len(cpus)/2+1 per topology and records each
// threshold's diff against the EAS baseline as one extra CSV row, labeled
// by k instead of by variant name.
func runManycoresCalibration(topologies []topology.Descriptor) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, topo := range topologies {
		n := topo.Total()
		if n < 4 {
			return fmt.Errorf("topology %s has too few CPUs to calibrate OverutilManycores (need >= 4)", topo.Label())
		}

		sweepCfg := cfg
		sweepCfg.Variants.Names = []string{"OverutilManycores"}

		var rows []orchestrator.VariantResult
		for k := 2; k <= n/2+1; k++ {
			sweepCfg.Variants.ManycoresThreshold = k
			exp := orchestrator.New(sweepCfg)
			results, err := exp.Run(context.Background(), []topology.Descriptor{topo})
			if err != nil {
				return fmt.Errorf("calibrating k=%d: %w", k, err)
			}
			for _, v := range results[0].Variants {
				v.Name = fmt.Sprintf("OverutilManycores_k%d", k)
				rows = append(rows, v)
			}
		}

		tr := orchestrator.TopologyResult{Topology: topo, Variants: rows}
		path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("calibration_manycores_%s.csv", topo.Label()))
		if err := writeCSV(path, func(f *os.File) error {
			return report.WriteDiffCSV(f, tr)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", filepath.Base(path))
	}
	return nil
}
