package orchestrator

import (
	"context"
	"testing"

	"github.com/guimove/eas-sim/internal/config"
	"github.com/guimove/eas-sim/internal/topology"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Topology = config.TopologyConfig{Little: 2, Middle: 1, Big: 1}
	cfg.Simulation.RunDurationMs = 200
	cfg.Simulation.SchedTickPeriodMs = 1
	cfg.Simulation.Repetitions = 2
	cfg.Variants.Names = []string{"OverutilDisabled", "CorechoiceNextfit"}
	return cfg
}

func TestExperimentRunProducesOneResultPerTopology(t *testing.T) {
	cfg := smallConfig()
	e := New(cfg)
	topos := []topology.Descriptor{
		{Counts: map[topology.Class]int{topology.Little: 2, topology.Middle: 1, topology.Big: 1}},
	}
	results, err := e.Run(context.Background(), topos)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if len(results[0].Variants) != len(cfg.Variants.Names) {
		t.Fatalf("len(Variants) = %d, want %d", len(results[0].Variants), len(cfg.Variants.Names))
	}
	for _, vr := range results[0].Variants {
		found := false
		for _, n := range cfg.Variants.Names {
			if n == vr.Name {
				found = true
			}
		}
		if !found {
			t.Errorf("unexpected variant %q in results", vr.Name)
		}
	}
}

func TestExperimentRunUnknownVariantErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.Variants.Names = []string{"NotARealVariant"}
	e := New(cfg)
	topos := []topology.Descriptor{{Counts: map[topology.Class]int{topology.Little: 1}}}
	if _, err := e.Run(context.Background(), topos); err == nil {
		t.Fatal("expected error for unknown variant name")
	}
}

func TestPctDiff(t *testing.T) {
	cases := []struct {
		base, cur, want float64
	}{
		{100, 150, 50},
		{100, 50, -50},
		{0, 0, 0},
		{0, 10, 100},
	}
	for _, c := range cases {
		if got := pctDiff(c.base, c.cur); got != c.want {
			t.Errorf("pctDiff(%v, %v) = %v, want %v", c.base, c.cur, got, c.want)
		}
	}
}

func TestPlacementPctHandlesNoPlacements(t *testing.T) {
	if got := placementPct(Stats{}); got != 0 {
		t.Fatalf("placementPct(zero) = %v, want 0", got)
	}
	if got := placementPct(Stats{EnergyAware: 3, LoadBalanced: 1}); got != 75 {
		t.Fatalf("placementPct = %v, want 75", got)
	}
}
