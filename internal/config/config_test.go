package config

import "testing"

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestValidate_EmptyTopology(t *testing.T) {
	cfg := Default()
	cfg.Topology = TopologyConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty topology")
	}
}

func TestValidate_InvalidCreateTaskProb(t *testing.T) {
	cfg := Default()
	cfg.LoadGen.CreateTaskProb = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for create_task_prob > 1.0")
	}
	cfg.LoadGen.CreateTaskProb = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative create_task_prob")
	}
}

func TestValidate_DistribBoundsMustBeOrdered(t *testing.T) {
	cfg := Default()
	cfg.LoadGen.PickDistribInts = 2000
	cfg.LoadGen.MaxDistribInsts = 500
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when max_distrib_insts <= pick_distrib_ints")
	}
}

func TestValidate_ZeroTickPeriod(t *testing.T) {
	cfg := Default()
	cfg.Simulation.SchedTickPeriodMs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero tick period")
	}
}

func TestValidate_RepetitionsDefaultedWhenNonPositive(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Repetitions = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Simulation.Repetitions != 1 {
		t.Fatalf("repetitions = %d, want defaulted to 1", cfg.Simulation.Repetitions)
	}
}

func TestValidate_InvalidOutputFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "yaml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported output format")
	}
}

func TestTicksDerivesFromDurationAndPeriod(t *testing.T) {
	cfg := Default()
	cfg.Simulation.RunDurationMs = 60_000
	cfg.Simulation.SchedTickPeriodMs = 1
	if got := cfg.Ticks(); got != 60_000 {
		t.Fatalf("Ticks() = %d, want 60000", got)
	}
}
