package energy

import (
	"testing"

	"github.com/guimove/eas-sim/internal/cpu"
)

func twoCPUs() []*cpu.CPU {
	little := cpu.New("little0", "little", []cpu.PState{
		{Capacity: 1_000_000_000, Power: 50},
		{Capacity: 2_000_000_000, Power: 90},
	}, nil)
	big := cpu.New("big0", "big", []cpu.PState{
		{Capacity: 2_500_000_000, Power: 120},
		{Capacity: 4_000_000_000, Power: 200},
	}, nil)
	return []*cpu.CPU{little, big}
}

func TestComputeIsPure(t *testing.T) {
	cpus := twoCPUs()
	m := NewModel(cpus)
	landscape := Landscape{"little0": 500_000_000, "big0": 2_000_000_000}

	power1, work1 := m.Compute(landscape)
	power2, work2 := m.Compute(landscape)

	if power1 != power2 || work1 != work2 {
		t.Fatalf("Compute not idempotent: (%d,%d) vs (%d,%d)", power1, work1, power2, work2)
	}
	if _, ok := landscape["little0"]; !ok || landscape["little0"] != 500_000_000 {
		t.Fatal("Compute mutated the landscape")
	}
}

func TestComputePicksLowestSufficientPState(t *testing.T) {
	cpus := twoCPUs()
	m := NewModel(cpus)
	// little demand 500M < 1e9: lowest pstate (50) suffices.
	// big demand 3e9 > 2.5e9 capacity: needs the second pstate (200).
	landscape := Landscape{"little0": 500_000_000, "big0": 3_000_000_000}
	power, _ := m.Compute(landscape)
	if power != 50+200 {
		t.Fatalf("power = %d, want 250", power)
	}
}

func TestComputeFallsBackToHighestPStateWhenDemandExceedsAll(t *testing.T) {
	cpus := twoCPUs()
	m := NewModel(cpus)
	landscape := Landscape{"little0": 10_000_000_000, "big0": 0}
	power, _ := m.Compute(landscape)
	// little: highest pstate (90); big: demand 0 is below its lowest tier (120).
	if power != 90+120 {
		t.Fatalf("power = %d, want 210 (highest little pstate + lowest big pstate)", power)
	}
}

func TestComputePanicsOnMissingCPU(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for landscape missing a CPU")
		}
	}()
	cpus := twoCPUs()
	m := NewModel(cpus)
	m.Compute(Landscape{"little0": 1})
}
