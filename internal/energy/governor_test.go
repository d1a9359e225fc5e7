package energy

import (
	"testing"

	"github.com/guimove/eas-sim/internal/cpu"
)

func TestGovernorSetsLowestSufficientPState(t *testing.T) {
	cpus := twoCPUs()
	g := NewGovernor(cpus)

	g.Update(Landscape{"little0": 1_500_000_000, "big0": 100})

	if cpus[0].CurrentPState().Capacity != 2_000_000_000 {
		t.Fatalf("little pstate = %+v, want the 2e9 tier", cpus[0].CurrentPState())
	}
	if cpus[1].CurrentPState().Capacity != 2_500_000_000 {
		t.Fatalf("big pstate = %+v, want the lowest tier", cpus[1].CurrentPState())
	}
}

func TestGovernorUpdateIsIdempotent(t *testing.T) {
	cpus := twoCPUs()
	g := NewGovernor(cpus)
	landscape := Landscape{"little0": 1_500_000_000, "big0": 100}

	g.Update(landscape)
	first := cpus[0].CurrentPState()
	g.Update(landscape)
	second := cpus[0].CurrentPState()

	if first != second {
		t.Fatalf("pstate changed on repeated Update with unchanged landscape: %+v -> %+v", first, second)
	}
}
