package energy

import "github.com/guimove/eas-sim/internal/cpu"

// Governor implements Schedutil: for every CPU, pick the lowest P-state
// whose capacity exceeds the CPU's current demand (same rule as Model),
// and apply it.
type Governor struct {
	cpus []*cpu.CPU
}

// NewGovernor creates a Schedutil governor over the given CPUs.
func NewGovernor(cpus []*cpu.CPU) *Governor {
	return &Governor{cpus: cpus}
}

// Update sets every CPU's P-state from the landscape. Idempotent for an
// unchanged landscape.
func (g *Governor) Update(landscape Landscape) {
	for _, c := range g.cpus {
		demand, ok := landscape[c.Name()]
		if !ok {
			panic("energy: landscape missing CPU " + c.Name())
		}
		table := c.PStates()
		chosen := table[len(table)-1]
		for _, ps := range table {
			if ps.Capacity > demand {
				chosen = ps
				break
			}
		}
		if chosen != c.CurrentPState() {
			c.SetPState(chosen)
		}
	}
}
