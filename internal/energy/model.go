// Package energy implements the pure energy-model computation and the
// Schedutil frequency governor described in spec.md §4.4-4.5.
package energy

import "github.com/guimove/eas-sim/internal/cpu"

// Landscape is a snapshot map of CPU name -> current aggregate demand in
// cycles, as used by both the energy model and the governor.
type Landscape map[string]int64

// Model is a pure function from a per-CPU capacity landscape to an
// estimated total power draw. It captures, per performance domain, the
// ascending P-state table of one representative CPU (every CPU in a domain
// shares a table).
type Model struct {
	cpus    []*cpu.CPU
	pstates map[cpu.PerfDom][]cpu.PState
	domains []cpu.PerfDom
}

// NewModel builds a Model from the scheduler's CPU list.
func NewModel(cpus []*cpu.CPU) *Model {
	m := &Model{
		cpus:    cpus,
		pstates: make(map[cpu.PerfDom][]cpu.PState),
	}
	for _, c := range cpus {
		if _, ok := m.pstates[c.Domain()]; !ok {
			m.pstates[c.Domain()] = c.PStates()
			m.domains = append(m.domains, c.Domain())
		}
	}
	return m
}

// Domains returns the distinct performance domains in first-seen order.
func (m *Model) Domains() []cpu.PerfDom { return m.domains }

// Compute returns the total power summed across all CPUs for the given
// landscape, plus a monotonic work counter (every P-state examined, plus
// one per CPU) used to charge a realistic overhead cost to callers. It performs no
// mutation of landscape or CPU state.
func (m *Model) Compute(landscape Landscape) (power int64, work int64) {
	for _, c := range m.cpus {
		demand, ok := landscape[c.Name()]
		if !ok {
			panic("energy: landscape missing CPU " + c.Name())
		}

		table := m.pstates[c.Domain()]
		chosen := table[len(table)-1].Power
		for _, ps := range table {
			work++
			if ps.Capacity > demand {
				chosen = ps.Power
				break
			}
		}
		power += chosen
		work++
	}
	return power, work
}
