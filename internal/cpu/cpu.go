// Package cpu models a logical core: a performance-domain tag, a sorted
// table of P-states, and the per-tick cycle accounting that charges the
// profiler.
package cpu

import (
	"fmt"
	"math"

	"github.com/guimove/eas-sim/internal/profiler"
	"github.com/guimove/eas-sim/internal/task"
)

// PerfDom groups CPUs that share a frequency/P-state table.
type PerfDom string

// PState is one discrete operating point: capacity in instructions/sec,
// power in arbitrary but consistent units.
type PState struct {
	Capacity int64
	Power    int64
}

// CPU is a logical core. Its P-state table is assumed sorted ascending by
// capacity; the current P-state is always a member of that table.
type CPU struct {
	name     string
	domain   PerfDom
	pstates  []PState
	current  int
	maxCap   int64
	timeMs   int64
	profiler *profiler.Profiler
}

// New creates a CPU starting at its lowest P-state. pstates must be sorted
// ascending by capacity and non-empty.
func New(name string, domain PerfDom, pstates []PState, p *profiler.Profiler) *CPU {
	if len(pstates) == 0 {
		panic("cpu: empty pstate table")
	}
	c := &CPU{
		name:     name,
		domain:   domain,
		pstates:  pstates,
		current:  0,
		maxCap:   pstates[len(pstates)-1].Capacity,
		profiler: p,
	}
	if p != nil {
		p.OnPowerChange(name, pstates[0].Power, 0)
	}
	return c
}

// Name returns the CPU's stable identifier.
func (c *CPU) Name() string { return c.name }

// Domain returns the performance domain this CPU belongs to.
func (c *CPU) Domain() PerfDom { return c.domain }

// PStates returns the CPU's ascending P-state table.
func (c *CPU) PStates() []PState { return c.pstates }

// MaxCapacity is the capacity of the CPU's highest P-state.
func (c *CPU) MaxCapacity() int64 { return c.maxCap }

// CurrentPState returns the CPU's active P-state.
func (c *CPU) CurrentPState() PState { return c.pstates[c.current] }

// SetPState updates the CPU's active P-state. ps must be a member of the
// CPU's table (by value equality); violating this is a design-time
// invariant break, not a recoverable runtime condition.
func (c *CPU) SetPState(ps PState) {
	idx := -1
	for i, candidate := range c.pstates {
		if candidate == ps {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("cpu %s: pstate %+v not in table", c.name, ps))
	}
	if c.profiler != nil {
		c.profiler.OnPowerChange(c.name, ps.Power, c.timeMs)
	}
	c.current = idx
}

// Reset returns the CPU to its lowest P-state and clears its elapsed-time
// counter, as done between simulation repetitions.
func (c *CPU) Reset() {
	c.current = 0
	c.timeMs = 0
	if c.profiler != nil {
		c.profiler.OnPowerChange(c.name, c.pstates[0].Power, 0)
	}
}

// ExecuteFor runs task for timeMs at the CPU's current P-state, charging
// the profiler with cycles actually spent on the task and any slack
// (surplus) cycles spent idling after the task terminated mid-tick.
func (c *CPU) ExecuteFor(t *task.Task, timeMs int64) {
	cycles := int64(math.Ceil(float64(c.CurrentPState().Capacity) * float64(timeMs) / 1000.0))
	remaining := t.RemainingCycles()

	t.Execute(cycles)
	c.timeMs += timeMs

	charged := cycles
	if remaining < cycles {
		charged = remaining
	}
	if c.profiler != nil {
		c.profiler.OnExecuted(t.Name(), charged)
		if surplus := cycles - remaining; surplus > 0 {
			// The task finished mid-tick; the CPU had nothing left to run it
			// on. The idle task never terminates, so this only fires for
			// user/kernel tasks.
			c.profiler.OnExecuted(task.Slack, surplus)
		}
	}
}
