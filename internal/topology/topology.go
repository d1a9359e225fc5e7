// Package topology builds the CPU fleets the EAS simulator runs against:
// the synthetic little/middle/big topology described in spec.md §6, plus
// the shared descriptor shape internal/catalog and internal/kube each
// populate from their own external collaborator (EC2 instance families, a
// live Kubernetes cluster).
package topology

import (
	"fmt"
	"math"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/profiler"
)

// Class is a performance-domain class name, per spec.md §6's topology
// descriptor (counts of CPUs per performance-domain class).
type Class string

const (
	Little Class = "little"
	Middle Class = "middle"
	Big    Class = "big"
)

// freqRange is the inclusive [low, high] GHz range and step spec.md §6
// assigns each domain class.
type freqRange struct {
	low, high, step float64
}

var classRanges = map[Class]freqRange{
	Little: {low: 0.5, high: 2.0, step: 0.25},
	Middle: {low: 1.5, high: 3.0, step: 0.25},
	Big:    {low: 2.5, high: 4.0, step: 0.25},
}

// Descriptor is a CPU topology: how many CPUs belong to each performance
// domain class. Every CPU in a class shares that class's synthetic pstate
// table (spec.md §6).
type Descriptor struct {
	Counts map[Class]int
	// Name, when set, labels the descriptor for CSV/report output
	// (e.g. an EC2 instance type such as "c7g.2xlarge", or "cluster").
	Name string
}

// Total returns the descriptor's total CPU count across all classes.
func (d Descriptor) Total() int {
	n := 0
	for _, c := range d.Counts {
		n += c
	}
	return n
}

// PStates returns class's ascending pstate table: capacity = f * 10^9,
// power = ceil(f^1.5 * 10), for f in the class's GHz range, per spec.md §6.
func PStates(class Class) []cpu.PState {
	r, ok := classRanges[class]
	if !ok {
		panic(fmt.Sprintf("topology: unknown class %q", class))
	}
	var out []cpu.PState
	for f := r.low; f <= r.high+1e-9; f += r.step {
		capacity := int64(f * 1e9)
		power := int64(math.Ceil(math.Pow(f, 1.5) * 10))
		out = append(out, cpu.PState{Capacity: capacity, Power: power})
	}
	return out
}

// Build materializes a Descriptor into the CPU list the EAS scheduler
// constructs over, one *cpu.CPU per counted core, all sharing their
// class's pstate table and reporting into p.
func Build(d Descriptor, p *profiler.Profiler) []*cpu.CPU {
	var cpus []*cpu.CPU
	for _, class := range []Class{Little, Middle, Big} {
		n := d.Counts[class]
		pstates := PStates(class)
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("%s-%d", class, i)
			cpus = append(cpus, cpu.New(name, cpu.PerfDom(class), pstates, p))
		}
	}
	return cpus
}

// Label returns a stable topology identifier for CSV filenames
// (diff_<topology>.csv, placement_<topology>.csv per spec.md §6), derived
// from the descriptor's per-class counts when Name is unset.
func (d Descriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("%dlittle-%dmiddle-%dbig", d.Counts[Little], d.Counts[Middle], d.Counts[Big])
}
