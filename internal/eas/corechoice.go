package eas

import (
	"math"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/task"
)

// DefaultPlacement is the baseline energy-aware wake-up placement (spec.md
// §4.6): one least-loaded candidate per performance domain, then whichever
// of those candidates minimizes total estimated system power if the new
// task landed there. Ties keep the first domain examined, matching the
// strict-inequality comparison of the original.
type DefaultPlacement struct{}

func (DefaultPlacement) FindEnergyEfficientCPU(s *Scheduler, byCPU *cpu.CPU, t *task.Task) *cpu.CPU {
	candidates := leastLoadedPerDomain(s)
	complexity := int64(len(s.domains))

	chosen, work := cheapestCandidate(s, candidates, t)
	complexity += work

	s.RunQueue(byCPU).InsertOverhead(task.New(100*complexity, task.Energy))
	return chosen
}

// leastLoadedPerDomain returns, for every performance domain, the CPU with
// the lowest current load.
func leastLoadedPerDomain(s *Scheduler) map[cpu.PerfDom]*cpu.CPU {
	candidates := make(map[cpu.PerfDom]*cpu.CPU, len(s.domains))
	for _, d := range s.domains {
		var best *cpu.CPU
		bestLoad := math.Inf(1)
		for _, c := range s.cpusByDom[d] {
			if load := s.Load(c); best == nil || load < bestLoad {
				best, bestLoad = c, load
			}
		}
		candidates[d] = best
	}
	return candidates
}

// cheapestCandidate picks, among one candidate CPU per domain, the one
// that minimizes total estimated power if t were placed there, returning
// the chosen CPU and the energy model's reported work (overhead) cost.
func cheapestCandidate(s *Scheduler, candidates map[cpu.PerfDom]*cpu.CPU, t *task.Task) (*cpu.CPU, int64) {
	landscape := s.Landscape()
	lowestEnergy := math.Inf(1)
	used := int64(0)
	var chosen *cpu.CPU

	for _, d := range s.domains {
		c := candidates[d]
		landscape[c.Name()] += t.RemainingCycles()

		power, cycles := s.em.Compute(landscape)
		used += cycles
		if float64(power) < lowestEnergy {
			lowestEnergy = float64(power)
			chosen = c
		}

		landscape[c.Name()] -= t.RemainingCycles()
	}
	return chosen, used
}

// CorechoiceNextfit replaces the per-domain least-loaded scan with a
// persistent cursor per domain: starting just past the cursor, it advances
// while the visited CPU's load is strictly greater than the previous
// cursor's load, wrapping around the domain's CPU list, and accepts the
// first candidate whose load is not strictly greater (spec.md §4.9 and §8
// scenario 4 — an inverted next-fit acceptance test, reproduced as written
// rather than "corrected" to the usual least-loaded intuition). Like
// DefaultPlacement, it charges the decision's overhead as a side-FIFO task
// queued on byCPU's run-queue rather than executing it immediately.
type CorechoiceNextfit struct {
	cursor map[cpu.PerfDom]int
}

// NewCorechoiceNextfit returns a fresh next-fit placement policy with every
// domain's cursor starting at index 0.
func NewCorechoiceNextfit(domains []cpu.PerfDom) *CorechoiceNextfit {
	cursor := make(map[cpu.PerfDom]int, len(domains))
	for _, d := range domains {
		cursor[d] = 0
	}
	return &CorechoiceNextfit{cursor: cursor}
}

func (p *CorechoiceNextfit) FindEnergyEfficientCPU(s *Scheduler, byCPU *cpu.CPU, t *task.Task) *cpu.CPU {
	complexity := int64(0)
	candidates := make(map[cpu.PerfDom]*cpu.CPU, len(s.domains))

	for _, d := range s.domains {
		cpus := s.cpusByDom[d]
		i := p.cursor[d]
		previousLoad := s.Load(cpus[i])

		i = (i + 1) % len(cpus)
		complexity++
		for s.Load(cpus[i]) > previousLoad {
			i = (i + 1) % len(cpus)
			complexity++
		}

		p.cursor[d] = i
		candidates[d] = cpus[i]
	}

	complexity += int64(len(s.cpus))
	chosen, work := cheapestCandidate(s, candidates, t)
	complexity += work
	complexity += int64(len(s.domains))

	s.RunQueue(byCPU).InsertOverhead(task.New(100*complexity, task.Energy))
	return chosen
}

// NewCorechoiceNextfitOverutilTwolimits returns the paired policies for the
// variant composing next-fit core choice with two-limit hysteresis
// over-utilization detection (spec.md §4.9's Python multiple-inheritance
// variant, expressed here as explicit composition per spec.md §9).
func NewCorechoiceNextfitOverutilTwolimits(domains []cpu.PerfDom) (OverUtilPolicy, PlacementPolicy) {
	return NewOverutilTwolimits(), NewCorechoiceNextfit(domains)
}
