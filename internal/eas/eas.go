// Package eas implements the Energy-Aware Scheduler core described in
// spec.md §4.6: the per-CPU run-queues, the tick loop, the wake-up
// balancer, the periodic load balancer, and the over-utilization
// predicate. Variants (spec.md §4.9) are expressed as two narrow strategy
// interfaces, OverUtilPolicy and PlacementPolicy, composed at construction
// instead of the original's multiple inheritance (spec.md §9).
package eas

import (
	"math"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/energy"
	"github.com/guimove/eas-sim/internal/loadgen"
	"github.com/guimove/eas-sim/internal/profiler"
	"github.com/guimove/eas-sim/internal/runqueue"
	"github.com/guimove/eas-sim/internal/task"
)

// OverUtilPolicy decides whether the scheduler should treat the system as
// over-utilized this tick, switching the wake-up balancer's placement
// strategy from energy-aware to plain load balancing and gating the
// periodic load balancer.
type OverUtilPolicy interface {
	IsOverUtilized(s *Scheduler) bool
}

// PlacementPolicy selects an energy-efficient destination CPU for a newly
// woken task and charges the overhead of having decided so. Only invoked
// on the energy-aware (not over-utilized) path; the over-utilized path's
// destination logic is fixed by spec.md §4.6 and lives in the core.
type PlacementPolicy interface {
	FindEnergyEfficientCPU(s *Scheduler, byCPU *cpu.CPU, t *task.Task) *cpu.CPU
}

// Scheduler is one simulation's EAS core. It owns every run-queue and the
// idle task; CPUs are shared references supplied at construction and are
// mutated only through the Governor.
type Scheduler struct {
	cpus      []*cpu.CPU
	domains   []cpu.PerfDom
	cpusByDom map[cpu.PerfDom][]*cpu.CPU
	queues    map[string]*runqueue.RunQueue
	idle      *task.Task
	loadGen   *loadgen.LoadGenerator
	em        *energy.Model
	governor  *energy.Governor
	profiler  *profiler.Profiler
	overUtil  OverUtilPolicy
	placement PlacementPolicy

	tick   int64
	tickMs int64
}

// Config bundles a Scheduler's construction-time collaborators.
type Config struct {
	CPUs      []*cpu.CPU
	LoadGen   *loadgen.LoadGenerator
	Profiler  *profiler.Profiler
	OverUtil  OverUtilPolicy  // defaults to DefaultOverUtil{} when nil
	Placement PlacementPolicy // defaults to DefaultPlacement{} when nil
	TickMs    int64           // scheduler tick period in ms; defaults to 1
}

// New constructs a Scheduler over the given CPUs with empty run-queues.
func New(cfg Config) *Scheduler {
	if len(cfg.CPUs) == 0 {
		panic("eas: scheduler requires at least one CPU")
	}
	tickMs := cfg.TickMs
	if tickMs == 0 {
		tickMs = 1
	}
	overUtil := cfg.OverUtil
	if overUtil == nil {
		overUtil = DefaultOverUtil{}
	}
	placement := cfg.Placement
	if placement == nil {
		placement = DefaultPlacement{}
	}

	s := &Scheduler{
		cpus:      cfg.CPUs,
		cpusByDom: make(map[cpu.PerfDom][]*cpu.CPU),
		queues:    make(map[string]*runqueue.RunQueue, len(cfg.CPUs)),
		idle:      task.NewIdle(),
		loadGen:   cfg.LoadGen,
		em:        energy.NewModel(cfg.CPUs),
		governor:  energy.NewGovernor(cfg.CPUs),
		profiler:  cfg.Profiler,
		overUtil:  overUtil,
		placement: placement,
		tickMs:    tickMs,
	}
	for _, c := range cfg.CPUs {
		s.queues[c.Name()] = runqueue.New()
		if _, ok := s.cpusByDom[c.Domain()]; !ok {
			s.domains = append(s.domains, c.Domain())
		}
		s.cpusByDom[c.Domain()] = append(s.cpusByDom[c.Domain()], c)
	}
	return s
}

// CPUs returns the scheduler's CPU list in construction order.
func (s *Scheduler) CPUs() []*cpu.CPU { return s.cpus }

// Domains returns the distinct performance domains in first-seen order.
func (s *Scheduler) Domains() []cpu.PerfDom { return s.domains }

// CPUsInDomain returns the CPUs belonging to d, in construction order.
func (s *Scheduler) CPUsInDomain(d cpu.PerfDom) []*cpu.CPU { return s.cpusByDom[d] }

// Profiler returns the scheduler's profiler.
func (s *Scheduler) Profiler() *profiler.Profiler { return s.profiler }

// Tick returns the number of scheduler ticks executed so far.
func (s *Scheduler) Tick() int64 { return s.tick }

// RunQueue returns the run-queue belonging to c.
func (s *Scheduler) RunQueue(c *cpu.CPU) *runqueue.RunQueue { return s.queues[c.Name()] }

// Load returns a CPU's load as a percentage of its max capacity.
func (s *Scheduler) Load(c *cpu.CPU) float64 {
	return float64(s.queues[c.Name()].Cap()) / float64(c.MaxCapacity()) * 100
}

// Landscape snapshots every CPU's current run-queue cap.
func (s *Scheduler) Landscape() energy.Landscape {
	l := make(energy.Landscape, len(s.cpus))
	for _, c := range s.cpus {
		l[c.Name()] = s.queues[c.Name()].Cap()
	}
	return l
}

// Run advances the simulation until the scheduler's tick counter reaches
// ticks, each tick being tickMs milliseconds of simulated time, per
// spec.md §4.6. Every 500 ticks
// (mirroring CFS's periodic rebalance cadence) the over-utilization
// predicate gates a call to the periodic load balancer.
func (s *Scheduler) Run(ticks int64) {
	for ; s.tick < ticks; s.tick++ {
		if s.tick%500 == 0 && s.overUtil.IsOverUtilized(s) {
			s.loadBalance()
		}

		for _, c := range s.cpus {
			if newTask := s.loadGen.Gen(); newTask != nil {
				s.profiler.OnNewTask()
				dest := s.wakeUpBalance(c, newTask)
				s.queues[dest.Name()].Insert(newTask)
				s.governor.Update(s.Landscape())
			}

			q := s.queues[c.Name()]
			t := q.PopSmallest()
			if t == nil {
				t = s.idle
			}

			c.ExecuteFor(t, s.tickMs)

			switch {
			case t == s.idle:
				// nothing to requeue
			case !t.Terminated():
				q.Insert(t)
			case !task.IsKernel(t.Name()):
				s.profiler.OnTaskEnd()
			}

			s.governor.Update(s.Landscape())
		}
	}
	s.profiler.Flush(s.tick * s.tickMs)
}

// anyLoadAbove reports whether any CPU's load exceeds threshold percent.
func (s *Scheduler) anyLoadAbove(threshold float64) bool {
	for _, c := range s.cpus {
		if s.Load(c) > threshold {
			return true
		}
	}
	return false
}

// countLoadAbove returns how many CPUs have load strictly greater than
// threshold percent.
func (s *Scheduler) countLoadAbove(threshold float64) int {
	n := 0
	for _, c := range s.cpus {
		if s.Load(c) > threshold {
			n++
		}
	}
	return n
}

// wakeUpBalance implements spec.md §4.6's wake-up balancer: when
// over-utilized it falls back to plain load balancing (destination = any
// idle CPU, else byCPU), charging byCPU's run-queue a side-FIFO overhead
// task for the decision; otherwise it defers to the configured
// PlacementPolicy, which charges its own overhead the same way.
func (s *Scheduler) wakeUpBalance(byCPU *cpu.CPU, t *task.Task) *cpu.CPU {
	if s.overUtil.IsOverUtilized(s) {
		dest := byCPU
		for _, c := range s.cpus {
			if s.Load(c) == 0 {
				dest = c
			}
		}
		s.RunQueue(byCPU).InsertOverhead(task.New(10*int64(len(s.cpus)), task.Balance))
		s.profiler.OnPlacement(profiler.PlacementLoadBalancing)
		return dest
	}

	dest := s.placement.FindEnergyEfficientCPU(s, byCPU, t)
	s.profiler.OnPlacement(profiler.PlacementEnergyAware)
	return dest
}

// loadBalance implements spec.md §4.6's periodic load balancer: it finds
// an idle CPU and the single most-loaded CPU, migrates the source's
// largest-virtual-runtime task to the idle CPU, and queues the bookkeeping
// cost onto CPU 0's run-queue as a side-FIFO overhead task.
func (s *Scheduler) loadBalance() {
	var idleCPU, srcCPU *cpu.CPU
	srcLoad := math.Inf(-1)

	for _, c := range s.cpus {
		load := s.Load(c)
		switch {
		case load == 0:
			idleCPU = c
		case load > srcLoad:
			srcLoad = load
			srcCPU = c
		}
	}

	if idleCPU == nil || srcCPU == nil {
		return
	}

	srcQ := s.RunQueue(srcCPU)
	dstQ := s.RunQueue(idleCPU)
	srcSize, dstSize := srcQ.Size(), dstQ.Size()

	if migrant := srcQ.PopLargest(); migrant != nil {
		dstQ.Insert(migrant)
	}

	complexity := int64(len(s.cpus))
	complexity += int64(math.Ceil(math.Log2(float64(srcSize+1)) * 2))
	if dstSize-1 > 0 {
		complexity += int64(math.Ceil(math.Log2(float64(dstSize - 1))))
	}

	s.RunQueue(s.cpus[0]).InsertOverhead(task.New(100*complexity, task.Balance))
}
