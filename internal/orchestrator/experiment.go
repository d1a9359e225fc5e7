// Package orchestrator runs a `compare` experiment: the EAS baseline and a
// configured set of scheduler variants, over one or more topologies,
// repeated several times with the same per-repetition seed, per spec.md §5
// and §6. It mirrors the worker-pool-over-semaphore-channel pattern of
// github.com/guimove/clusterfit's internal/simulation/engine.go RunAll.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/guimove/eas-sim/internal/config"
	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/eas"
	"github.com/guimove/eas-sim/internal/loadgen"
	"github.com/guimove/eas-sim/internal/profiler"
	"github.com/guimove/eas-sim/internal/topology"
)

// Stats is one simulation's profiler output, the raw material for both
// diff and placement CSV rows.
type Stats struct {
	Energy       int64
	CyclesHist   [5]int64
	EnergyAware  int64
	LoadBalanced int64
}

// runResult is one (variant, repetition) sample for a single topology.
type runResult struct {
	variant string
	rep     int
	stats   Stats
	err     error
}

// VariantResult aggregates a variant's samples across repetitions, already
// expressed as mean percent deltas against the baseline EAS run of the
// same repetition (spec.md §6's baseline convention).
type VariantResult struct {
	Name                 string
	EnergyDiffPct        float64
	TaskCyclesDiffPct    float64
	EnergyCyclesDiffPct  float64
	BalanceCyclesDiffPct float64
	IdleCyclesDiffPct    float64
	EnergyAwarePlacedPct float64
}

// TopologyResult is one topology's full comparison: every configured
// variant's aggregated diff against the baseline.
type TopologyResult struct {
	Topology topology.Descriptor
	Variants []VariantResult
}

// Experiment runs a compare study over one or more topologies.
type Experiment struct {
	cfg config.Config
}

// New constructs an Experiment from a validated Config.
func New(cfg config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Run executes the baseline plus every configured variant, for each
// topology, Repetitions times, and returns one TopologyResult per
// topology in the order given. Each (topology, repetition, variant)
// simulation owns its own Scheduler, Profiler, and LoadGenerator PRNG
// streams; there is no shared mutable state across simulations
// (spec.md §5).
func (e *Experiment) Run(ctx context.Context, topologies []topology.Descriptor) ([]TopologyResult, error) {
	names := append([]string{Baseline}, e.cfg.Variants.Names...)
	variants := make([]variant, 0, len(names))
	for _, n := range names {
		v, err := variantByName(n, e.cfg.Variants.ManycoresThreshold)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}

	results := make([]TopologyResult, len(topologies))
	for i, topo := range topologies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tr, err := e.runTopology(topo, variants)
		if err != nil {
			return nil, fmt.Errorf("topology %s: %w", topo.Label(), err)
		}
		results[i] = tr
	}
	return results, nil
}

// runTopology runs every (repetition, variant) job for one topology
// through a semaphore-bounded worker pool, then aggregates.
func (e *Experiment) runTopology(topo topology.Descriptor, variants []variant) (TopologyResult, error) {
	reps := e.cfg.Simulation.Repetitions
	ticks := e.cfg.Ticks()

	type job struct {
		rep int
		v   variant
	}
	var jobs []job
	for r := 0; r < reps; r++ {
		for _, v := range variants {
			jobs = append(jobs, job{rep: r, v: v})
		}
	}

	sem := make(chan struct{}, runtime.NumCPU())
	out := make(chan runResult, len(jobs))
	var wg sync.WaitGroup

	for _, j := range jobs {
		j := j
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			seed := e.cfg.LoadGen.RandomSeed + uint64(j.rep)
			st, err := e.runOne(topo, seed, j.v, ticks)
			out <- runResult{variant: j.v.name, rep: j.rep, stats: st, err: err}
		}()
	}
	wg.Wait()
	close(out)

	byRep := make(map[int]map[string]Stats, reps)
	for r := range out {
		if r.err != nil {
			return TopologyResult{}, fmt.Errorf("variant %s rep %d: %w", r.variant, r.rep, r.err)
		}
		if byRep[r.rep] == nil {
			byRep[r.rep] = make(map[string]Stats, len(variants))
		}
		byRep[r.rep][r.variant] = r.stats
	}

	return aggregate(topo, variants, byRep, reps), nil
}

// aggregate turns per-repetition (variant -> Stats) maps into mean percent
// deltas against that repetition's baseline run, then averages across
// repetitions, per spec.md §6.
func aggregate(topo topology.Descriptor, variants []variant, byRep map[int]map[string]Stats, reps int) TopologyResult {
	tr := TopologyResult{Topology: topo}
	for _, v := range variants {
		if v.name == Baseline {
			continue
		}
		var energyAcc, taskAcc, energyCycAcc, balanceAcc, idleAcc, placedAcc float64
		counted := 0
		for r := 0; r < reps; r++ {
			byVariant, ok := byRep[r]
			if !ok {
				continue
			}
			base, ok := byVariant[Baseline]
			if !ok {
				continue
			}
			cur, ok := byVariant[v.name]
			if !ok {
				continue
			}
			energyAcc += pctDiff(float64(base.Energy), float64(cur.Energy))
			baseHist := base.CyclesHist
			curHist := cur.CyclesHist
			taskAcc += pctDiff(float64(baseHist[0]), float64(curHist[0]))
			energyCycAcc += pctDiff(float64(baseHist[1]), float64(curHist[1]))
			balanceAcc += pctDiff(float64(baseHist[2]), float64(curHist[2]))
			idleAcc += pctDiff(float64(baseHist[3]), float64(curHist[3]))
			placedAcc += placementPct(cur)
			counted++
		}
		if counted == 0 {
			continue
		}
		n := float64(counted)
		tr.Variants = append(tr.Variants, VariantResult{
			Name:                 v.name,
			EnergyDiffPct:        energyAcc / n,
			TaskCyclesDiffPct:    taskAcc / n,
			EnergyCyclesDiffPct:  energyCycAcc / n,
			BalanceCyclesDiffPct: balanceAcc / n,
			IdleCyclesDiffPct:    idleAcc / n,
			EnergyAwarePlacedPct: placedAcc / n,
		})
	}
	return tr
}

// pctDiff is the signed percent change from base to cur; 0 when base is 0
// and cur is also 0, matching a run that never touched that bucket.
func pctDiff(base, cur float64) float64 {
	if base == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return (cur - base) / base * 100
}

// placementPct is the proportion of placed tasks decided by the
// energy-aware path rather than plain load balancing.
func placementPct(s Stats) float64 {
	total := s.EnergyAware + s.LoadBalanced
	if total == 0 {
		return 0
	}
	return float64(s.EnergyAware) / float64(total) * 100
}

// runOne builds a fresh CPU set, profiler, and load generator for a single
// simulation and returns its resulting statistics.
func (e *Experiment) runOne(topo topology.Descriptor, seed uint64, v variant, ticks int64) (Stats, error) {
	p := profiler.New(nil)
	cpus := topology.Build(topo, p)
	if len(cpus) == 0 {
		return Stats{}, fmt.Errorf("topology %s has no CPUs", topo.Label())
	}

	lg := loadgen.New(seed, loadgen.Params{
		Peak:           e.cfg.LoadGen.PickDistribInts,
		High:           e.cfg.LoadGen.MaxDistribInsts,
		CreateTaskProb: e.cfg.LoadGen.CreateTaskProb,
	})

	overUtil, placement := v.build(cpus, domainsOf(cpus))

	s := eas.New(eas.Config{
		CPUs:      cpus,
		LoadGen:   lg,
		Profiler:  p,
		OverUtil:  overUtil,
		Placement: placement,
		TickMs:    e.cfg.Simulation.SchedTickPeriodMs,
	})
	s.Run(ticks)

	return Stats{
		Energy:       p.TotalEnergy(),
		CyclesHist:   p.CyclesHist(),
		EnergyAware:  p.PlacedEnergyAware(),
		LoadBalanced: p.PlacedLoadBalancing(),
	}, nil
}

// domainsOf returns the distinct performance domains present in cpus, in
// first-seen order, for variants whose placement policy needs per-domain
// cursor state (CorechoiceNextfit).
func domainsOf(cpus []*cpu.CPU) []cpu.PerfDom {
	seen := make(map[cpu.PerfDom]bool, len(cpus))
	var out []cpu.PerfDom
	for _, c := range cpus {
		if !seen[c.Domain()] {
			seen[c.Domain()] = true
			out = append(out, c.Domain())
		}
	}
	return out
}
