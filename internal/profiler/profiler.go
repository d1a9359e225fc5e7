// Package profiler accumulates energy, cycle-class, and placement counters
// for one simulation run, and optionally mirrors them onto a Prometheus
// registry passed to New (the `run` and `compare` commands pass none).
package profiler

import (
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/guimove/eas-sim/internal/task"
)

// Cycle classes. "user" covers every task name that isn't one of the
// scheduler's own synthetic classes.
const (
	ClassUser    = "user"
	ClassEnergy  = task.Energy
	ClassBalance = task.Balance
	ClassIdle    = task.Idle
	ClassSlack   = task.Slack
)

var classOrder = [...]string{ClassUser, ClassEnergy, ClassBalance, ClassIdle, ClassSlack}

func classOf(taskName string) string {
	switch taskName {
	case ClassEnergy, ClassBalance, ClassIdle, ClassSlack:
		return taskName
	default:
		return ClassUser
	}
}

type powerSample struct {
	power int64
	tsMs  int64
}

// Profiler is a per-simulation collaborator; it is never shared across
// concurrent simulations (see spec.md §5).
type Profiler struct {
	mu sync.Mutex

	totalEnergy float64
	lastSample  map[string]powerSample

	cyclesHist map[string]int64

	createdTask          int64
	endedTask            int64
	placedEnergyAware    int64
	placedLoadBalancing  int64

	metrics *metricSet
}

// New creates an empty Profiler. If reg is non-nil, the profiler registers
// its counters/gauges on it.
func New(reg *prometheus.Registry) *Profiler {
	p := &Profiler{
		lastSample: make(map[string]powerSample),
		cyclesHist: make(map[string]int64, len(classOrder)),
	}
	for _, c := range classOrder {
		p.cyclesHist[c] = 0
	}
	if reg != nil {
		p.metrics = newMetricSet(reg)
	}
	return p
}

// OnPowerChange flushes the elapsed energy for cpuName's previous power
// level (power × elapsed ms) into the running total, then records the new
// (power, timestamp) sample. Called whenever a CPU's P-state changes and
// once more at teardown with the final timestamp to flush the last span.
func (p *Profiler) OnPowerChange(cpuName string, newPower int64, nowMs int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.lastSample[cpuName]; ok {
		p.totalEnergy += float64(prev.power) * float64(nowMs-prev.tsMs)
	}
	p.lastSample[cpuName] = powerSample{power: newPower, tsMs: nowMs}
	if p.metrics != nil {
		p.metrics.energyJoules.Set(p.totalEnergy / 1000.0)
	}
}

// Flush closes out every CPU's open power span at nowMs. Call once when a
// simulation ends so the final span is counted.
func (p *Profiler) Flush(nowMs int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, prev := range p.lastSample {
		p.totalEnergy += float64(prev.power) * float64(nowMs-prev.tsMs)
		p.lastSample[name] = powerSample{power: prev.power, tsMs: nowMs}
	}
	if p.metrics != nil {
		p.metrics.energyJoules.Set(p.totalEnergy / 1000.0)
	}
}

// OnExecuted charges cycles to the bucket for taskName's class.
func (p *Profiler) OnExecuted(taskName string, cycles int64) {
	if cycles <= 0 {
		return
	}
	class := classOf(taskName)
	p.mu.Lock()
	p.cyclesHist[class] += cycles
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.cyclesTotal.WithLabelValues(class).Add(float64(cycles))
	}
}

// OnNewTask counts a task creation.
func (p *Profiler) OnNewTask() {
	p.mu.Lock()
	p.createdTask++
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.tasksCreated.Inc()
	}
}

// OnTaskEnd counts a user-task termination.
func (p *Profiler) OnTaskEnd() {
	p.mu.Lock()
	p.endedTask++
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.tasksEnded.Inc()
	}
}

// PlacementKind distinguishes the two wake-up balancer outcomes.
type PlacementKind int

const (
	PlacementEnergyAware PlacementKind = iota
	PlacementLoadBalancing
)

// OnPlacement records one wake-up balancer decision.
func (p *Profiler) OnPlacement(kind PlacementKind) {
	p.mu.Lock()
	switch kind {
	case PlacementEnergyAware:
		p.placedEnergyAware++
	default:
		p.placedLoadBalancing++
	}
	p.mu.Unlock()
	if p.metrics != nil {
		label := "energy_aware"
		if kind == PlacementLoadBalancing {
			label = "load_balancing"
		}
		p.metrics.placements.WithLabelValues(label).Inc()
	}
}

// CreatedTask, EndedTask, PlacedEnergyAware, PlacedLoadBalancing are plain
// accessors for the counters above.
func (p *Profiler) CreatedTask() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.createdTask
}

func (p *Profiler) EndedTask() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.endedTask
}

func (p *Profiler) PlacedEnergyAware() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placedEnergyAware
}

func (p *Profiler) PlacedLoadBalancing() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placedLoadBalancing
}

// TotalEnergy returns accumulated energy, rounded up, in the same units as
// CPU.PState.Power × milliseconds (callers scale to Joules by /1000).
func (p *Profiler) TotalEnergy() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(math.Ceil(p.totalEnergy))
}

// CyclesHist returns the five-bucket histogram in class order
// {user, energy, balance, idle, slack}.
func (p *Profiler) CyclesHist() [5]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out [5]int64
	for i, c := range classOrder {
		out[i] = p.cyclesHist[c]
	}
	return out
}

// CyclesHistCollapsed folds slack into idle, matching the four-bucket
// histogram of the original implementation this was ported from.
func (p *Profiler) CyclesHistCollapsed() [4]int64 {
	h := p.CyclesHist()
	return [4]int64{h[0], h[1], h[2], h[3] + h[4]}
}

// CyclesRepartition returns the five-bucket histogram as percentages of the
// total charged cycles.
func (p *Profiler) CyclesRepartition() [5]float64 {
	h := p.CyclesHist()
	var total int64
	for _, v := range h {
		total += v
	}
	var out [5]float64
	if total == 0 {
		return out
	}
	for i, v := range h {
		out[i] = float64(v) / float64(total) * 100
	}
	return out
}
