package eas

import (
	"testing"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/loadgen"
	"github.com/guimove/eas-sim/internal/profiler"
)

// saturate drives c's run-queue cap to the given percent of its max
// capacity by inserting a single synthetic task, for predicate tests that
// only care about instantaneous load.
func saturate(s *Scheduler, c *cpu.CPU, percent float64) {
	cycles := int64(float64(c.MaxCapacity()) * percent / 100)
	s.RunQueue(c).Insert(newFakeTask(cycles))
}

func manySchedulerCPUs(n int) []*cpu.CPU {
	cpus := make([]*cpu.CPU, n)
	for i := range cpus {
		cpus[i] = cpu.New(cpuName(i), "little", []cpu.PState{
			{Capacity: 1_000_000_000, Power: 50},
		}, nil)
	}
	return cpus
}

func newTestScheduler(cpus []*cpu.CPU, overUtil OverUtilPolicy) *Scheduler {
	p := profiler.New(nil)
	lg := loadgen.New(1, loadgen.Params{Peak: 100, High: 200, CreateTaskProb: 1.0})
	return New(Config{CPUs: cpus, LoadGen: lg, Profiler: p, OverUtil: overUtil})
}

func TestOverutilDisabledAlwaysFalse(t *testing.T) {
	cpus := manySchedulerCPUs(2)
	s := newTestScheduler(cpus, OverutilDisabled{})
	saturate(s, cpus[0], 95)
	saturate(s, cpus[1], 95)
	if s.overUtil.IsOverUtilized(s) {
		t.Fatal("OverutilDisabled must always report false")
	}
}

func TestOverutilManycoresRequiresQuorum(t *testing.T) {
	cpus := manySchedulerCPUs(8)
	policy := NewOverutilManycores(4)
	s := newTestScheduler(cpus, policy)

	saturate(s, cpus[0], 90)
	saturate(s, cpus[1], 90)
	saturate(s, cpus[2], 90)
	if s.overUtil.IsOverUtilized(s) {
		t.Fatal("3 of 4 required CPUs above threshold should not trip manycores(4)")
	}

	saturate(s, cpus[3], 81)
	if !s.overUtil.IsOverUtilized(s) {
		t.Fatal("4th CPU above 80% should trip manycores(4)")
	}
}

func TestOverutilTwolimitsHysteresis(t *testing.T) {
	cpus := manySchedulerCPUs(4)
	policy := NewOverutilTwolimits()
	s := newTestScheduler(cpus, policy)

	saturate(s, cpus[0], 85)
	saturate(s, cpus[1], 85)
	saturate(s, cpus[2], 85)
	if !policy.IsOverUtilized(s) {
		t.Fatal("expected latch at 85% load")
	}

	// Drop to 75%: still latched because load >= 70 persists elsewhere.
	s2 := newTestScheduler(cpus, policy)
	saturate(s2, cpus[1], 75)
	saturate(s2, cpus[2], 75)
	if !policy.IsOverUtilized(s2) {
		t.Fatal("expected hysteresis to keep reporting true at 75%")
	}

	s3 := newTestScheduler(cpus, policy)
	saturate(s3, cpus[0], 69)
	saturate(s3, cpus[1], 69)
	if policy.IsOverUtilized(s3) {
		t.Fatal("expected hysteresis to drop once all loads fall below 70%")
	}
}

func TestOverutilTwolimitsManycores(t *testing.T) {
	cpus := manySchedulerCPUs(8)
	policy := NewOverutilTwolimitsManycores(4)
	s := newTestScheduler(cpus, policy)

	saturate(s, cpus[0], 90)
	saturate(s, cpus[1], 90)
	saturate(s, cpus[2], 90)
	if policy.IsOverUtilized(s) {
		t.Fatal("quorum of 3 should not trip a k=4 upper threshold")
	}

	s2 := newTestScheduler(cpus, policy)
	saturate(s2, cpus[0], 90)
	saturate(s2, cpus[1], 90)
	saturate(s2, cpus[2], 90)
	saturate(s2, cpus[3], 90)
	if !policy.IsOverUtilized(s2) {
		t.Fatal("quorum of 4 should trip the upper threshold")
	}
}
