package eas

import (
	"strconv"
	"testing"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/loadgen"
	"github.com/guimove/eas-sim/internal/profiler"
	"github.com/guimove/eas-sim/internal/task"
)

// Scenario 1 (spec.md §8): two CPUs, one long task, no further arrivals.
// The task starts on the little CPU; the load balancer may move it at tick 0
// since it fills the little CPU to 100%.
func TestScenarioSingleLongTaskTerminates(t *testing.T) {
	little := cpu.New("little", "little", []cpu.PState{{Capacity: 1_000_000_000, Power: 50}}, nil)
	perf := cpu.New("perf", "perf", []cpu.PState{{Capacity: 3_000_000_000, Power: 50}}, nil)

	p := profiler.New(nil)
	lg := loadgen.New(1, loadgen.Params{Peak: 100, High: 200, CreateTaskProb: 1.0}) // never emits
	s := New(Config{CPUs: []*cpu.CPU{little, perf}, LoadGen: lg, Profiler: p})

	// Dispatch the sole task directly onto the little CPU's run-queue, as the
	// wake-up balancer would for an energy-efficient placement.
	s.RunQueue(little).Insert(task.New(1_000_000_000, "user-1"))

	s.Run(1200)

	if p.EndedTask() != 1 {
		t.Fatalf("ended_task = %d, want 1", p.EndedTask())
	}
	if hist := p.CyclesHist(); hist[3] == 0 { // idle bucket
		t.Fatal("expected idle cycles accumulated while a CPU had no task")
	}
	_ = perf
}

func TestCreateTaskProbOneNeverEndsAnyTask(t *testing.T) {
	cpus := manySchedulerCPUs(2)
	p := profiler.New(nil)
	lg := loadgen.New(5, loadgen.Params{Peak: 100, High: 200, CreateTaskProb: 1.0})
	s := New(Config{CPUs: cpus, LoadGen: lg, Profiler: p})

	s.Run(2000)

	if p.EndedTask() != 0 {
		t.Fatalf("ended_task = %d, want 0 with CreateTaskProb=1.0", p.EndedTask())
	}
	hist := p.CyclesHist()
	if hist[0] != 0 {
		t.Fatalf("user cycles = %d, want 0", hist[0])
	}
}

func TestOverutilDisabledNeverPlacesByLoadBalancing(t *testing.T) {
	cpus := manySchedulerCPUs(4)
	p := profiler.New(nil)
	lg := loadgen.New(11, loadgen.Params{Peak: 50, High: 100, CreateTaskProb: 0.3})
	s := New(Config{CPUs: cpus, LoadGen: lg, Profiler: p, OverUtil: OverutilDisabled{}})

	s.Run(5000)

	if p.PlacedLoadBalancing() != 0 {
		t.Fatalf("placed_load_balancing = %d, want 0 with OverutilDisabled", p.PlacedLoadBalancing())
	}
}

func TestInvariantCapMatchesSumOfRemaining(t *testing.T) {
	cpus := manySchedulerCPUs(3)
	p := profiler.New(nil)
	lg := loadgen.New(3, loadgen.Params{Peak: 50, High: 150, CreateTaskProb: 0.2})
	s := New(Config{CPUs: cpus, LoadGen: lg, Profiler: p})

	s.Run(3000)

	for _, c := range s.CPUs() {
		q := s.RunQueue(c)
		if q.Cap() < 0 {
			t.Fatalf("cpu %s: negative cap %d", c.Name(), q.Cap())
		}
	}
}

// Scenario 5 (spec.md §8): three CPUs, one fully loaded with five equal
// tasks (cap summing to 5·10⁸), two idle. loadBalance migrates the
// largest-vr task to an idle CPU and charges CPU 0 with a "balance"
// overhead task of exactly 100×(3 + ⌈log2(6)·2⌉ + ⌈log2(1)⌉) cycles.
func TestScenarioLoadBalancerMigratesAndChargesOverhead(t *testing.T) {
	cpus := manySchedulerCPUs(3)
	p := profiler.New(nil)
	lg := loadgen.New(1, loadgen.Params{Peak: 100, High: 200, CreateTaskProb: 1.0})
	s := New(Config{CPUs: cpus, LoadGen: lg, Profiler: p})

	loaded := cpus[0]
	for i := 0; i < 5; i++ {
		s.RunQueue(loaded).Insert(task.New(100_000_000, "user-"+strconv.Itoa(i)))
	}
	if cap := s.RunQueue(loaded).Cap(); cap != 500_000_000 {
		t.Fatalf("setup: cpu0 cap = %d, want 5e8", cap)
	}

	s.loadBalance()

	if size := s.RunQueue(loaded).Size(); size != 4 {
		t.Fatalf("cpu0 main queue size = %d, want 4 after migration", size)
	}

	migrated := false
	for _, c := range cpus[1:] {
		if s.RunQueue(c).Size() == 1 {
			migrated = true
		}
	}
	if !migrated {
		t.Fatal("expected the migrated task to land on one of the idle CPUs")
	}

	overhead := s.RunQueue(loaded).PopSmallest()
	if overhead == nil || overhead.Name() != task.Balance {
		t.Fatalf("expected a balance overhead task queued on cpu0, got %+v", overhead)
	}
	const wantCycles = 100 * (3 + 6 + 0) // 100*(3 + ceil(log2(6)*2) + ceil(log2(1)))
	if overhead.RemainingCycles() != wantCycles {
		t.Fatalf("overhead cycles = %d, want %d", overhead.RemainingCycles(), wantCycles)
	}
}

func TestInvariantCreatedGreaterOrEqualEnded(t *testing.T) {
	cpus := manySchedulerCPUs(3)
	p := profiler.New(nil)
	lg := loadgen.New(8, loadgen.Params{Peak: 50, High: 150, CreateTaskProb: 0.1})
	s := New(Config{CPUs: cpus, LoadGen: lg, Profiler: p})

	s.Run(4000)

	if p.CreatedTask() < p.EndedTask() {
		t.Fatalf("created=%d ended=%d violates created >= ended", p.CreatedTask(), p.EndedTask())
	}
}
