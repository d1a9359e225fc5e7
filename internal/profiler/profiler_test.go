package profiler

import "testing"

func TestOnExecutedBucketsByClass(t *testing.T) {
	p := New(nil)
	p.OnExecuted("task-7", 100)
	p.OnExecuted(ClassEnergy, 10)
	p.OnExecuted(ClassBalance, 20)
	p.OnExecuted(ClassIdle, 5)
	p.OnExecuted(ClassSlack, 1)

	hist := p.CyclesHist()
	want := [5]int64{100, 10, 20, 5, 1}
	if hist != want {
		t.Fatalf("hist = %v, want %v", hist, want)
	}
}

func TestOnExecutedIgnoresNonPositiveCycles(t *testing.T) {
	p := New(nil)
	p.OnExecuted("task-1", 0)
	p.OnExecuted("task-1", -5)
	hist := p.CyclesHist()
	if hist[0] != 0 {
		t.Fatalf("user cycles = %d, want 0", hist[0])
	}
}

func TestCyclesHistCollapsedFoldsSlackIntoIdle(t *testing.T) {
	p := New(nil)
	p.OnExecuted(ClassIdle, 10)
	p.OnExecuted(ClassSlack, 5)
	collapsed := p.CyclesHistCollapsed()
	if collapsed[3] != 15 {
		t.Fatalf("collapsed idle = %d, want 15", collapsed[3])
	}
}

func TestOnPowerChangeAccumulatesEnergy(t *testing.T) {
	p := New(nil)
	p.OnPowerChange("cpu0", 100, 0)
	p.OnPowerChange("cpu0", 200, 10) // 100 * 10ms = 1000
	p.Flush(20)                     // 200 * 10ms = 2000

	if got := p.TotalEnergy(); got != 3000 {
		t.Fatalf("total energy = %d, want 3000", got)
	}
}

func TestCreatedEndedCounters(t *testing.T) {
	p := New(nil)
	p.OnNewTask()
	p.OnNewTask()
	p.OnTaskEnd()
	if p.CreatedTask() != 2 || p.EndedTask() != 1 {
		t.Fatalf("created=%d ended=%d", p.CreatedTask(), p.EndedTask())
	}
	if p.CreatedTask() < p.EndedTask() {
		t.Fatal("invariant violated: created < ended")
	}
}

func TestOnPlacementCounters(t *testing.T) {
	p := New(nil)
	p.OnPlacement(PlacementEnergyAware)
	p.OnPlacement(PlacementEnergyAware)
	p.OnPlacement(PlacementLoadBalancing)
	if p.PlacedEnergyAware() != 2 || p.PlacedLoadBalancing() != 1 {
		t.Fatalf("energy=%d balancing=%d", p.PlacedEnergyAware(), p.PlacedLoadBalancing())
	}
}

func TestCyclesRepartitionPercentages(t *testing.T) {
	p := New(nil)
	p.OnExecuted("task-1", 50)
	p.OnExecuted(ClassIdle, 50)
	rep := p.CyclesRepartition()
	if rep[0] != 50 || rep[3] != 50 {
		t.Fatalf("repartition = %v, want [50 0 0 50 0]", rep)
	}
}
