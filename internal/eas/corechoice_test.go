package eas

import (
	"testing"

	"github.com/guimove/eas-sim/internal/cpu"
)

// buildDomainCPUs creates n same-domain CPUs and a Scheduler whose run-queue
// caps are seeded to the given values (in cycles), per spec.md §8 scenario 4.
func buildDomainCPUs(t *testing.T, caps []int64) (*Scheduler, []*cpu.CPU) {
	t.Helper()
	cpus := make([]*cpu.CPU, len(caps))
	for i := range cpus {
		cpus[i] = cpu.New(cpuName(i), "dom", []cpu.PState{{Capacity: 1_000_000_000, Power: 50}}, nil)
	}
	s := newTestScheduler(cpus, nil)
	for i, c := range caps {
		if c > 0 {
			s.RunQueue(cpus[i]).Insert(newFakeTask(c))
		}
	}
	return s, cpus
}

func TestCorechoiceNextfitAllEqualAcceptsNext(t *testing.T) {
	s, cpus := buildDomainCPUs(t, []int64{5, 5, 5, 5})
	policy := NewCorechoiceNextfit(s.Domains())

	byCPU := cpus[0]
	task := newFakeTask(1)
	chosen := policy.FindEnergyEfficientCPU(s, byCPU, task)

	if chosen != cpus[1] {
		t.Fatalf("expected cursor to accept B (index 1) when all caps equal, got %s", chosen.Name())
	}
}

func TestCorechoiceNextfitAdvancesPastHigherCap(t *testing.T) {
	s, cpus := buildDomainCPUs(t, []int64{5, 10, 5, 5})
	policy := NewCorechoiceNextfit(s.Domains())

	byCPU := cpus[0]
	task := newFakeTask(1)
	chosen := policy.FindEnergyEfficientCPU(s, byCPU, task)

	if chosen != cpus[2] {
		t.Fatalf("expected cursor to skip B (higher cap) and accept C, got %s", chosen.Name())
	}
}

func TestCorechoiceNextfitChargesQueuedOverhead(t *testing.T) {
	s, cpus := buildDomainCPUs(t, []int64{5, 5, 5, 5})
	policy := NewCorechoiceNextfit(s.Domains())
	byCPU := cpus[0]

	before := s.RunQueue(byCPU).Cap()
	policy.FindEnergyEfficientCPU(s, byCPU, newFakeTask(1))
	after := s.RunQueue(byCPU).Cap()

	if after <= before {
		t.Fatal("expected queued overhead task to raise byCPU's run-queue cap")
	}
}
