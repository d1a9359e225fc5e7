// Package task defines the unit of schedulable work the simulator moves
// between run-queues.
package task

import "math"

// Idle is the charge class of the singleton idle task and of slack cycles
// folded into idle by callers that don't distinguish the two.
const Idle = "idle"

// Slack is the charge class for cycles a CPU burns past a task's
// termination within a tick.
const Slack = "slack"

// Energy and Balance are the charge classes of synthetic kernel tasks the
// scheduler injects to account for its own placement overhead.
const (
	Energy  = "energy"
	Balance = "balance"
)

// neverTerminates is used as the remaining-cycle count for the idle task: it
// must absorb any number of cycles a tick can produce without terminating.
const neverTerminates = math.MaxInt64

// Task is a unit of work measured in cycles.
//
// Invariant: Remaining is monotonically non-increasing and never exceeds
// Total.
type Task struct {
	total     int64
	remaining int64
	name      string
}

// New creates a task of the given class with the given total cycle count.
// total must be >= 0.
func New(totalCycles int64, name string) *Task {
	if totalCycles < 0 {
		panic("task: negative total cycles")
	}
	return &Task{total: totalCycles, remaining: totalCycles, name: name}
}

// NewIdle creates the singleton idle task: it never terminates.
func NewIdle() *Task {
	return &Task{total: neverTerminates, remaining: neverTerminates, name: Idle}
}

// Name returns the task's symbolic class.
func (t *Task) Name() string { return t.name }

// TotalCycles returns the immutable total cycle count.
func (t *Task) TotalCycles() int64 { return t.total }

// RemainingCycles returns the cycles left to execute.
func (t *Task) RemainingCycles() int64 { return t.remaining }

// ExecutedCycles returns total - remaining, used as the run-queue's
// virtual-runtime ordering key.
func (t *Task) ExecutedCycles() int64 { return t.total - t.remaining }

// Terminated reports whether the task has no remaining cycles.
func (t *Task) Terminated() bool { return t.remaining == 0 }

// Execute consumes up to n cycles, clamped to what remains. n must be >= 0.
// Any surplus (n beyond what remained) is not reported here — callers that
// need it (CPU.ExecuteFor) must capture Remaining before calling Execute.
func (t *Task) Execute(n int64) {
	if n < 0 {
		panic("task: negative execute cycles")
	}
	if n > t.remaining {
		n = t.remaining
	}
	t.remaining -= n
}

// IsKernel reports whether this task's class is one of the scheduler's own
// synthetic overhead charges rather than user work.
func IsKernel(name string) bool {
	return name == Energy || name == Balance || name == Idle
}
