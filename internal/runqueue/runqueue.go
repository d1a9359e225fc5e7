// Package runqueue implements the per-CPU ordered task container described
// in spec.md §4.3: a main container ordered by virtual runtime (executed
// cycles) supporting pop-smallest/pop-largest/insert, plus a FIFO side
// queue for injected overhead tasks that is always drained first.
//
// spec.md §9 and the original implementation both note that a heap
// satisfies the contract as well as a balanced BST would: only
// pop_largest needs a linear scan, and load balancing — the only caller of
// pop_largest — runs at most once per simulated second. This uses
// container/heap rather than hand-rolling a red-black tree.
package runqueue

import (
	"container/heap"

	"github.com/guimove/eas-sim/internal/task"
)

// RunQueue is a per-CPU container. It is not safe for concurrent use; the
// scheduler core owns it exclusively (spec.md §5).
type RunQueue struct {
	main  vrHeap
	side  []*task.Task // FIFO, overhead tasks
	total int64        // cached cap: sum of remaining_cycles over both queues
}

// New returns an empty RunQueue.
func New() *RunQueue {
	return &RunQueue{}
}

// Cap is the cached sum of remaining cycles across both queues.
func (q *RunQueue) Cap() int64 { return q.total }

// Size is the count of main-queue items only (the side FIFO is excluded).
func (q *RunQueue) Size() int { return len(q.main) }

// Insert adds t to the main container, keyed by executed cycles.
func (q *RunQueue) Insert(t *task.Task) {
	heap.Push(&q.main, t)
	q.total += t.RemainingCycles()
}

// InsertOverhead adds t to the side FIFO.
func (q *RunQueue) InsertOverhead(t *task.Task) {
	q.side = append(q.side, t)
	q.total += t.RemainingCycles()
}

// PopSmallest returns the side FIFO's head if non-empty, else the
// main-queue's smallest-virtual-runtime task, else nil.
func (q *RunQueue) PopSmallest() *task.Task {
	if len(q.side) > 0 {
		t := q.side[0]
		q.side = q.side[1:]
		q.total -= t.RemainingCycles()
		return t
	}
	if len(q.main) == 0 {
		return nil
	}
	t := heap.Pop(&q.main).(*task.Task)
	q.total -= t.RemainingCycles()
	return t
}

// PopLargest removes and returns the main-queue item with the largest
// executed-cycles key, ignoring the side FIFO. nil if the main queue is
// empty.
func (q *RunQueue) PopLargest() *task.Task {
	if len(q.main) == 0 {
		return nil
	}
	idx := 0
	for i := 1; i < len(q.main); i++ {
		if q.main[i].ExecutedCycles() > q.main[idx].ExecutedCycles() {
			idx = i
		}
	}
	t := q.main[idx]
	heap.Remove(&q.main, idx)
	q.total -= t.RemainingCycles()
	return t
}

// vrHeap is a min-heap of tasks ordered by executed cycles (virtual
// runtime), satisfying container/heap.Interface.
type vrHeap []*task.Task

func (h vrHeap) Len() int            { return len(h) }
func (h vrHeap) Less(i, j int) bool  { return h[i].ExecutedCycles() < h[j].ExecutedCycles() }
func (h vrHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vrHeap) Push(x interface{}) { *h = append(*h, x.(*task.Task)) }
func (h *vrHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
