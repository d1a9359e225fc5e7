// Package loadgen implements the seeded stochastic task source described in
// spec.md §4.8: one PRNG stream decides whether a tick emits a task, a
// second draws the new task's cycle count from a triangular distribution.
//
// The original (original_source/scheduler/load_gen.py) constructs two
// separate numpy PCG64 generators from the *same* seed value: one consumed
// by random() to decide emission, the other by triangular() to size the
// task. They are two distinct generator objects, not a shared stream, and
// diverge in practice because each call pulls a different amount of
// entropy. This package mirrors that exactly: two rand.PCG sources built
// from the same seed, rather than one shared *rand.Rand.
package loadgen

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/guimove/eas-sim/internal/task"
)

// Params configures the triangular cycle distribution and emission
// probability.
type Params struct {
	Low           int64   // lower bound of the triangular distribution, fixed at 10 per spec.md §4.8
	Peak          int64   // PICK_DISTRIB_INTS
	High          int64   // MAX_DISTRIB_INSTS
	CreateTaskProb float64 // gen() emits a task iff uniform() >= CreateTaskProb
}

// LoadGenerator is a seeded source of new Tasks with unique, monotonically
// increasing integer names.
type LoadGenerator struct {
	coin   *rand.Rand
	cycles *rand.Rand
	params Params
	nextID int64
}

// New creates a LoadGenerator seeded by a single integer, per spec.md §4.8.
func New(seed uint64, params Params) *LoadGenerator {
	if params.Low == 0 {
		params.Low = 10
	}
	return &LoadGenerator{
		coin:   rand.New(rand.NewPCG(seed, seed)),
		cycles: rand.New(rand.NewPCG(seed, seed)),
		params: params,
	}
}

// Gen emits a new Task iff the coin stream draws >= CreateTaskProb; else it
// returns nil. Emitted tasks carry a unique incrementing name.
func (g *LoadGenerator) Gen() *task.Task {
	if g.coin.Float64() < g.params.CreateTaskProb {
		return nil
	}
	cycles := g.triangular()
	id := g.nextID
	g.nextID++
	return task.New(cycles, "task-"+strconv.FormatInt(id, 10))
}

func (g *LoadGenerator) triangular() int64 {
	low, peak, high := float64(g.params.Low), float64(g.params.Peak), float64(g.params.High)
	u := g.cycles.Float64()
	fc := (peak - low) / (high - low)

	var x float64
	if u < fc {
		x = low + math.Sqrt(u*(high-low)*(peak-low))
	} else {
		x = high - math.Sqrt((1-u)*(high-low)*(high-peak))
	}
	return int64(x)
}
