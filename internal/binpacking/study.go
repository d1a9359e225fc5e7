package binpacking

import (
	"fmt"
	"math/rand/v2"
)

// DefaultTotalLoads and DefaultItemMultipliers mirror
// original_source/bin_packing.py's run_experiment_with sweep: three target
// total loads (as a multiple of bin count) and, for each, two item counts
// (as a multiple of bin count).
var (
	DefaultTotalLoads      = []float64{20, 60, 100}
	DefaultItemMultipliers = []int{2, 4}
)

// Scenario is one (total load, item count) combination of the sweep, for
// a fixed bin count.
type Scenario struct {
	Label     string
	TotalLoad float64
	ItemCount int
}

// Result is one scenario's outcome across Repetitions runs: the
// Worstfit/NextfitCond standard-deviation ratio (percent) and NextfitCond's
// step count, one sample per repetition.
type Result struct {
	Scenario     Scenario
	StdDiffPct   []float64
	NextfitSteps []int64
}

// Scenarios builds the standard sweep for a given bin count, per
// original_source/bin_packing.py.
func Scenarios(nbrBins int) []Scenario {
	var out []Scenario
	for _, totalLoad := range DefaultTotalLoads {
		for _, mult := range DefaultItemMultipliers {
			itemCount := nbrBins * mult
			out = append(out, Scenario{
				Label:     fmt.Sprintf("load%g_items%d", totalLoad, itemCount),
				TotalLoad: totalLoad,
				ItemCount: itemCount,
			})
		}
	}
	return out
}

// Run executes one scenario repetitions times, each repetition seeded by
// its own index (mirroring the original's npr.PCG64(repetition)) so the
// study is reproducible. nbrBins is the number of bins each repetition
// packs into.
func Run(nbrBins int, s Scenario, repetitions int) Result {
	res := Result{
		Scenario:     s,
		StdDiffPct:   make([]float64, 0, repetitions),
		NextfitSteps: make([]int64, 0, repetitions),
	}

	for rep := 0; rep < repetitions; rep++ {
		items := randomItems(uint64(rep), s.ItemCount, nbrBins, s.TotalLoad)

		worstfit := NewWorstfit(nbrBins)
		nextfit := NewNextfitCond(nbrBins)
		for _, item := range items {
			worstfit.Place(item)
			nextfit.Place(item)
		}

		nextfitStd := StdDev(nextfit.Bins())
		worstfitStd := StdDev(worstfit.Bins())
		diffPct := 0.0
		if nextfitStd != 0 {
			diffPct = worstfitStd / nextfitStd * 100
		}

		res.StdDiffPct = append(res.StdDiffPct, diffPct)
		res.NextfitSteps = append(res.NextfitSteps, nextfit.Steps())
	}

	return res
}

// randomItems draws itemCount uniform(0,1) samples from a seed-derived
// stream, then rescales them so they sum to nbrBins*totalLoad, matching
// `items *= (nbr_bin * total_val) / np.sum(items)` in the original.
func randomItems(seed uint64, itemCount, nbrBins int, totalLoad float64) []float64 {
	r := rand.New(rand.NewPCG(seed, seed))
	items := make([]float64, itemCount)
	sum := 0.0
	for i := range items {
		items[i] = r.Float64()
		sum += items[i]
	}
	if sum == 0 {
		return items
	}
	scale := (float64(nbrBins) * totalLoad) / sum
	for i := range items {
		items[i] *= scale
	}
	return items
}
