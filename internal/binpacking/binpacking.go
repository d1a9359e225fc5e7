// Package binpacking implements the standalone Worstfit-vs-NextfitCond
// Monte-Carlo bin-packing study described in spec.md §1 as sharing no code
// with the EAS scheduler (original_source/bin_packing.py). It mirrors the
// Placer/Pack shape of github.com/guimove/clusterfit's
// internal/simulation.BestFitDecreasing: a small strategy interface plus a
// pure function that packs a sequence of items and reports the resulting
// per-bin load distribution.
package binpacking

import "math"

// Bin accumulates placed item load.
type Bin struct {
	Cap float64
}

// Placer assigns incoming items to bins, tracking how many bin
// comparisons ("steps") its placement rule costs, mirroring the
// original's total_step instrumentation.
type Placer interface {
	Place(item float64)
	Bins() []*Bin
	Steps() int64
}

type placerBase struct {
	bins      []*Bin
	totalStep int64
}

func newPlacerBase(nbrBins int) placerBase {
	bins := make([]*Bin, nbrBins)
	for i := range bins {
		bins[i] = &Bin{}
	}
	return placerBase{bins: bins}
}

func (p *placerBase) Bins() []*Bin { return p.bins }
func (p *placerBase) Steps() int64 { return p.totalStep }

// Worstfit always places the next item in the least-loaded bin, scanning
// every bin to find it.
type Worstfit struct {
	placerBase
}

// NewWorstfit constructs a Worstfit placer over nbrBins empty bins.
func NewWorstfit(nbrBins int) *Worstfit {
	return &Worstfit{placerBase: newPlacerBase(nbrBins)}
}

func (w *Worstfit) Place(item float64) {
	least := w.bins[0]
	for _, b := range w.bins[1:] {
		if b.Cap < least.Cap {
			least = b
		}
	}
	w.totalStep += int64(len(w.bins))
	least.Cap += item
}

// NextfitCond places the next item starting just past a remembered
// cursor, advancing circularly while the candidate bin's load exceeds the
// cursor bin's load (a cap-decreasing acceptance test, same shape as
// internal/eas's CorechoiceNextfit core-choice variant).
type NextfitCond struct {
	placerBase
	prevBinIdx int
}

// NewNextfitCond constructs a NextfitCond placer over nbrBins empty bins.
func NewNextfitCond(nbrBins int) *NextfitCond {
	return &NextfitCond{placerBase: newPlacerBase(nbrBins)}
}

func (n *NextfitCond) Place(item float64) {
	binIdx := (n.prevBinIdx + 1) % len(n.bins)
	bin := n.bins[binIdx]
	n.totalStep++

	for n.bins[n.prevBinIdx].Cap < bin.Cap {
		binIdx = (binIdx + 1) % len(n.bins)
		bin = n.bins[binIdx]
		n.totalStep++
	}

	n.prevBinIdx = binIdx
	bin.Cap += item
}

// StdDev returns the population standard deviation of a placer's final
// bin loads, the metric the study compares between the two placers.
func StdDev(bins []*Bin) float64 {
	if len(bins) == 0 {
		return 0
	}
	mean := 0.0
	for _, b := range bins {
		mean += b.Cap
	}
	mean /= float64(len(bins))

	var variance float64
	for _, b := range bins {
		d := b.Cap - mean
		variance += d * d
	}
	variance /= float64(len(bins))
	return math.Sqrt(variance)
}
