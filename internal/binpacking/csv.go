package binpacking

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
)

// WriteDiffCSV writes one row per scenario to w: the scenario label
// followed by every repetition's Worstfit/NextfitCond standard-deviation
// ratio, per original_source/bin_packing.py's diff_nextfitcond_worstfit
// output.
func WriteDiffCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	for _, res := range results {
		row := make([]string, 0, len(res.StdDiffPct)+1)
		row = append(row, res.Scenario.Label)
		for _, v := range res.StdDiffPct {
			row = append(row, fmt.Sprintf("%.1f", v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing binpacking diff row for %s: %w", res.Scenario.Label, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DiffFilename derives the per-bin-count output path spec.md §1/SPEC_FULL.md
// §4 names for the bin-packing study.
func DiffFilename(dir string, nbrBins int) string {
	return filepath.Join(dir, fmt.Sprintf("diff_nextfitcond_worstfit_%dbins.csv", nbrBins))
}
