// Package report formats orchestrator output the way spec.md §6 specifies:
// a human-readable single-run summary (table format, for `run`) and two
// per-topology CSV files (`diff_<topology>.csv`, `placement_<topology>.csv`,
// for `compare`), following github.com/guimove/clusterfit's internal/report
// format-switch convention.
package report

import (
	"fmt"
	"io"
)

// errWriter accumulates the first error from a sequence of Fprintf calls so
// callers can write a whole report without checking every line, mirroring
// clusterfit's internal/report table writer.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
