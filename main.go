// Command eas-sim simulates an Energy-Aware Scheduler for heterogeneous
// multi-core processors and compares scheduler variants against its
// baseline, per spec.md.
package main

import "github.com/guimove/eas-sim/cmd"

func main() {
	cmd.Execute()
}
