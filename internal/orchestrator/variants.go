package orchestrator

import (
	"fmt"

	"github.com/guimove/eas-sim/internal/cpu"
	"github.com/guimove/eas-sim/internal/eas"
)

// variant names a configured scheduler policy pair, per spec.md §4.9.
// "EAS" (Baseline, DefaultOverUtil with DefaultPlacement) is the baseline.
type variant struct {
	name string
	// build constructs this variant's policies against a concrete CPU/domain
	// list, since next-fit variants carry per-domain cursor state that must
	// be fresh for every simulation run.
	build func(cpus []*cpu.CPU, domains []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy)
}

// Baseline is the default EAS configuration every variant is measured
// against (spec.md §6's "Baseline convention").
const Baseline = "EAS"

// variantByName resolves a configured variant name to its policy
// constructors. manycoresK is the OverutilManycores/TwolimitsManycores
// threshold; 0 defers to half the CPU count, computed each time the
// predicate is evaluated.
func variantByName(name string, manycoresK int) (variant, error) {
	switch name {
	case Baseline:
		return variant{name: Baseline, build: func(_ []*cpu.CPU, _ []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.DefaultOverUtil{}, eas.DefaultPlacement{}
		}}, nil
	case "OverutilDisabled":
		return variant{name: name, build: func(_ []*cpu.CPU, _ []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.OverutilDisabled{}, eas.DefaultPlacement{}
		}}, nil
	case "OverutilManycores":
		return variant{name: name, build: func(_ []*cpu.CPU, _ []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.NewOverutilManycores(float64(manycoresK)), eas.DefaultPlacement{}
		}}, nil
	case "OverutilTwolimits":
		return variant{name: name, build: func(_ []*cpu.CPU, _ []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.NewOverutilTwolimits(), eas.DefaultPlacement{}
		}}, nil
	case "OverutilTwolimitsManycores":
		return variant{name: name, build: func(_ []*cpu.CPU, _ []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.NewOverutilTwolimitsManycores(float64(manycoresK)), eas.DefaultPlacement{}
		}}, nil
	case "CorechoiceNextfit":
		return variant{name: name, build: func(_ []*cpu.CPU, domains []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.DefaultOverUtil{}, eas.NewCorechoiceNextfit(domains)
		}}, nil
	case "CorechoiceNextfitOverutilTwolimits":
		return variant{name: name, build: func(_ []*cpu.CPU, domains []cpu.PerfDom) (eas.OverUtilPolicy, eas.PlacementPolicy) {
			return eas.NewCorechoiceNextfitOverutilTwolimits(domains)
		}}, nil
	default:
		return variant{}, fmt.Errorf("orchestrator: unknown variant %q", name)
	}
}
