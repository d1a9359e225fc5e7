package eas

// DefaultOverUtil is the baseline over-utilization predicate (spec.md
// §4.7): the system is over-utilized the instant any single CPU's load
// exceeds 80%.
type DefaultOverUtil struct{}

func (DefaultOverUtil) IsOverUtilized(s *Scheduler) bool {
	return s.anyLoadAbove(80)
}

// OverutilDisabled always reports not-over-utilized, permanently routing
// the wake-up balancer through the energy-aware placement path and
// disabling the periodic load balancer.
type OverutilDisabled struct{}

func (OverutilDisabled) IsOverUtilized(*Scheduler) bool { return false }

// OverutilManycores requires a quorum of CPUs above 80% load, not just
// one, before declaring over-utilization. CountLimit is the number of CPUs
// required; NewOverutilManycores defaults it to half the CPU count,
// matching the original's len(cpus)/2.
type OverutilManycores struct {
	CountLimit float64
}

// NewOverutilManycores returns an OverutilManycores policy. A countLimit of
// 0 defers the threshold to half the scheduler's CPU count, computed at
// each call since the scheduler's CPU count is not known until Run.
func NewOverutilManycores(countLimit float64) OverutilManycores {
	return OverutilManycores{CountLimit: countLimit}
}

func (p OverutilManycores) IsOverUtilized(s *Scheduler) bool {
	limit := p.CountLimit
	if limit == 0 {
		limit = float64(len(s.cpus)) / 2
	}
	count := 0
	for _, c := range s.cpus {
		if s.Load(c) > 80 {
			count++
			if float64(count) >= limit {
				return true
			}
		}
	}
	return false
}

// OverutilTwolimits adds hysteresis to the baseline predicate: once any
// CPU has crossed the upper 80% limit, the system stays flagged
// over-utilized as long as any CPU remains above a lower 70% limit, rather
// than dropping out the instant the triggering CPU falls back under 80%.
type OverutilTwolimits struct {
	wasOverUtilized bool
}

// NewOverutilTwolimits returns a fresh two-limit hysteresis policy.
func NewOverutilTwolimits() *OverutilTwolimits {
	return &OverutilTwolimits{}
}

func (p *OverutilTwolimits) IsOverUtilized(s *Scheduler) bool {
	aboveLower := false
	for _, c := range s.cpus {
		load := s.Load(c)
		switch {
		case load >= 80:
			p.wasOverUtilized = true
			return true
		case p.wasOverUtilized && load >= 70:
			aboveLower = true
		}
	}
	if !aboveLower {
		p.wasOverUtilized = false
	}
	return aboveLower
}

// OverutilTwolimitsManycores composes the manycores quorum requirement
// with the two-limit hysteresis: the upper trigger needs a quorum of CPUs
// above 80%, and that latched state persists while any CPU stays above the
// lower 70% limit.
type OverutilTwolimitsManycores struct {
	wasOverUtilized bool
	countLimit      float64
}

// NewOverutilTwolimitsManycores returns a fresh policy. A countLimit of 0
// defers the upper-trigger threshold to half the scheduler's CPU count.
func NewOverutilTwolimitsManycores(countLimit float64) *OverutilTwolimitsManycores {
	return &OverutilTwolimitsManycores{countLimit: countLimit}
}

func (p *OverutilTwolimitsManycores) IsOverUtilized(s *Scheduler) bool {
	limit := p.countLimit
	if limit == 0 {
		limit = float64(len(s.cpus)) / 2
	}

	aboveLower := false
	count := 0
	for _, c := range s.cpus {
		load := s.Load(c)
		switch {
		case load >= 80:
			count++
			if float64(count) >= limit {
				p.wasOverUtilized = true
				return true
			}
			if p.wasOverUtilized {
				aboveLower = true
			}
		case p.wasOverUtilized && load >= 70:
			aboveLower = true
		}
	}
	if !aboveLower {
		p.wasOverUtilized = false
	}
	return aboveLower
}
