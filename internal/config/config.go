// Package config defines eas-sim's YAML/env-driven configuration, loaded by
// the CLI's PersistentPreRunE the way github.com/guimove/clusterfit's
// internal/config does it: a Default() baseline, a (*Config).Validate()
// consistency pass, and viper-bound CLI flags layered on top.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level configuration for eas-sim.
type Config struct {
	Topology   TopologyConfig   `yaml:"topology"`
	LoadGen    LoadGenConfig    `yaml:"load_gen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Variants   VariantsConfig   `yaml:"variants"`
	Output     OutputConfig     `yaml:"output"`
	AWS        AWSConfig        `yaml:"aws"`
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
}

// TopologyConfig describes the synthetic CPU topology to simulate, per
// spec.md §6: counts of CPUs per performance-domain class.
type TopologyConfig struct {
	Little int `yaml:"little"`
	Middle int `yaml:"middle"`
	Big    int `yaml:"big"`
}

// LoadGenConfig mirrors spec.md §6's experiment parameters for the
// LoadGenerator.
type LoadGenConfig struct {
	RandomSeed      uint64  `yaml:"random_seed"`
	PickDistribInts int64   `yaml:"pick_distrib_ints"` // triangular peak
	MaxDistribInsts int64   `yaml:"max_distrib_insts"` // triangular high
	CreateTaskProb  float64 `yaml:"create_task_prob"`
}

// SimulationConfig controls tick granularity, run length, and repetition
// count for both a single `run` and a `compare` experiment.
type SimulationConfig struct {
	SchedTickPeriodMs int64 `yaml:"sched_tick_period_ms"`
	RunDurationMs     int64 `yaml:"run_duration_ms"`
	Repetitions       int   `yaml:"repetition"`
}

// VariantsConfig selects which scheduler variants a `compare` experiment
// runs against the EAS baseline, per spec.md §4.9.
type VariantsConfig struct {
	Names              []string `yaml:"names"`
	ManycoresThreshold int      `yaml:"manycores_threshold"` // 0 = len(cpus)/2
	CalibrateManycores bool     `yaml:"calibrate_manycores"`
}

// OutputConfig controls where a `compare` experiment's CSV results are
// written, per spec.md §6. Format is validated (csv or table) but no writer
// consults it.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// AWSConfig configures internal/catalog's EC2-derived topology construction.
type AWSConfig struct {
	Region   string `yaml:"region"`
	CacheDir string `yaml:"cache_dir"`
}

// KubernetesConfig configures internal/kube's live-cluster topology
// discovery and Pushgateway port-forwarding.
type KubernetesConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Kubeconfig         string `yaml:"kubeconfig"`
	Context            string `yaml:"context"`
	DiscoveryNamespace string `yaml:"discovery_namespace"`
	PushgatewayURL     string `yaml:"pushgateway_url"`
}

// Default returns a Config with sensible defaults: a four-little/two-
// middle/two-big topology, a deterministic seed, and a 60s run.
func Default() Config {
	return Config{
		Topology: TopologyConfig{Little: 4, Middle: 2, Big: 2},
		LoadGen: LoadGenConfig{
			RandomSeed:      42,
			PickDistribInts: 500,
			MaxDistribInsts: 2000,
			CreateTaskProb:  0.7,
		},
		Simulation: SimulationConfig{
			SchedTickPeriodMs: 1,
			RunDurationMs:     60_000,
			Repetitions:       5,
		},
		Variants: VariantsConfig{
			Names: []string{
				"OverutilDisabled",
				"OverutilManycores",
				"OverutilTwolimits",
				"OverutilTwolimitsManycores",
				"CorechoiceNextfit",
				"CorechoiceNextfitOverutilTwolimits",
			},
		},
		Output: OutputConfig{
			Dir:    "./results",
			Format: "csv",
		},
		AWS: AWSConfig{
			Region: "us-east-1",
		},
	}
}

// Validate checks the config for internal consistency.
func (c *Config) Validate() error {
	if c.Topology.Little+c.Topology.Middle+c.Topology.Big == 0 {
		return fmt.Errorf("topology must have at least one CPU across little/middle/big")
	}
	if c.LoadGen.CreateTaskProb < 0 || c.LoadGen.CreateTaskProb > 1 {
		return fmt.Errorf("load_gen.create_task_prob must be between 0 and 1, got %v", c.LoadGen.CreateTaskProb)
	}
	if c.LoadGen.MaxDistribInsts <= c.LoadGen.PickDistribInts {
		return fmt.Errorf("load_gen.max_distrib_insts (%d) must exceed pick_distrib_ints (%d)",
			c.LoadGen.MaxDistribInsts, c.LoadGen.PickDistribInts)
	}
	if c.Simulation.SchedTickPeriodMs <= 0 {
		return fmt.Errorf("simulation.sched_tick_period_ms must be positive, got %d", c.Simulation.SchedTickPeriodMs)
	}
	if c.Simulation.RunDurationMs <= 0 {
		return fmt.Errorf("simulation.run_duration_ms must be positive, got %d", c.Simulation.RunDurationMs)
	}
	if c.Simulation.Repetitions <= 0 {
		c.Simulation.Repetitions = 1
	}
	validFormats := map[string]bool{"csv": true, "table": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be csv or table, got %q", c.Output.Format)
	}
	return nil
}

// Ticks returns the number of scheduler ticks a run of this duration
// executes, derived from RunDurationMs / SchedTickPeriodMs.
func (c *Config) Ticks() int64 {
	return c.Simulation.RunDurationMs / c.Simulation.SchedTickPeriodMs
}

// TickDuration is SchedTickPeriodMs as a time.Duration, used only for
// human-readable reporting (the simulator itself never consults wall time).
func (c *Config) TickDuration() time.Duration {
	return time.Duration(c.Simulation.SchedTickPeriodMs) * time.Millisecond
}
