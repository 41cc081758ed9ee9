package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/sim"
)

// Config is one run file: the parameter snapshot plus solver and sweep
// settings. CLI flags override config values, which override presets.
type Config struct {
	Parameters params.Set   `yaml:"parameters"`
	Solver     SolverConfig `yaml:"solver"`
	Sweep      SweepConfig  `yaml:"sweep"`
}

type SolverConfig struct {
	Integrator string  `yaml:"integrator"`
	Horizon    float64 `yaml:"horizon"`
	Samples    int     `yaml:"samples"`
	Tolerance  float64 `yaml:"tolerance"`
}

type SweepConfig struct {
	Parameter string  `yaml:"parameter"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Points    int     `yaml:"points"`
	Workers   int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	solver := sim.DefaultConfig()
	return &Config{
		Parameters: params.Default(),
		Solver: SolverConfig{
			Integrator: "rk45",
			Horizon:    solver.Horizon,
			Samples:    solver.Samples,
			Tolerance:  solver.Tolerance,
		},
		Sweep: SweepConfig{
			Parameter: "km_ref",
			Min:       1e-6,
			Max:       0.1,
			Points:    25,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig converts the solver section to the simulator's config,
// keeping the step bounds at their defaults.
func (c *Config) SimConfig() sim.Config {
	out := sim.DefaultConfig()
	if c.Solver.Horizon > 0 {
		out.Horizon = c.Solver.Horizon
	}
	if c.Solver.Samples > 0 {
		out.Samples = c.Solver.Samples
	}
	if c.Solver.Tolerance > 0 {
		out.Tolerance = c.Solver.Tolerance
	}
	return out
}
