package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/celbio/methanosim/internal/network"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
)

// Config holds the solver settings for one run.
type Config struct {
	Horizon   float64 // simulated time, s
	Samples   int     // trajectory sample count (excluding t=0)
	Tolerance float64 // adaptive error tolerance
	InitialDt float64 // first step attempt, s
	MinDt     float64 // driver-level floor before declaring failure, s
	MaxDt     float64 // cap on step growth, s
}

func DefaultConfig() Config {
	return Config{
		Horizon:   600,
		Samples:   400,
		Tolerance: 1e-8,
		InitialDt: 0.1,
		MinDt:     1e-10,
		MaxDt:     5.0,
	}
}

func (c Config) validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %g", c.Horizon)
	}
	if c.Samples < 1 {
		return fmt.Errorf("samples must be >= 1, got %d", c.Samples)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.InitialDt <= 0 || c.MinDt <= 0 || c.MaxDt < c.MinDt {
		return fmt.Errorf("step bounds invalid: initial=%g min=%g max=%g", c.InitialDt, c.MinDt, c.MaxDt)
	}
	return nil
}

// Simulator advances a reaction network over a fixed horizon and samples
// the trajectory. A Simulator is not safe for concurrent use; sweeps
// create one per worker.
type Simulator struct {
	integ reactor.Integrator
}

func New(integ reactor.Integrator) *Simulator {
	return &Simulator{integ: integ}
}

// InitialState derives the starting concentrations: dissolved gases begin
// at their Henry's-law equilibria for the given atmosphere, and the
// intermediate at a small positive seed.
func InitialState(p params.Set) reactor.State {
	net := network.New(p)
	ch4, o2 := net.Equilibria()
	x := make(reactor.State, reactor.SpeciesCount)
	x[reactor.SpeciesCH4] = ch4
	x[reactor.SpeciesMethanol] = p.Constants.MethanolSeed
	x[reactor.SpeciesO2] = o2
	return x
}

// Simulate validates p, assembles the reaction network and integrates from
// the derived initial state.
func (s *Simulator) Simulate(ctx context.Context, p params.Set, cfg Config) (*reactor.Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.run(ctx, network.New(p), InitialState(p), cfg)
}

// SimulateFrom is Simulate with explicit initial concentrations, for
// scenarios that do not start at atmospheric equilibrium.
func (s *Simulator) SimulateFrom(ctx context.Context, p params.Set, x0 reactor.State, cfg Config) (*reactor.Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != reactor.SpeciesCount {
		return nil, fmt.Errorf("initial state has %d components, want %d", len(x0), reactor.SpeciesCount)
	}
	return s.run(ctx, network.New(p), x0.Clone(), cfg)
}

// run marches the integrator to each sample time. On solver failure it
// returns an IntegrationError and no trajectory; a partial or fabricated
// trajectory must never escape, sweep callers record the failure and move
// on.
func (s *Simulator) run(ctx context.Context, sys reactor.System, x0 reactor.State, cfg Config) (*reactor.Trajectory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tr := &reactor.Trajectory{
		Times:  make([]float64, 0, cfg.Samples+1),
		States: make([]reactor.State, 0, cfg.Samples+1),
	}

	x := x0.Clone()
	x.ClampNonNegative()
	t := 0.0
	dt := cfg.InitialDt

	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())

	adaptive, _ := s.integ.(reactor.AdaptiveIntegrator)

	for i := 1; i <= cfg.Samples; i++ {
		target := cfg.Horizon * float64(i) / float64(cfg.Samples)

		for t < target {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			h := math.Min(dt, target-t)

			var next reactor.State
			if adaptive != nil {
				var used, suggest float64
				var err error
				next, used, suggest, err = adaptive.StepAdaptive(sys, x, t, h, cfg.Tolerance)
				if err != nil {
					return nil, &reactor.IntegrationError{Time: t, Wrapped: err}
				}
				t += used
				dt = math.Min(math.Max(suggest, cfg.MinDt), cfg.MaxDt)
			} else {
				next = s.integ.Step(sys, x, t, h)
				t += h
			}

			if !next.IsValid() {
				return nil, &reactor.IntegrationError{Time: t, Wrapped: reactor.ErrInvalidState}
			}
			next.ClampNonNegative()
			x = next
		}

		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x.Clone())
	}

	return tr, nil
}
