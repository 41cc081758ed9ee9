package sweep

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/celbio/methanosim/internal/metrics"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/sim"
)

// Point is one grid point of a sweep. A failed point carries its error and
// zero-valued metrics; it never aborts the rest of the sweep.
type Point struct {
	Value   float64
	Metrics metrics.Derived
	Err     error
}

// Result is an ordered single-parameter sweep: Points follow the sweep
// grid order, not rate order.
type Result struct {
	Param  string
	Points []Point
}

// FinalRates extracts the rate series; failed points report 0.
func (r Result) FinalRates() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		if p.Err == nil {
			out[i] = p.Metrics.FinalRate
		}
	}
	return out
}

// Failed counts grid points that did not produce a trajectory.
func (r Result) Failed() int {
	n := 0
	for _, p := range r.Points {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Analyzer re-runs the full simulation pipeline across parameter grids.
// Grid points are independent: each derives its own parameter set from the
// base and integrates with its own simulator instance.
type Analyzer struct {
	newIntegrator func() (*sim.Simulator, error)
	cfg           sim.Config
	workers       int

	// OnPoint, if set, is called after each completed grid point with the
	// parameter name, point index and grid size. Called from pool
	// goroutines; implementations must be safe for concurrent use.
	OnPoint func(param string, index, total int, pt Point)
}

// New builds an analyzer running the named integrator with the given
// solver config. Workers defaults to GOMAXPROCS.
func New(integrator string, cfg sim.Config) (*Analyzer, error) {
	// fail fast on a bad name instead of inside the pool
	if _, err := sim.GetIntegrator(integrator); err != nil {
		return nil, err
	}
	return &Analyzer{
		newIntegrator: func() (*sim.Simulator, error) {
			integ, err := sim.GetIntegrator(integrator)
			if err != nil {
				return nil, err
			}
			return sim.New(integ), nil
		},
		cfg:     cfg,
		workers: runtime.GOMAXPROCS(0),
	}, nil
}

// SetWorkers bounds the sweep pool. Values < 1 reset to GOMAXPROCS.
func (a *Analyzer) SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	a.workers = n
}

// Range builds a uniform grid over [min, max]. A single-point range
// (n == 1 or min == max) collapses to exactly [min].
func Range(min, max float64, n int) []float64 {
	if n <= 1 || min == max {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

// Sweep runs the pipeline once per grid value, holding every other field
// at base. Point errors (invalid derivation, integration failure) are
// recorded in place; only an unknown parameter name or context
// cancellation fails the sweep itself. On cancellation the points
// completed so far are returned and remain valid.
func (a *Analyzer) Sweep(ctx context.Context, base params.Set, param string, values []float64) (Result, error) {
	if _, ok := params.Lookup(param); !ok {
		return Result{}, fmt.Errorf("unknown parameter %q", param)
	}
	if err := base.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Param: param, Points: make([]Point, len(values))}
	for i, v := range values {
		res.Points[i].Value = v
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, v := range values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Points[i] = a.runPoint(gctx, base, param, v)
			if a.OnPoint != nil {
				a.OnPoint(param, i, len(values), res.Points[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func (a *Analyzer) runPoint(ctx context.Context, base params.Set, param string, value float64) Point {
	pt := Point{Value: value}

	derived, err := base.With(param, value)
	if err != nil {
		pt.Err = err
		return pt
	}

	simulator, err := a.newIntegrator()
	if err != nil {
		pt.Err = err
		return pt
	}

	tr, err := simulator.Simulate(ctx, derived, a.cfg)
	if err != nil {
		pt.Err = err
		return pt
	}

	pt.Metrics = metrics.FromTrajectory(derived, tr)
	return pt
}
