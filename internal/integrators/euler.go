package integrators

import "github.com/celbio/methanosim/internal/reactor"

// Euler is the forward Euler method. Kept for integrator comparisons only;
// it is unstable on the stiff regimes the reaction network produces.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) Step(sys reactor.System, x reactor.State, t, dt float64) reactor.State {
	dx := sys.Derive(x, t)
	next := make(reactor.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}
