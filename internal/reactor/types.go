package reactor

import "math"

// Species indices into a State vector. All concentrations are mmol/L.
const (
	SpeciesCH4 = iota // dissolved methane (substrate)
	SpeciesMethanol   // oxidation intermediate
	SpeciesO2         // dissolved oxygen (co-substrate)
	SpeciesCount
)

// SpeciesNames maps state indices to short labels for output.
var SpeciesNames = [SpeciesCount]string{"ch4", "methanol", "o2"}

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// ClampNonNegative zeroes negative components in place. Concentrations
// below zero are integration artifacts, not physics.
func (s State) ClampNonNegative() {
	for i, v := range s {
		if v < 0 {
			s[i] = 0
		}
	}
}

// System is an autonomous ODE right-hand side dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator takes an error-controlled step. It returns the new
// state, the step size actually taken (<= dt) and a suggestion for the
// next step.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (next State, used, suggest float64, err error)
}

// Trajectory is the sampled solution of one simulation run. It is built
// once by the simulator and never mutated afterwards.
type Trajectory struct {
	Times  []float64
	States []State
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) Final() State {
	if len(tr.States) == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

// Series extracts the time series of one species.
func (tr *Trajectory) Series(species int) []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		if species < len(s) {
			out[i] = s[species]
		}
	}
	return out
}
