package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/celbio/methanosim/internal/reactor"
)

type exponentialDecay struct{}

func (e *exponentialDecay) StateDim() int { return 1 }

func (e *exponentialDecay) Derive(x reactor.State, t float64) reactor.State {
	return reactor.State{-x[0]}
}

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x reactor.State, t float64) reactor.State {
	return reactor.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x reactor.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// stiffSpike has a derivative that grows sharply toward t=1, forcing step
// rejection.
type stiffSpike struct{}

func (s *stiffSpike) StateDim() int { return 1 }

func (s *stiffSpike) Derive(x reactor.State, t float64) reactor.State {
	return reactor.State{1 / ((t - 1) * (t - 1))}
}

// noisySystem alternates a huge derivative sign on every evaluation, so no
// step size can ever meet the tolerance.
type noisySystem struct{ calls int }

func (s *noisySystem) StateDim() int { return 1 }

func (s *noisySystem) Derive(x reactor.State, t float64) reactor.State {
	s.calls++
	if s.calls%2 == 0 {
		return reactor.State{1e6}
	}
	return reactor.State{-1e6}
}

func TestEuler_Step(t *testing.T) {
	integ := NewEuler()
	x := reactor.State{1.0}
	x = integ.Step(&exponentialDecay{}, x, 0, 0.1)

	if math.Abs(x[0]-0.9) > 1e-12 {
		t.Errorf("expected 0.9, got %f", x[0])
	}
}

func TestRK4_ExponentialDecay(t *testing.T) {
	integ := NewRK4()
	x := reactor.State{1.0}
	dt := 0.01

	for i := 0; i < 100; i++ {
		x = integ.Step(&exponentialDecay{}, x, float64(i)*dt, dt)
	}

	expected := math.Exp(-1.0)
	if math.Abs(x[0]-expected) > 1e-8 {
		t.Errorf("expected %.10f, got %.10f", expected, x[0])
	}
}

func TestRK45_ExponentialDecay(t *testing.T) {
	integ := NewRK45()
	sys := &exponentialDecay{}
	x := reactor.State{1.0}

	tNow := 0.0
	dt := 0.1
	for tNow < 1.0 {
		h := math.Min(dt, 1.0-tNow)
		next, used, suggest, err := integ.StepAdaptive(sys, x, tNow, h, 1e-10)
		if err != nil {
			t.Fatalf("StepAdaptive failed at t=%f: %v", tNow, err)
		}
		x = next
		tNow += used
		dt = suggest
	}

	expected := math.Exp(-1.0)
	if math.Abs(x[0]-expected) > 1e-8 {
		t.Errorf("expected %.10f, got %.10f", expected, x[0])
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integ := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := reactor.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("energy drift too high: %e", drift)
	}
}

func TestRK45_SuggestsLargerStep(t *testing.T) {
	integ := NewRK45()
	x := reactor.State{1.0}

	next, used, suggest, err := integ.StepAdaptive(&exponentialDecay{}, x, 0, 0.001, 1e-8)
	if err != nil {
		t.Fatalf("StepAdaptive returned error: %v", err)
	}
	if !next.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if used != 0.001 {
		t.Errorf("expected the easy step to be accepted as-is, used=%g", used)
	}
	if suggest <= used {
		t.Errorf("expected growth suggestion, got %g <= %g", suggest, used)
	}
}

func TestRK45_ShrinksOnRejection(t *testing.T) {
	integ := NewRK45()
	x := reactor.State{0.0}

	// a large first step near the spike must be rejected and retried
	next, used, _, err := integ.StepAdaptive(&stiffSpike{}, x, 0.9, 0.05, 1e-10)
	if err != nil {
		t.Fatalf("StepAdaptive failed: %v", err)
	}
	if used >= 0.05 {
		t.Errorf("expected the step to shrink below 0.05, used=%g", used)
	}
	if !next.IsValid() {
		t.Error("accepted state invalid")
	}
}

func TestRK45_StepTooSmall(t *testing.T) {
	integ := NewRK45()
	x := reactor.State{0.0}

	_, _, _, err := integ.StepAdaptive(&noisySystem{}, x, 0, 0.1, 1e-8)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, reactor.ErrStepTooSmall) {
		t.Errorf("expected ErrStepTooSmall, got %v", err)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := reactor.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(dyn, x4, float64(i)*dt, dt)
		x45 = rk45.Step(dyn, x45, float64(i)*dt, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Log("Warning: RK45 not more accurate than RK4 for this case")
	}
}
