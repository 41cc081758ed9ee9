// Package metrics reduces a completed trajectory to scalar summary
// quantities.
package metrics

import (
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/celbio/methanosim/internal/kinetics"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
)

// lateWindowFrac is the trailing fraction of samples used for the
// steady-state variance proxy.
const lateWindowFrac = 0.2

// steadyTol is the late-window variance below which a run is considered
// settled.
const steadyTol = 1e-10

// Derived is the scalar report of one run. It has no identity of its own:
// computed once from a trajectory, then carried around by value.
type Derived struct {
	FinalRate     float64       `json:"final_rate"`      // mmol·L⁻¹·s⁻¹
	FinalState    reactor.State `json:"final_state"`     // mmol/L
	CH4Uptake     float64       `json:"ch4_uptake"`      // ∫J_CH4 dt, mmol/L
	O2Uptake      float64       `json:"o2_uptake"`       // ∫J_O2 dt, mmol/L
	LateVariance  float64       `json:"late_variance"`   // var of rate over the late window
	SteadyState   bool          `json:"steady_state"`    // LateVariance < steadyTol
	MeanLateRate  float64       `json:"mean_late_rate"`  // mmol·L⁻¹·s⁻¹
	PeakMethanol  float64       `json:"peak_methanol"`   // mmol/L
}

// FromTrajectory recomputes rate and flux series from the sampled states
// (both are pure functions of the parameter set) and integrates them over
// the horizon with the trapezoid rule.
func FromTrajectory(p params.Set, tr *reactor.Trajectory) Derived {
	n := tr.Len()
	if n == 0 {
		return Derived{}
	}

	enzyme := kinetics.NewEnzyme(p)
	ch4Ex := kinetics.NewCH4Exchange(p)
	o2Ex := kinetics.NewO2Exchange(p)

	rates := make([]float64, n)
	ch4Flux := make([]float64, n)
	o2Flux := make([]float64, n)
	peakMeoh := 0.0
	for i, s := range tr.States {
		rates[i] = enzyme.Rate(s[reactor.SpeciesCH4], s[reactor.SpeciesO2])
		ch4Flux[i] = ch4Ex.Flux(s[reactor.SpeciesCH4])
		o2Flux[i] = o2Ex.Flux(s[reactor.SpeciesO2])
		if s[reactor.SpeciesMethanol] > peakMeoh {
			peakMeoh = s[reactor.SpeciesMethanol]
		}
	}

	d := Derived{
		FinalRate:    rates[n-1],
		FinalState:   tr.Final().Clone(),
		PeakMethanol: peakMeoh,
	}
	if n > 1 {
		d.CH4Uptake = integrate.Trapezoidal(tr.Times, ch4Flux)
		d.O2Uptake = integrate.Trapezoidal(tr.Times, o2Flux)
	}

	tail := int(float64(n) * lateWindowFrac)
	if tail < 2 {
		tail = n
	}
	late := rates[n-tail:]
	d.LateVariance = stat.Variance(late, nil)
	d.MeanLateRate = stat.Mean(late, nil)
	d.SteadyState = d.LateVariance < steadyTol

	return d
}
