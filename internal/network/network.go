package network

import (
	"github.com/celbio/methanosim/internal/kinetics"
	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
)

// RateModel yields the instantaneous volumetric reaction rate for the
// current substrate and co-substrate concentrations.
type RateModel interface {
	Rate(ch4, o2 float64) float64
}

// GasModel yields the net dissolution flux for one gas species.
type GasModel interface {
	Flux(current float64) float64
	Equilibrium() float64
}

// Network is the three-species ODE right-hand side:
//
//	d[CH4]/dt      = J_CH4 − rate
//	d[CH3OH]/dt    = rate − k_decay·[CH3OH]
//	d[O2]/dt       = J_O2 − rate + production
//
// Derive is side-effect free and never clamps: non-negativity is enforced
// by the integrator between steps.
type Network struct {
	rate    RateModel
	ch4     GasModel
	o2      GasModel
	decay   float64 // s⁻¹, already temperature-scaled
	produce float64 // mmol·L⁻¹·s⁻¹, 0 unless photosynthesis is on
}

// New assembles the network with the standard strategies for p.
func New(p params.Set) *Network {
	produce := 0.0
	if p.Photosynthesis {
		produce = p.Constants.O2Production
	}
	return Assemble(
		kinetics.NewEnzyme(p),
		kinetics.NewCH4Exchange(p),
		kinetics.NewO2Exchange(p),
		kinetics.DecayRate(p),
		produce,
	)
}

// Assemble wires explicit strategy implementations. Tests and alternative
// rate laws plug in here.
func Assemble(rate RateModel, ch4, o2 GasModel, decay, produce float64) *Network {
	return &Network{rate: rate, ch4: ch4, o2: o2, decay: decay, produce: produce}
}

func (n *Network) StateDim() int { return reactor.SpeciesCount }

func (n *Network) Derive(x reactor.State, _ float64) reactor.State {
	ch4 := x[reactor.SpeciesCH4]
	meoh := x[reactor.SpeciesMethanol]
	o2 := x[reactor.SpeciesO2]

	rate := n.rate.Rate(ch4, o2)

	d := make(reactor.State, reactor.SpeciesCount)
	d[reactor.SpeciesCH4] = n.ch4.Flux(ch4) - rate
	d[reactor.SpeciesMethanol] = rate - n.decay*meoh
	d[reactor.SpeciesO2] = n.o2.Flux(o2) - rate + n.produce
	return d
}

// Equilibria returns the Henry's-law equilibrium concentrations used for
// initial conditions.
func (n *Network) Equilibria() (ch4, o2 float64) {
	return n.ch4.Equilibrium(), n.o2.Equilibrium()
}
