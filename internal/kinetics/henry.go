package kinetics

import (
	"math"

	"github.com/celbio/methanosim/internal/params"
)

// GasExchange computes Henry's-law equilibria and conductance-scaled
// transfer flux for one dissolved gas species. Separate instances with
// their own solubility references and transfer coefficients serve the
// substrate and co-substrate gases.
type GasExchange struct {
	henryRef   float64 // mmol·L⁻¹·atm⁻¹ at T_ref
	vantHoff   float64 // K
	transfer   float64 // s⁻¹
	partialAtm float64 // partial pressure, atm
	tempK      float64
	tRefK      float64
	osmFrac    float64
	saltingOut float64
	condRatio  float64 // g_s / g_s_reference
}

// NewCH4Exchange builds the exchange model for atmospheric methane given
// in ppm.
func NewCH4Exchange(p params.Set) *GasExchange {
	c := p.Constants
	return &GasExchange{
		henryRef:   c.HenryCH4,
		vantHoff:   c.VantHoffCH4,
		transfer:   p.CH4Transfer,
		partialAtm: p.CH4PPM * 1e-6,
		tempK:      p.TemperatureK(),
		tRefK:      c.TRefK,
		osmFrac:    p.OsmolarityFrac(),
		saltingOut: c.SaltingOut,
		condRatio:  p.Conductance / c.ReferenceConductance,
	}
}

// NewO2Exchange builds the exchange model for atmospheric oxygen given
// as a percentage.
func NewO2Exchange(p params.Set) *GasExchange {
	c := p.Constants
	return &GasExchange{
		henryRef:   c.HenryO2,
		vantHoff:   c.VantHoffO2,
		transfer:   p.O2Transfer,
		partialAtm: p.O2Percent / 100,
		tempK:      p.TemperatureK(),
		tRefK:      c.TRefK,
		osmFrac:    p.OsmolarityFrac(),
		saltingOut: c.SaltingOut,
		condRatio:  p.Conductance / c.ReferenceConductance,
	}
}

// Solubility is the temperature- and osmolarity-corrected Henry constant,
// mmol·L⁻¹·atm⁻¹. Warm or salty cytosol holds less gas.
func (g *GasExchange) Solubility() float64 {
	temp := math.Exp(g.vantHoff * (1/g.tempK - 1/g.tRefK))
	salt := 1 - g.saltingOut*g.osmFrac
	if salt < 0 {
		salt = 0
	}
	return g.henryRef * temp * salt
}

// Equilibrium is the dissolved concentration in equilibrium with the
// atmosphere, mmol/L.
func (g *GasExchange) Equilibrium() float64 {
	return g.Solubility() * g.partialAtm
}

// Flux is the net influx for the current dissolved concentration,
// mmol·L⁻¹·s⁻¹: a linear relaxation toward equilibrium, modulated by the
// actual conductance relative to the reference.
//
//	J = k_transfer · (g_s / g_ref) · (C_eq − C)
func (g *GasExchange) Flux(current float64) float64 {
	return g.transfer * g.condRatio * (g.Equilibrium() - current)
}
