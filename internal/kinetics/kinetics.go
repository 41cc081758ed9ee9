package kinetics

import (
	"math"

	"github.com/celbio/methanosim/internal/params"
)

// Enzyme is the methane monooxygenase rate law, adjusted for temperature,
// osmolarity and expression level. All methods are pure; an Enzyme is
// fixed for the lifetime of one run.
type Enzyme struct {
	p params.Set
}

func NewEnzyme(p params.Set) *Enzyme {
	return &Enzyme{p: p}
}

// Vmax is the temperature-, expression- and biomass-scaled maximal rate,
// mmol·L⁻¹·s⁻¹:
//
//	Vmax_T = Vmax_ref · expr · scaling · exp(−Ea/R · (1/T − 1/T_ref)) · denat(T)
func (e *Enzyme) Vmax() float64 {
	c := e.p.Constants
	arr := math.Exp(-c.EaVmax / c.GasConstant * (1/e.p.TemperatureK() - 1/c.TRefK))
	v := e.p.VmaxRef * e.p.ExpressionFrac() * e.p.Scaling * arr
	if e.p.Denaturation {
		v *= denaturationPenalty(e.p.TemperatureC, e.p.DenatToptC, e.p.DenatSigmaC)
	}
	return v
}

// Km is the temperature-adjusted methane affinity constant, mmol/L:
//
//	Km_T = Km_ref · (1 + c·(T − 25))
//
// The linear drift can push Km_T to zero or below at very low temperatures;
// Rate treats that as a zero-rate boundary.
func (e *Enzyme) Km() float64 {
	return e.p.KmRef * (1 + e.p.Constants.KmTempCoeff*(e.p.TemperatureC-25))
}

// osmoticInhibition decays exponentially in the osmolarity fraction.
func (e *Enzyme) osmoticInhibition() float64 {
	return math.Exp(-e.p.Constants.OsmoticRateSensitivity * e.p.OsmolarityFrac())
}

// Rate is the instantaneous volumetric oxidation rate for the given
// dissolved methane and oxygen concentrations (mmol/L), via two-substrate
// saturation kinetics.
//
// Degenerate inputs (Km_T <= 0, negative concentrations) yield a rate of
// exactly 0: no substrate means no reaction. This is a boundary condition,
// not an error; invalid parameter sets are rejected at validation, before
// a rate is ever evaluated.
func (e *Enzyme) Rate(ch4, o2 float64) float64 {
	km := e.Km()
	if km <= 0 || ch4 < 0 || o2 < 0 {
		return 0
	}
	vmax := e.Vmax() * e.osmoticInhibition()
	kmO2 := e.p.Constants.KmO2
	return vmax * ch4 / (km + ch4) * o2 / (kmO2 + o2)
}

// denaturationPenalty saturates at 1 at or below the optimal temperature
// and decays as a Gaussian above it.
func denaturationPenalty(tempC, toptC, sigmaC float64) float64 {
	if tempC <= toptC {
		return 1
	}
	d := tempC - toptC
	return math.Exp(-d * d / (2 * sigmaC * sigmaC))
}

// DecayRate is the Arrhenius-scaled first-order turnover of the oxidation
// intermediate, s⁻¹.
func DecayRate(p params.Set) float64 {
	c := p.Constants
	return c.DecayRate * math.Exp(-c.EaDecay/c.GasConstant*(1/p.TemperatureK()-1/c.TRefK))
}
