package params

import (
	"fmt"

	"github.com/celbio/methanosim/internal/reactor"
)

// AbsoluteZeroC is the lower bound for temperature inputs.
const AbsoluteZeroC = -273.15

// Set is an immutable snapshot of all physical and biological inputs for
// one simulation run. It is passed by value everywhere; sweeps derive
// copies via With and never touch the base.
type Set struct {
	// Environmental
	CH4PPM        float64 `yaml:"ch4_ppm"`        // atmospheric methane, ppm
	O2Percent     float64 `yaml:"o2_percent"`     // atmospheric oxygen fraction, %
	TemperatureC  float64 `yaml:"temperature_c"`  // °C
	Conductance   float64 `yaml:"conductance"`    // mol·m⁻²·s⁻¹
	CH4Transfer   float64 `yaml:"ch4_transfer"`   // mass-transfer coefficient, s⁻¹
	O2Transfer    float64 `yaml:"o2_transfer"`    // mass-transfer coefficient, s⁻¹
	OsmolarityPct float64 `yaml:"osmolarity_pct"` // cytosolic osmolarity, %

	// Enzyme
	VmaxRef       float64 `yaml:"vmax_ref"`       // mmol·L⁻¹·s⁻¹
	KmRef         float64 `yaml:"km_ref"`         // mmol/L
	ExpressionPct float64 `yaml:"expression_pct"` // fractional enzyme expression, %
	Denaturation  bool    `yaml:"denaturation"`   // thermal denaturation penalty active
	DenatToptC    float64 `yaml:"denat_topt_c"`   // optimal temperature, °C
	DenatSigmaC   float64 `yaml:"denat_sigma_c"`  // Gaussian width above optimum, °C

	// Structural
	Scaling float64 `yaml:"scaling"` // biomass / cytosol-fraction multiplier

	// Flags
	Photosynthesis bool `yaml:"photosynthesis"` // exogenous O2 source active

	Constants Constants `yaml:"constants"`
}

// Default returns the baseline ambient-atmosphere scenario.
func Default() Set {
	return Set{
		CH4PPM:         1.8,
		O2Percent:      21,
		TemperatureC:   25,
		Conductance:    0.2,
		CH4Transfer:    0.01,
		O2Transfer:     0.01,
		OsmolarityPct:  1.0,
		VmaxRef:        0.01,
		KmRef:          0.001,
		ExpressionPct:  1.0,
		DenatToptC:     30,
		DenatSigmaC:    8,
		Scaling:        1.0,
		Photosynthesis: false,
		Constants:      DefaultConstants(),
	}
}

func (s Set) TemperatureK() float64 { return s.TemperatureC + 273.15 }

// OsmolarityFrac converts the percent field to a fraction.
func (s Set) OsmolarityFrac() float64 { return s.OsmolarityPct / 100 }

// ExpressionFrac converts the percent field to a fraction.
func (s Set) ExpressionFrac() float64 { return s.ExpressionPct / 100 }

// Validate checks every field against its physical bound. Invalid sets are
// rejected, never clamped. The first offending field is reported.
func (s Set) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"ch4_ppm", s.CH4PPM},
		{"o2_percent", s.O2Percent},
		{"conductance", s.Conductance},
		{"ch4_transfer", s.CH4Transfer},
		{"o2_transfer", s.O2Transfer},
		{"vmax_ref", s.VmaxRef},
		{"km_ref", s.KmRef},
		{"scaling", s.Scaling},
	}
	for _, f := range positive {
		if !(f.value > 0) {
			return &reactor.ParameterError{Field: f.name, Value: f.value, Reason: "must be > 0"}
		}
	}
	if s.O2Percent > 100 {
		return &reactor.ParameterError{Field: "o2_percent", Value: s.O2Percent, Reason: "must be <= 100"}
	}
	if s.TemperatureC <= AbsoluteZeroC {
		return &reactor.ParameterError{Field: "temperature_c", Value: s.TemperatureC, Reason: fmt.Sprintf("must be > %g", AbsoluteZeroC)}
	}
	if s.OsmolarityPct < 0 {
		return &reactor.ParameterError{Field: "osmolarity_pct", Value: s.OsmolarityPct, Reason: "must be >= 0"}
	}
	if s.ExpressionPct < 0 {
		return &reactor.ParameterError{Field: "expression_pct", Value: s.ExpressionPct, Reason: "must be >= 0"}
	}
	if s.Denaturation {
		if s.DenatSigmaC <= 0 {
			return &reactor.ParameterError{Field: "denat_sigma_c", Value: s.DenatSigmaC, Reason: "must be > 0"}
		}
		if s.DenatToptC <= AbsoluteZeroC {
			return &reactor.ParameterError{Field: "denat_topt_c", Value: s.DenatToptC, Reason: fmt.Sprintf("must be > %g", AbsoluteZeroC)}
		}
	}
	return s.validateConstants()
}

func (s Set) validateConstants() error {
	c := s.Constants
	positive := []struct {
		name  string
		value float64
	}{
		{"constants.gas_constant", c.GasConstant},
		{"constants.t_ref_k", c.TRefK},
		{"constants.ea_vmax", c.EaVmax},
		{"constants.ea_decay", c.EaDecay},
		{"constants.km_o2", c.KmO2},
		{"constants.henry_ch4", c.HenryCH4},
		{"constants.henry_o2", c.HenryO2},
		{"constants.vant_hoff_ch4", c.VantHoffCH4},
		{"constants.vant_hoff_o2", c.VantHoffO2},
		{"constants.reference_conductance", c.ReferenceConductance},
		{"constants.decay_rate", c.DecayRate},
		{"constants.methanol_seed", c.MethanolSeed},
	}
	for _, f := range positive {
		if !(f.value > 0) {
			return &reactor.ParameterError{Field: f.name, Value: f.value, Reason: "must be > 0"}
		}
	}
	if c.KmTempCoeff < 0 {
		return &reactor.ParameterError{Field: "constants.km_temp_coeff", Value: c.KmTempCoeff, Reason: "must be >= 0"}
	}
	if c.OsmoticRateSensitivity < 0 {
		return &reactor.ParameterError{Field: "constants.osmotic_rate_sensitivity", Value: c.OsmoticRateSensitivity, Reason: "must be >= 0"}
	}
	if c.SaltingOut < 0 || c.SaltingOut >= 1 {
		return &reactor.ParameterError{Field: "constants.salting_out", Value: c.SaltingOut, Reason: "must be in [0, 1)"}
	}
	if c.O2Production < 0 {
		return &reactor.ParameterError{Field: "constants.o2_production", Value: c.O2Production, Reason: "must be >= 0"}
	}
	return nil
}

// With returns a re-validated copy of s with exactly one registered field
// overridden. The receiver is never mutated.
func (s Set) With(field string, value float64) (Set, error) {
	f, ok := Lookup(field)
	if !ok {
		return Set{}, fmt.Errorf("unknown parameter %q", field)
	}
	derived := s
	f.set(&derived, value)
	if err := derived.Validate(); err != nil {
		return Set{}, err
	}
	return derived, nil
}
