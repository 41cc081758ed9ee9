package params

// Constants collects the empirical and literature values the model depends
// on. Published sources disagree on several of them (Henry references,
// Km for O2, denaturation widths), so they ride along inside every Set as
// overridable defaults instead of being hard-coded.
type Constants struct {
	// GasConstant is R in J·mol⁻¹·K⁻¹.
	GasConstant float64 `yaml:"gas_constant"`
	// TRefK is the reference temperature for all Arrhenius and van 't Hoff
	// corrections, in kelvin (25 °C).
	TRefK float64 `yaml:"t_ref_k"`

	// EaVmax is the activation energy of the monooxygenase reaction, J/mol.
	EaVmax float64 `yaml:"ea_vmax"`
	// EaDecay is the activation energy of intermediate turnover, J/mol.
	EaDecay float64 `yaml:"ea_decay"`
	// KmTempCoeff is the linear drift of Km with temperature, per °C above 25.
	KmTempCoeff float64 `yaml:"km_temp_coeff"`
	// KmO2 is the oxygen half-saturation constant, mmol/L. Fixed literature
	// value, distinct from the sweepable KmRef.
	KmO2 float64 `yaml:"km_o2"`
	// OsmoticRateSensitivity is the e-folding constant of enzymatic
	// inhibition per unit osmolarity fraction.
	OsmoticRateSensitivity float64 `yaml:"osmotic_rate_sensitivity"`
	// SaltingOut is the linear solubility loss per unit osmolarity fraction.
	SaltingOut float64 `yaml:"salting_out"`

	// HenryCH4 and HenryO2 are solubilities at TRefK in mmol·L⁻¹·atm⁻¹.
	HenryCH4 float64 `yaml:"henry_ch4"`
	HenryO2  float64 `yaml:"henry_o2"`
	// VantHoffCH4 and VantHoffO2 are the temperature-correction enthalpy
	// coefficients (−ΔH/R) in kelvin.
	VantHoffCH4 float64 `yaml:"vant_hoff_ch4"`
	VantHoffO2  float64 `yaml:"vant_hoff_o2"`

	// ReferenceConductance normalizes the stomatal/membrane conductance
	// term, mol·m⁻²·s⁻¹.
	ReferenceConductance float64 `yaml:"reference_conductance"`
	// DecayRate is the first-order intermediate turnover at TRefK, s⁻¹.
	DecayRate float64 `yaml:"decay_rate"`
	// O2Production is the exogenous (photosynthetic) oxygen source,
	// mmol·L⁻¹·s⁻¹, applied only when the production flag is set.
	O2Production float64 `yaml:"o2_production"`
	// MethanolSeed is the initial intermediate concentration, mmol/L.
	// Small and positive; an exact zero produces removable-singularity
	// artifacts in downstream rate ratios.
	MethanolSeed float64 `yaml:"methanol_seed"`
}

func DefaultConstants() Constants {
	return Constants{
		GasConstant:            8.314,
		TRefK:                  298.15,
		EaVmax:                 60000,
		EaDecay:                45000,
		KmTempCoeff:            0.02,
		KmO2:                   0.002,
		OsmoticRateSensitivity: 2.0,
		SaltingOut:             0.3,
		HenryCH4:               1.4,
		HenryO2:                1.3,
		VantHoffCH4:            1700,
		VantHoffO2:             1500,
		ReferenceConductance:   0.2,
		DecayRate:              0.05,
		O2Production:           1e-5,
		MethanolSeed:           1e-6,
	}
}
