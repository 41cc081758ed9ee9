package params

// Field describes one sweepable parameter: how to read and override it on
// a Set, and a default physiological range for multi-parameter sweeps.
type Field struct {
	Name string
	Unit string
	Min  float64
	Max  float64
	Get  func(Set) float64
	set  func(*Set, float64)
}

var fields = []Field{
	{
		Name: "ch4_ppm", Unit: "ppm", Min: 0.5, Max: 100,
		Get: func(s Set) float64 { return s.CH4PPM },
		set: func(s *Set, v float64) { s.CH4PPM = v },
	},
	{
		Name: "o2_percent", Unit: "%", Min: 1, Max: 30,
		Get: func(s Set) float64 { return s.O2Percent },
		set: func(s *Set, v float64) { s.O2Percent = v },
	},
	{
		Name: "temperature_c", Unit: "°C", Min: 5, Max: 45,
		Get: func(s Set) float64 { return s.TemperatureC },
		set: func(s *Set, v float64) { s.TemperatureC = v },
	},
	{
		Name: "conductance", Unit: "mol·m⁻²·s⁻¹", Min: 0.01, Max: 1.0,
		Get: func(s Set) float64 { return s.Conductance },
		set: func(s *Set, v float64) { s.Conductance = v },
	},
	{
		Name: "ch4_transfer", Unit: "s⁻¹", Min: 0.001, Max: 0.1,
		Get: func(s Set) float64 { return s.CH4Transfer },
		set: func(s *Set, v float64) { s.CH4Transfer = v },
	},
	{
		Name: "o2_transfer", Unit: "s⁻¹", Min: 0.001, Max: 0.1,
		Get: func(s Set) float64 { return s.O2Transfer },
		set: func(s *Set, v float64) { s.O2Transfer = v },
	},
	{
		Name: "osmolarity_pct", Unit: "%", Min: 0, Max: 10,
		Get: func(s Set) float64 { return s.OsmolarityPct },
		set: func(s *Set, v float64) { s.OsmolarityPct = v },
	},
	{
		Name: "vmax_ref", Unit: "mmol·L⁻¹·s⁻¹", Min: 0.001, Max: 0.1,
		Get: func(s Set) float64 { return s.VmaxRef },
		set: func(s *Set, v float64) { s.VmaxRef = v },
	},
	{
		Name: "km_ref", Unit: "mmol/L", Min: 1e-6, Max: 0.1,
		Get: func(s Set) float64 { return s.KmRef },
		set: func(s *Set, v float64) { s.KmRef = v },
	},
	{
		Name: "expression_pct", Unit: "%", Min: 0, Max: 20,
		Get: func(s Set) float64 { return s.ExpressionPct },
		set: func(s *Set, v float64) { s.ExpressionPct = v },
	},
	{
		Name: "scaling", Unit: "", Min: 0.1, Max: 10,
		Get: func(s Set) float64 { return s.Scaling },
		set: func(s *Set, v float64) { s.Scaling = v },
	},
}

// Fields returns the sweepable parameter registry in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names lists the registered parameter names in declaration order.
func Names() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
