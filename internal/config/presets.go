package config

import (
	"sort"

	"github.com/celbio/methanosim/internal/params"
)

// Presets are named starting scenarios. Each builds a fresh Config so
// callers can mutate the result freely.
var presets = map[string]func() *Config{
	// ambient: present-day atmosphere, mesophilic enzyme.
	"ambient": func() *Config {
		return DefaultConfig()
	},
	// greenhouse: elevated methane, warm canopy, photosynthetic O2 on.
	"greenhouse": func() *Config {
		cfg := DefaultConfig()
		cfg.Parameters.CH4PPM = 10
		cfg.Parameters.TemperatureC = 32
		cfg.Parameters.Photosynthesis = true
		return cfg
	},
	// thermophile: hot spring conditions, denaturation penalty active.
	"thermophile": func() *Config {
		cfg := DefaultConfig()
		cfg.Parameters.TemperatureC = 42
		cfg.Parameters.Denaturation = true
		cfg.Parameters.DenatToptC = 38
		cfg.Parameters.DenatSigmaC = 5
		cfg.Parameters.ExpressionPct = 5
		return cfg
	},
	// hypersaline: strong osmotic inhibition and salting-out.
	"hypersaline": func() *Config {
		cfg := DefaultConfig()
		cfg.Parameters.OsmolarityPct = 8
		cfg.Parameters.ExpressionPct = 2
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetParameters is a convenience for callers that only need the
// parameter snapshot.
func PresetParameters(name string) (params.Set, bool) {
	cfg := GetPreset(name)
	if cfg == nil {
		return params.Set{}, false
	}
	return cfg.Parameters, true
}
