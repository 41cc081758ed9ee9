package sim

import (
	"fmt"
	"sort"

	"github.com/celbio/methanosim/internal/integrators"
	"github.com/celbio/methanosim/internal/reactor"
)

var integratorFactories = map[string]func() reactor.Integrator{
	"euler": func() reactor.Integrator { return integrators.NewEuler() },
	"rk4":   func() reactor.Integrator { return integrators.NewRK4() },
	"rk45":  func() reactor.Integrator { return integrators.NewRK45() },
}

// GetIntegrator looks up a stepper by name. Every call returns a fresh
// instance; integrators carry scratch state and must not be shared.
func GetIntegrator(name string) (reactor.Integrator, error) {
	fn, ok := integratorFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func ListIntegrators() []string {
	names := make([]string, 0, len(integratorFactories))
	for name := range integratorFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
