package network

import (
	"testing"

	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
)

// constRate and constGas pin the strategies so derivative structure can be
// checked against hand arithmetic.
type constRate struct{ r float64 }

func (c constRate) Rate(ch4, o2 float64) float64 { return c.r }

type constGas struct{ flux, eq float64 }

func (c constGas) Flux(current float64) float64 { return c.flux }
func (c constGas) Equilibrium() float64         { return c.eq }

func TestDeriveStructure(t *testing.T) {
	net := Assemble(constRate{r: 2}, constGas{flux: 5}, constGas{flux: 7}, 0.5, 0.25)

	x := reactor.State{1, 4, 9}
	d := net.Derive(x, 0)

	// d[CH4] = 5 - 2, d[MeOH] = 2 - 0.5*4, d[O2] = 7 - 2 + 0.25
	if d[reactor.SpeciesCH4] != 3 {
		t.Errorf("expected dCH4 3, got %g", d[reactor.SpeciesCH4])
	}
	if d[reactor.SpeciesMethanol] != 0 {
		t.Errorf("expected dMeOH 0, got %g", d[reactor.SpeciesMethanol])
	}
	if d[reactor.SpeciesO2] != 5.25 {
		t.Errorf("expected dO2 5.25, got %g", d[reactor.SpeciesO2])
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	net := New(params.Default())
	x := reactor.State{1e-6, 1e-6, 0.2}
	before := x.Clone()

	_ = net.Derive(x, 0)
	_ = net.Derive(x, 10)

	for i := range x {
		if x[i] != before[i] {
			t.Fatalf("input state mutated at %d: %g != %g", i, x[i], before[i])
		}
	}
}

func TestDeriveNeverClamps(t *testing.T) {
	// a pure sink must be allowed to report a negative derivative
	net := Assemble(constRate{r: 1}, constGas{}, constGas{}, 0.1, 0)
	d := net.Derive(reactor.State{1, 1, 1}, 0)
	if d[reactor.SpeciesCH4] >= 0 {
		t.Errorf("expected negative dCH4, got %g", d[reactor.SpeciesCH4])
	}
}

func TestStateDim(t *testing.T) {
	if dim := New(params.Default()).StateDim(); dim != reactor.SpeciesCount {
		t.Errorf("expected %d, got %d", reactor.SpeciesCount, dim)
	}
}

func TestPhotosynthesisAddsO2(t *testing.T) {
	p := params.Default()
	off := New(p)

	p.Photosynthesis = true
	on := New(p)

	x := reactor.State{1e-6, 0, 0.2}
	dOff := off.Derive(x, 0)
	dOn := on.Derive(x, 0)

	gain := dOn[reactor.SpeciesO2] - dOff[reactor.SpeciesO2]
	if gain != p.Constants.O2Production {
		t.Errorf("expected O2 gain %g, got %g", p.Constants.O2Production, gain)
	}
	if dOn[reactor.SpeciesCH4] != dOff[reactor.SpeciesCH4] {
		t.Error("photosynthesis must not touch the methane balance")
	}
}

func TestEquilibria(t *testing.T) {
	net := New(params.Default())
	ch4, o2 := net.Equilibria()
	if ch4 <= 0 || o2 <= 0 {
		t.Errorf("expected positive equilibria, got %g, %g", ch4, o2)
	}
	if ch4 >= o2 {
		t.Errorf("trace methane should sit far below oxygen: %g >= %g", ch4, o2)
	}
}
