package subcircuit

import (
	"testing"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
)

func TestSimulateSingleResistor(t *testing.T) {
	r := &component.Component{
		ID: "R_1", Kind: component.KindResistor, X: 0, Y: 0,
		Resistor: &component.ResistorParams{Resistance: 75},
	}
	io := IOConfig{InputTerminal: "R_1:start", GroundTerminal: "R_1:end"}
	zs, err := Simulate([]*component.Component{r}, nil, io, []float64{1e6}, complexmath.C(50, 0), nil)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if len(zs) != 1 {
		t.Fatalf("got %d results, want 1", len(zs))
	}
	// A lone resistor's 1-port impedance should read back close to its
	// resistance (small deviation allowed from GMIN/solver tolerance).
	if diff := zs[0].Re - 75; diff > 1 || diff < -1 {
		t.Fatalf("Re(Z) = %v, want close to 75", zs[0].Re)
	}
}
