package match

import (
	"testing"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
	"rfcore/pkg/schematic"
)

func buildTunableCircuit(t *testing.T) *schematic.Circuit {
	t.Helper()
	c := schematic.New()
	add := func(comp *component.Component) {
		if err := c.AddComponent(comp); err != nil {
			t.Fatalf("AddComponent(%s): %v", comp.ID, err)
		}
	}
	add(&component.Component{
		ID: "PORT_1", Kind: component.KindPort, X: 0, Y: 0,
		Port: &component.PortParams{Number: 1, Impedance: 50},
	})
	add(&component.Component{
		ID: "R_1", Kind: component.KindResistor, X: 20, Y: 0,
		Resistor: &component.ResistorParams{Resistance: 50},
	})
	add(&component.Component{ID: "GND_1", Kind: component.KindGround, X: 40, Y: 20})
	c.AddWire(&component.Wire{
		ID: "w1", StartX: 0, StartY: 0, EndX: 20, EndY: 0,
		StartComponent: "PORT_1", StartTerminal: "start",
		EndComponent: "R_1", EndTerminal: "start",
	})
	c.AddWire(&component.Wire{
		ID: "w2", StartX: 40, StartY: 0, EndX: 40, EndY: 20,
		StartComponent: "R_1", StartTerminal: "end",
		EndComponent: "GND_1", EndTerminal: "start",
	})
	return c
}

func TestGraySequenceTwoBitOrder(t *testing.T) {
	g := graySequence(2)
	want := []int{0, 1, 3, 2}
	for i, v := range want {
		if g[i] != v {
			t.Fatalf("graySequence(2)[%d] = %d, want %d", i, g[i], v)
		}
	}
}

func TestRunRestoresOriginalParams(t *testing.T) {
	c := buildTunableCircuit(t)
	cfg := Config{
		Selections:   []Selection{{ComponentID: "R_1", Param: "resistance", Min: 10, Max: 200}},
		F0:           1e6,
		StepsPerEdge: 4,
		Z0:           complexmath.C(50, 0),
	}
	_, err := Run(c, cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if c.Components["R_1"].Resistor.Resistance != 50 {
		t.Fatalf("resistance after Run = %v, want restored 50", c.Components["R_1"].Resistor.Resistance)
	}
}

func TestRunSinglePathTypeIsLine(t *testing.T) {
	c := buildTunableCircuit(t)
	cfg := Config{
		Selections:   []Selection{{ComponentID: "R_1", Param: "resistance", Min: 10, Max: 200}},
		F0:           1e6,
		StepsPerEdge: 4,
		Z0:           complexmath.C(50, 0),
	}
	res, err := Run(c, cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.PathType != PathLine {
		t.Fatalf("PathType = %v, want line", res.PathType)
	}
	// n=1 => 2 edges closing the 2-vertex cycle; the first edge emits
	// stepsPerEdge+1 points (it includes the starting vertex), every
	// subsequent edge emits stepsPerEdge more.
	want := 2*4 + 1
	if len(res.Path) != want {
		t.Fatalf("len(Path) = %d, want %d", len(res.Path), want)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	c := buildTunableCircuit(t)
	cfg := Config{
		Selections:   []Selection{{ComponentID: "R_1", Param: "resistance", Min: 10, Max: 200}},
		F0:           1e6,
		StepsPerEdge: 4,
		Z0:           complexmath.C(50, 0),
	}
	cancel := make(chan struct{})
	close(cancel)
	_, err := Run(c, cfg, nil, nil, cancel)
	if err != ErrCancelled {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}
