package sweep

import (
	"testing"

	"rfcore/pkg/component"
	"rfcore/pkg/schematic"
)

func buildSeriesRCircuit(t *testing.T) *schematic.Circuit {
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
	add(&component.Component{
		ID: "PORT_2", Kind: component.KindPort, X: 60, Y: 0, Rotation: 180,
		Port: &component.PortParams{Number: 2, Impedance: 50},
	})
	add(&component.Component{ID: "GND_1", Kind: component.KindGround, X: 20, Y: 20})
	add(&component.Component{
		ID: "R_GND", Kind: component.KindResistor, X: 0, Y: 20,
		Resistor: &component.ResistorParams{Resistance: 50},
	})
	c.AddWire(&component.Wire{
		ID: "w1", StartX: 0, StartY: 0, EndX: 20, EndY: 0,
		StartComponent: "PORT_1", StartTerminal: "start",
		EndComponent: "R_1", EndTerminal: "start",
	})
	c.AddWire(&component.Wire{
		ID: "w2", StartX: 40, StartY: 0, EndX: 60, EndY: 0,
		StartComponent: "R_1", StartTerminal: "end",
		EndComponent: "PORT_2", EndTerminal: "start",
	})
	// GND_1 is tied off through R_GND, whose terminals both sit on ground.
	c.AddWire(&component.Wire{
		ID: "w3", StartX: 20, StartY: 20, EndX: 0, EndY: 20,
		StartComponent: "GND_1", StartTerminal: "start",
		EndComponent: "R_GND", EndTerminal: "start",
	})
	return c
}

func TestFrequenciesLinearEndpoints(t *testing.T) {
	freqs, err := Frequencies(Config{FreqStart: 1e6, FreqEnd: 2e6, FreqPoints: 5, Scale: Linear})
	if err != nil {
		t.Fatalf("Frequencies() error: %v", err)
	}
	if freqs[0] != 1e6 || freqs[len(freqs)-1] != 2e6 {
		t.Fatalf("endpoints = [%v, %v], want [1e6, 2e6]", freqs[0], freqs[len(freqs)-1])
	}
}

func TestFrequenciesRejectsOutOfRangeCount(t *testing.T) {
	if _, err := Frequencies(Config{FreqStart: 1, FreqEnd: 2, FreqPoints: 1, Scale: Linear}); err == nil {
		t.Fatalf("expected error for freqPoints=1")
	}
}

func TestRunOrdersResultsByFrequency(t *testing.T) {
	c := buildSeriesRCircuit(t)
	cfg := Config{FreqStart: 1e6, FreqEnd: 1e9, FreqPoints: 4, Scale: Logarithmic}
	res, err := Run(c, cfg, nil, nil, nil)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Points) != 4 {
		t.Fatalf("got %d points, want 4", len(res.Points))
	}
	for i := 1; i < len(res.Points); i++ {
		if res.Points[i].FreqHz <= res.Points[i-1].FreqHz {
			t.Fatalf("frequencies not ascending at index %d: %v <= %v", i, res.Points[i].FreqHz, res.Points[i-1].FreqHz)
		}
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	c := buildSeriesRCircuit(t)
	cfg := Config{FreqStart: 1e6, FreqEnd: 1e9, FreqPoints: 100, Scale: Linear}
	cancel := make(chan struct{})
	close(cancel)
	_, err := Run(c, cfg, nil, nil, cancel)
	if err != ErrCancelled {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}
