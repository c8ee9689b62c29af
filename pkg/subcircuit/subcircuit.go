// Package subcircuit implements the 1-port simulator for a single
// component or a subset of components+wires, synthesizing a temporary
// port/ground pair around it (spec §4.8, C8).
package subcircuit

import (
	"fmt"

	"rfcore/internal/consts"
	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
	"rfcore/pkg/mna"
	"rfcore/pkg/netlist"
	"rfcore/pkg/schematic"
	"rfcore/pkg/sparam"
)

// IOConfig names which terminal of the subject acts as input and which as
// ground.
type IOConfig struct {
	InputTerminal  string // "componentID:terminal"
	GroundTerminal string
}

// Simulate runs C8 over a set of components/wires at each of the given
// frequencies, returning the per-frequency input impedance. resolver is
// forwarded to the MNA builder for any nested INTEGRATED component.
func Simulate(components []*component.Component, wires []*component.Wire, io IOConfig, freqs []float64, z0 complexmath.Complex, resolver mna.IntegratedResolver) ([]complexmath.Complex, error) {
	// Fast path: a lone INTEGRATED component is interrogated directly via
	// its own internal impedance routine rather than synthesizing a port.
	if len(components) == 1 && components[0].Kind == component.KindIntegrated {
		if resolver == nil {
			return nil, fmt.Errorf("subcircuit: component %s is INTEGRATED but no resolver was provided", components[0].ID)
		}
		out := make([]complexmath.Complex, len(freqs))
		for i, f := range freqs {
			z, err := resolver.ResolveIntegrated(components[0], f)
			if err != nil {
				return nil, err
			}
			out[i] = z
		}
		return out, nil
	}

	circuit, err := synthesize(components, wires, io)
	if err != nil {
		return nil, err
	}

	nl, err := netlist.BuildNetlist(circuit)
	if err != nil {
		return nil, err
	}

	out := make([]complexmath.Complex, len(freqs))
	for i, f := range freqs {
		sys, err := mna.Build(nl, circuit, f, resolver)
		if err != nil {
			return nil, err
		}
		res, err := sparam.Compute(sys, nl.Ports, nl.Ground, z0)
		if err != nil {
			return nil, err
		}
		out[i] = sparam.InputImpedance(res.S[0][0], z0)
	}
	return out, nil
}

// synthesize copies each subject element struct under a fresh id (the
// copies share their parameter structs with the originals; nothing below
// them is copied), then adds a
// PORT 1 to the left of the input terminal and a GND to the right of the
// ground terminal, wired terminal-to-terminal (spec §4.8 steps 1-2).
func synthesize(components []*component.Component, wires []*component.Wire, io IOConfig) (*schematic.Circuit, error) {
	c := schematic.New()

	idRemap := make(map[string]string, len(components))
	for i, comp := range components {
		fresh := fmt.Sprintf("sub_%d_%s", i, comp.ID)
		idRemap[comp.ID] = fresh
		clone := *comp
		clone.ID = fresh
		if err := c.AddComponent(&clone); err != nil {
			return nil, err
		}
	}
	for i, w := range wires {
		clone := *w
		clone.ID = fmt.Sprintf("sub_wire_%d_%s", i, w.ID)
		if remapped, ok := idRemap[w.StartComponent]; ok {
			clone.StartComponent = remapped
		}
		if remapped, ok := idRemap[w.EndComponent]; ok {
			clone.EndComponent = remapped
		}
		c.AddWire(&clone)
	}

	inCompID, inTerminal := splitTerminalKey(io.InputTerminal)
	gndCompID, gndTerminal := splitTerminalKey(io.GroundTerminal)
	inComp, ok := c.Components[idRemap[inCompID]]
	if !ok {
		return nil, fmt.Errorf("subcircuit: input terminal references unknown component %q", inCompID)
	}
	gndComp, ok := c.Components[idRemap[gndCompID]]
	if !ok {
		return nil, fmt.Errorf("subcircuit: ground terminal references unknown component %q", gndCompID)
	}
	inPos, ok := inComp.TerminalPosition(inTerminal)
	if !ok {
		return nil, fmt.Errorf("subcircuit: component %s has no terminal %q", inComp.ID, inTerminal)
	}
	gndPos, ok := gndComp.TerminalPosition(gndTerminal)
	if !ok {
		return nil, fmt.Errorf("subcircuit: component %s has no terminal %q", gndComp.ID, gndTerminal)
	}

	port := &component.Component{
		ID: "sub_PORT_1", Kind: component.KindPort,
		X: inPos.X - consts.SubcircuitPortOffset, Y: inPos.Y,
		Port: &component.PortParams{Number: 1, Impedance: 50},
	}
	gnd := &component.Component{
		ID: "sub_GND_1", Kind: component.KindGround,
		X: gndPos.X + consts.SubcircuitPortOffset, Y: gndPos.Y,
	}
	if err := c.AddComponent(port); err != nil {
		return nil, err
	}
	if err := c.AddComponent(gnd); err != nil {
		return nil, err
	}

	portPos, _ := port.TerminalPosition("start")
	gndWirePos, _ := gnd.TerminalPosition("start")
	c.AddWire(&component.Wire{
		ID: "sub_wire_port", StartX: portPos.X, StartY: portPos.Y, EndX: inPos.X, EndY: inPos.Y,
		StartComponent: port.ID, StartTerminal: "start",
		EndComponent: inComp.ID, EndTerminal: inTerminal,
	})
	c.AddWire(&component.Wire{
		ID: "sub_wire_gnd", StartX: gndPos.X, StartY: gndPos.Y, EndX: gndWirePos.X, EndY: gndWirePos.Y,
		StartComponent: gndComp.ID, StartTerminal: gndTerminal,
		EndComponent: gnd.ID, EndTerminal: "start",
	})

	return c, nil
}

func splitTerminalKey(key string) (compID, terminal string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
