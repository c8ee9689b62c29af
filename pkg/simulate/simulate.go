// Package simulate is the public library surface (spec §6): it wires
// together pkg/netlist, pkg/mna, pkg/sparam, pkg/sweep, pkg/match and
// pkg/subcircuit, and supplies the recursive INTEGRATED-component
// resolver those lower packages depend on only through an interface.
package simulate

import (
	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
	"rfcore/pkg/match"
	"rfcore/pkg/mna"
	"rfcore/pkg/netlist"
	"rfcore/pkg/schematic"
	"rfcore/pkg/sparam"
	"rfcore/pkg/subcircuit"
	"rfcore/pkg/sweep"
)

// resolver implements mna.IntegratedResolver by recursively running the
// full C3->C4->C5 pipeline on an INTEGRATED component's stored
// sub-circuit. It is stateless, so a single package-level value is reused
// rather than allocating one per call.
type resolver struct{}

var defaultResolver mna.IntegratedResolver = resolver{}

// ResolveIntegrated simulates the sub-circuit stored on c.Integrated using
// the PORT and GND elements it already contains, returning S11 of its
// lowest-numbered port converted to impedance. The InputTerminal and
// GroundTerminal fields are not read; no port or ground is added at them.
func (resolver) ResolveIntegrated(c *component.Component, f float64) (complexmath.Complex, error) {
	p := c.Integrated
	sub := schematic.New()
	for _, comp := range p.Components {
		if err := sub.AddComponent(comp); err != nil {
			return complexmath.Complex{}, err
		}
	}
	for _, w := range p.Wires {
		sub.AddWire(w)
	}

	nl, err := netlist.BuildNetlist(sub)
	if err != nil {
		return complexmath.Complex{}, err
	}
	sys, err := mna.Build(nl, sub, f, defaultResolver)
	if err != nil {
		return complexmath.Complex{}, err
	}
	z0 := complexmath.C(50, 0)
	res, err := sparam.Compute(sys, nl.Ports, nl.Ground, z0)
	if err != nil {
		return complexmath.Complex{}, err
	}
	if len(res.S) == 0 {
		return complexmath.Inf, nil
	}
	return sparam.InputImpedance(res.S[0][0], z0), nil
}

// BuildNetlist derives connectivity from a circuit's components and
// wires (spec §6 buildNetlist).
func BuildNetlist(circuit *schematic.Circuit) (*netlist.Netlist, error) {
	return netlist.BuildNetlist(circuit)
}

// BuildAdmittance assembles the Y-system at a single frequency (spec §6
// buildAdmittance).
func BuildAdmittance(nl *netlist.Netlist, circuit *schematic.Circuit, f float64) (*mna.System, error) {
	return mna.Build(nl, circuit, f, defaultResolver)
}

// ScatteringAt runs C3->C4->C5 once at frequency f against reference
// impedance z0 (spec §6 scatteringAt).
func ScatteringAt(circuit *schematic.Circuit, f float64, z0 complexmath.Complex) (*sparam.Result, error) {
	nl, err := netlist.BuildNetlist(circuit)
	if err != nil {
		return nil, err
	}
	sys, err := mna.Build(nl, circuit, f, defaultResolver)
	if err != nil {
		return nil, err
	}
	return sparam.Compute(sys, nl.Ports, nl.Ground, z0)
}

// Sweep runs the frequency sweep coordinator (spec §6 sweep).
func Sweep(circuit *schematic.Circuit, cfg sweep.Config, progress func(float64), cancel <-chan struct{}) (*sweep.Result, error) {
	return sweep.Run(circuit, cfg, defaultResolver, progress, cancel)
}

// MatchingRange runs the Gray-code matching-range engine (spec §6
// matchingRange).
func MatchingRange(circuit *schematic.Circuit, cfg match.Config, progress func(float64), cancel <-chan struct{}) (*match.Result, error) {
	return match.Run(circuit, cfg, defaultResolver, progress, cancel)
}

// InputImpedanceAt is a single-frequency convenience wrapper returning
// port 1's input impedance (spec §6 inputImpedanceAt).
func InputImpedanceAt(circuit *schematic.Circuit, f float64) (complexmath.Complex, error) {
	nl, err := netlist.BuildNetlist(circuit)
	if err != nil {
		return complexmath.Complex{}, err
	}
	sys, err := mna.Build(nl, circuit, f, defaultResolver)
	if err != nil {
		return complexmath.Complex{}, err
	}
	z0 := resolvePort1Z0(circuit)
	res, err := sparam.Compute(sys, nl.Ports, nl.Ground, z0)
	if err != nil {
		return complexmath.Complex{}, err
	}
	if len(res.S) == 0 {
		return complexmath.Inf, nil
	}
	return sparam.InputImpedance(res.S[0][0], z0), nil
}

// SimulateIsolated runs C8 over a standalone component or component
// subset (spec §6 simulateIsolated).
func SimulateIsolated(components []*component.Component, wires []*component.Wire, io subcircuit.IOConfig, freqs []float64, z0 complexmath.Complex) ([]complexmath.Complex, error) {
	return subcircuit.Simulate(components, wires, io, freqs, z0, defaultResolver)
}

func resolvePort1Z0(circuit *schematic.Circuit) complexmath.Complex {
	for _, cid := range circuit.ComponentIDs() {
		comp := circuit.Components[cid]
		if comp.Kind == component.KindPort && comp.Port.Number == 1 {
			return complexmath.C(comp.Port.Impedance, 0)
		}
	}
	return complexmath.C(50, 0)
}
