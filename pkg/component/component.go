// Package component implements the per-element model library (impedance
// and ABCD contracts) for the component kinds a schematic can contain:
// resistor, inductor, capacitor, ground, port, transmission line,
// integrated sub-circuit and user-scripted custom elements.
package component

import (
	"fmt"

	"rfcore/internal/consts"
)

// Kind tags the variant a Component carries. Components are modeled as a
// small closed sum type (this field) plus one populated parameter struct,
// rather than by inheritance — see the IsOnePort, IsTwoTerminal and
// IsTwoPort predicates below for the dispatch built on top of it.
type Kind string

const (
	KindResistor   Kind = "R"
	KindInductor   Kind = "L"
	KindCapacitor  Kind = "C"
	KindGround     Kind = "GND"
	KindPort       Kind = "PORT"
	KindTL         Kind = "TL"
	KindIntegrated Kind = "INTEGRATED"
	KindCustom     Kind = "CUSTOM"
)

// Point is a 2D schematic-grid coordinate.
type Point struct{ X, Y float64 }

// Range is an inclusive slider range hint for a tunable parameter.
type Range struct{ Min, Max float64 }

// ImpedanceConfig hints which terminal acts as input/ground when a
// component is simulated in isolation (C8).
type ImpedanceConfig struct {
	InputTerminal  string
	GroundTerminal string
}

// Wire is a schematic wire: two endpoints plus advisory connection hints.
// Connectivity is always ultimately derived spatially (pkg/netlist); the
// hints below are never consulted by the netlister.
type Wire struct {
	ID                             string
	StartX, StartY, EndX, EndY     float64
	StartComponent, StartTerminal  string
	EndComponent, EndTerminal      string
}

// ResistorParams holds R's single parameter.
type ResistorParams struct{ Resistance float64 }

// InductorParams holds L's single parameter.
type InductorParams struct{ Inductance float64 }

// CapacitorParams holds C's single parameter.
type CapacitorParams struct{ Capacitance float64 }

// PortParams holds PORT's parameters.
type PortParams struct {
	Number      int
	Impedance   float64
}

// TLParams holds a transmission line's parameters.
type TLParams struct {
	Z0       float64 // characteristic impedance, real part
	Z0Imag   float64 // optional imaginary part (lossy line)
	Length   float64 // meters
	Velocity float64 // phase velocity, m/s
	LossDB   float64 // dB per length, optional
}

// IntegratedParams describes a self-contained sub-circuit this component
// behaves as a 1-port proxy for. Components/Wires are the sub-circuit's
// own element pool (not references into an outer circuit), so the
// sub-circuit can be simulated standalone by pkg/simulate. The resolver in
// pkg/simulate does not read InputTerminal or GroundTerminal: it simulates
// the sub-circuit with its own PORT and GND elements.
type IntegratedParams struct {
	Components     []*Component
	Wires          []*Wire
	InputTerminal  string // terminal key ("compID:terminal") of the sub-circuit's input
	GroundTerminal string // terminal key of the sub-circuit's ground
}

// CustomParams describes a user-scripted 1-port element.
type CustomParams struct {
	Script string
	Params map[string]float64
}

// Component is the tagged-variant element type. Exactly one of the *Params
// fields matching Kind is populated; the others are nil.
type Component struct {
	ID              string
	Kind            Kind
	X, Y            float64
	Rotation        int // degrees: 0, 90, 180, or 270
	SliderRange     map[string]Range
	ImpedanceConfig *ImpedanceConfig

	Resistor   *ResistorParams
	Inductor   *InductorParams
	Capacitor  *CapacitorParams
	Port       *PortParams
	TL         *TLParams
	Integrated *IntegratedParams
	Custom     *CustomParams
}

// terminalOffsets returns the unrotated (name, dx, dy) terminal layout for
// a kind, in layout units (a two-terminal span is one GridUnit), anchored at
// the component's (X, Y).
func terminalOffsets(k Kind) []struct {
	Name   string
	DX, DY float64
} {
	switch k {
	case KindResistor, KindInductor, KindCapacitor, KindTL:
		return []struct {
			Name   string
			DX, DY float64
		}{
			{"start", 0, 0},
			{"end", consts.GridUnit, 0},
		}
	case KindGround, KindPort, KindIntegrated, KindCustom:
		return []struct {
			Name   string
			DX, DY float64
		}{
			{"start", 0, 0},
		}
	default:
		return nil
	}
}

// Terminals returns the ordered terminal names for this component.
func (c *Component) Terminals() []string {
	offs := terminalOffsets(c.Kind)
	names := make([]string, len(offs))
	for i, o := range offs {
		names[i] = o.Name
	}
	return names
}

// TerminalPosition returns the absolute position of a named terminal,
// after rotating its anchor-relative offset by the component's rotation.
func (c *Component) TerminalPosition(name string) (Point, bool) {
	for _, o := range terminalOffsets(c.Kind) {
		if o.Name != name {
			continue
		}
		dx, dy := rotate(o.DX, o.DY, c.Rotation)
		return Point{X: c.X + dx, Y: c.Y + dy}, true
	}
	return Point{}, false
}

// AllTerminalPositions returns every terminal's absolute position keyed
// by terminal key ("ID:name").
func (c *Component) AllTerminalPositions() map[string]Point {
	out := make(map[string]Point)
	for _, name := range c.Terminals() {
		p, _ := c.TerminalPosition(name)
		out[TerminalKey(c.ID, name)] = p
	}
	return out
}

// TerminalKey builds the canonical terminal-map key.
func TerminalKey(componentID, terminal string) string {
	return componentID + ":" + terminal
}

func rotate(dx, dy float64, rotationDeg int) (float64, float64) {
	switch ((rotationDeg % 360) + 360) % 360 {
	case 90:
		return -dy, dx
	case 180:
		return -dx, -dy
	case 270:
		return dy, -dx
	default:
		return dx, dy
	}
}

// IsOnePort reports whether a kind is stamped as a shunt-to-ground 1-port
// during MNA assembly (spec §4.4 step 2, "1-port" case).
func IsOnePort(k Kind) bool {
	return k == KindIntegrated || k == KindCustom
}

// IsTwoTerminal reports whether a kind exposes a two-terminal impedance.
func IsTwoTerminal(k Kind) bool {
	return k == KindResistor || k == KindInductor || k == KindCapacitor
}

// IsTwoPort reports whether a kind exposes ABCD parameters.
func IsTwoPort(k Kind) bool {
	return k == KindTL
}

// Validate performs structural sanity checks independent of topology
// (topology-level validation is pkg/netlist's job).
func (c *Component) Validate() error {
	switch c.Kind {
	case KindResistor:
		if c.Resistor == nil {
			return fmt.Errorf("component %s: kind R missing Resistor params", c.ID)
		}
	case KindInductor:
		if c.Inductor == nil {
			return fmt.Errorf("component %s: kind L missing Inductor params", c.ID)
		}
	case KindCapacitor:
		if c.Capacitor == nil {
			return fmt.Errorf("component %s: kind C missing Capacitor params", c.ID)
		}
	case KindPort:
		if c.Port == nil {
			return fmt.Errorf("component %s: kind PORT missing Port params", c.ID)
		}
		if c.Port.Number < 1 || c.Port.Number > consts.MaxPorts {
			return fmt.Errorf("component %s: port number %d out of range 1..%d", c.ID, c.Port.Number, consts.MaxPorts)
		}
	case KindTL:
		if c.TL == nil {
			return fmt.Errorf("component %s: kind TL missing TL params", c.ID)
		}
	case KindIntegrated:
		if c.Integrated == nil {
			return fmt.Errorf("component %s: kind INTEGRATED missing Integrated params", c.ID)
		}
	case KindCustom:
		if c.Custom == nil {
			return fmt.Errorf("component %s: kind CUSTOM missing Custom params", c.ID)
		}
	case KindGround:
		// no parameters
	default:
		return fmt.Errorf("component %s: unknown kind %q", c.ID, c.Kind)
	}
	return nil
}
