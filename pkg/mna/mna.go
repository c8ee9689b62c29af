// Package mna assembles the modified-nodal-admittance matrix for a
// netlisted circuit at a single frequency (spec §4.4, C4).
package mna

import (
	"sort"

	"rfcore/internal/consts"
	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
	"rfcore/pkg/netlist"
	"rfcore/pkg/schematic"
)

// IntegratedResolver computes the 1-port impedance of an INTEGRATED
// component by recursively simulating its stored sub-circuit. It is an
// interface, not a concrete dependency, so this package never imports
// pkg/sparam or pkg/simulate: the facade package that does own the
// recursion satisfies this interface and is handed in by the caller.
type IntegratedResolver interface {
	ResolveIntegrated(c *component.Component, f float64) (complexmath.Complex, error)
}

// System is the assembled admittance system for one frequency.
type System struct {
	Y       *complexmath.Matrix
	NodeRow map[int]int // node id -> matrix row/column index
	K       int
}

// Build runs the MNA builder algorithm (spec §4.4) over a netlisted
// circuit at frequency f. resolver may be nil if the circuit contains no
// INTEGRATED components.
func Build(nl *netlist.Netlist, circuit *schematic.Circuit, f float64, resolver IntegratedResolver) (*System, error) {
	// Step 1: enumerate non-ground node ids, sorted, contiguous rows.
	nodeRow := make(map[int]int)
	row := 0
	for _, n := range nl.NodeIDs {
		if n == nl.Ground {
			continue
		}
		nodeRow[n] = row
		row++
	}
	k := row
	y := complexmath.NewMatrix(k, k)

	stampShunt := func(node int, admittance complexmath.Complex) {
		if node == nl.Ground {
			return
		}
		r := nodeRow[node]
		y.AddAt(r, r, admittance)
	}
	stampSeries := func(nodeI, nodeJ int, admittance complexmath.Complex) {
		ri, iIsGround := nodeRow[nodeI], nodeI == nl.Ground
		rj, jIsGround := nodeRow[nodeJ], nodeJ == nl.Ground
		if !iIsGround {
			y.AddAt(ri, ri, admittance)
		}
		if !jIsGround {
			y.AddAt(rj, rj, admittance)
		}
		if !iIsGround && !jIsGround {
			y.AddAt(ri, rj, admittance.Neg())
			y.AddAt(rj, ri, admittance.Neg())
		}
	}
	stampTwoPort := func(nodeI, nodeJ int, y11, y12, y21, y22 complexmath.Complex) {
		ri, iIsGround := nodeRow[nodeI], nodeI == nl.Ground
		rj, jIsGround := nodeRow[nodeJ], nodeJ == nl.Ground
		if !iIsGround {
			y.AddAt(ri, ri, y11)
		}
		if !jIsGround {
			y.AddAt(rj, rj, y22)
		}
		if !iIsGround && !jIsGround {
			y.AddAt(ri, rj, y12)
			y.AddAt(rj, ri, y21)
		}
	}

	// Step 2: stamp every non-PORT, non-GND component.
	for _, cid := range circuit.ComponentIDs() {
		comp := circuit.Components[cid]
		switch comp.Kind {
		case component.KindPort, component.KindGround:
			continue
		case component.KindResistor, component.KindInductor, component.KindCapacitor:
			z, err := component.Impedance(comp, f)
			if err != nil {
				return nil, err
			}
			yAdm := admittanceOf(z)
			startNode := nl.Terminals[component.TerminalKey(cid, "start")]
			endNode := nl.Terminals[component.TerminalKey(cid, "end")]
			stampSeries(startNode, endNode, yAdm)
		case component.KindTL:
			a, b, _, d, err := component.ABCD(comp, f)
			if err != nil {
				return nil, err
			}
			startNode := nl.Terminals[component.TerminalKey(cid, "start")]
			endNode := nl.Terminals[component.TerminalKey(cid, "end")]
			if b.AbsSq() == 0 {
				// Degenerate two-port: ideal through, large series conductance.
				stampSeries(startNode, endNode, complexmath.C(consts.LargeAdmittance, 0))
				continue
			}
			y11 := d.Div(b)
			y22 := a.Div(b)
			y12 := complexmath.C(-1, 0).Div(b)
			y21 := y12
			stampTwoPort(startNode, endNode, y11, y12, y21, y22)
		case component.KindIntegrated:
			if resolver == nil {
				return nil, errNoResolver(cid)
			}
			z, err := resolver.ResolveIntegrated(comp, f)
			if err != nil {
				return nil, err
			}
			node := nl.Terminals[component.TerminalKey(cid, "start")]
			stampShunt(node, admittanceOf(z))
		case component.KindCustom:
			z, err := component.Impedance(comp, f)
			if err != nil {
				return nil, err
			}
			node := nl.Terminals[component.TerminalKey(cid, "start")]
			stampShunt(node, admittanceOf(z))
		}
	}

	// Step 3: GMIN on every diagonal entry.
	for i := 0; i < k; i++ {
		y.AddAt(i, i, complexmath.C(consts.GMIN, 0))
	}

	return &System{Y: y, NodeRow: nodeRow, K: k}, nil
}

// admittanceOf converts a series impedance to an admittance, applying the
// large-admittance sentinel for an exact short and zero for an open.
func admittanceOf(z complexmath.Complex) complexmath.Complex {
	if z.IsInf() {
		return complexmath.Zero
	}
	if z.AbsSq() == 0 {
		return complexmath.C(consts.LargeAdmittance, 0)
	}
	return z.Inverse()
}

func errNoResolver(componentID string) error {
	return &UnresolvedIntegratedError{ComponentID: componentID}
}

// UnresolvedIntegratedError reports that an INTEGRATED component was
// encountered during assembly without a resolver to recurse into it.
type UnresolvedIntegratedError struct {
	ComponentID string
}

func (e *UnresolvedIntegratedError) Error() string {
	return "mna: component " + e.ComponentID + " is INTEGRATED but no resolver was provided"
}

// SortedNodeIDs returns System's node ids in row order, useful for
// diagnostics and for S-parameter port indexing.
func (s *System) SortedNodeIDs() []int {
	ids := make([]int, 0, len(s.NodeRow))
	for n := range s.NodeRow {
		ids = append(ids, n)
	}
	sort.Ints(ids)
	return ids
}
