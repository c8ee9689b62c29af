// Package match implements the matching-range engine (spec §4.7, C7): a
// Gray-code traversal of the n-tuned-component hypercube that projects its
// boundary onto the reflection-coefficient plane.
package match

import (
	"errors"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
	"rfcore/pkg/mna"
	"rfcore/pkg/netlist"
	"rfcore/pkg/schematic"
	"rfcore/pkg/sparam"
)

// Selection names one tunable parameter on one component and its swept
// range.
type Selection struct {
	ComponentID string
	Param       string
	Min, Max    float64
}

// Config configures a matching-range run.
type Config struct {
	Selections      []Selection
	F0              float64
	StepsPerEdge    int
	InvertReactance bool
	Z0              complexmath.Complex
}

// ErrCancelled is returned by Run when the cancel channel fires.
var ErrCancelled = errors.New("match: cancelled")

// ErrTooManySelections caps n to keep 2^n tractable (spec §4.7 "n <= ~16").
var ErrTooManySelections = errors.New("match: too many tuned components")

// Result is the closed Gamma path plus the untuned circuit's reference
// point.
type Result struct {
	Path         []complexmath.Complex
	PathType     PathType
	CurrentGamma complexmath.Complex
}

// Run executes the full Gray-code sweep. resolver is forwarded to the MNA
// builder and may be nil if the circuit has no INTEGRATED components.
func Run(circuit *schematic.Circuit, cfg Config, resolver mna.IntegratedResolver, progress func(float64), cancel <-chan struct{}) (*Result, error) {
	n := len(cfg.Selections)
	if n == 0 {
		return nil, errors.New("match: no selections")
	}
	if n > 16 {
		return nil, ErrTooManySelections
	}

	currentGamma, err := gammaAt(circuit, cfg.F0, cfg.Z0, resolver, cfg.InvertReactance)
	if err != nil {
		return nil, err
	}

	gray := graySequence(n)
	// Close the cycle by appending g[0].
	gray = append(gray, gray[0])

	path := make([]complexmath.Complex, 0, (len(gray)-1)*cfg.StepsPerEdge+1)

	originals := make([]float64, n)
	for i, s := range cfg.Selections {
		v, err := component.GetParam(circuit.Components[s.ComponentID], s.Param)
		if err != nil {
			return nil, err
		}
		originals[i] = v
	}
	restore := func() {
		for i, s := range cfg.Selections {
			component.SetParam(circuit.Components[s.ComponentID], s.Param, originals[i])
		}
	}
	defer restore()

	endpointValue := func(bitSet bool, sel Selection) float64 {
		if bitSet {
			return sel.Max
		}
		return sel.Min
	}

	totalEdges := len(gray) - 1
	for edge := 0; edge < totalEdges; edge++ {
		select {
		case <-cancel:
			return nil, ErrCancelled
		default:
		}

		gk, gk1 := gray[edge], gray[edge+1]
		bit := diffBit(gk, gk1)

		// Fix every selection at gk's endpoint except the tuned bit.
		for i, s := range cfg.Selections {
			if i == bit {
				continue
			}
			bitSet := gk&(1<<uint(i)) != 0
			component.SetParam(circuit.Components[s.ComponentID], s.Param, endpointValue(bitSet, s))
		}

		startBitSet := gk&(1<<uint(bit)) != 0
		endBitSet := gk1&(1<<uint(bit)) != 0
		startVal := endpointValue(startBitSet, cfg.Selections[bit])
		endVal := endpointValue(endBitSet, cfg.Selections[bit])

		stepFrom := 0
		if edge > 0 {
			stepFrom = 1 // skip the duplicate vertex point shared with the previous edge
		}
		for step := stepFrom; step <= cfg.StepsPerEdge; step++ {
			t := float64(step) / float64(cfg.StepsPerEdge)
			v := startVal + t*(endVal-startVal)
			component.SetParam(circuit.Components[cfg.Selections[bit].ComponentID], cfg.Selections[bit].Param, v)

			gamma, err := gammaAt(circuit, cfg.F0, cfg.Z0, resolver, cfg.InvertReactance)
			if err != nil {
				return nil, err
			}
			path = append(path, gamma)
		}

		if progress != nil {
			progress(float64(edge+1) / float64(totalEdges))
		}
	}

	return &Result{
		Path:         path,
		PathType:     classifyPath(n),
		CurrentGamma: currentGamma,
	}, nil
}

// gammaAt runs C3->C4->C5 once at f0 and returns S11, optionally with its
// imaginary part negated.
func gammaAt(circuit *schematic.Circuit, f0 float64, z0 complexmath.Complex, resolver mna.IntegratedResolver, invertReactance bool) (complexmath.Complex, error) {
	nl, err := netlist.BuildNetlist(circuit)
	if err != nil {
		return complexmath.Complex{}, err
	}
	sys, err := mna.Build(nl, circuit, f0, resolver)
	if err != nil {
		return complexmath.Complex{}, err
	}
	res, err := sparam.Compute(sys, nl.Ports, nl.Ground, z0)
	if err != nil {
		return complexmath.Complex{}, err
	}
	s11 := res.S[0][0]
	if invertReactance {
		s11 = complexmath.C(s11.Re, -s11.Im)
	}
	if s11.IsInf() {
		// spec §7: a NonFinite Gamma is clipped onto the unit circle in
		// the direction of the pre-clipped value rather than propagated.
		s11 = complexmath.FromPolar(1, s11.Phase())
	}
	return s11, nil
}
