// Package sweep runs the frequency-sweep coordinator (spec §4.6, C6):
// grid generation, per-frequency netlist/admittance/S-parameter pipeline,
// and cooperative progress/cancellation.
package sweep

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/component"
	"rfcore/pkg/mna"
	"rfcore/pkg/netlist"
	"rfcore/pkg/schematic"
	"rfcore/pkg/sparam"
)

// Scale selects the frequency-grid spacing.
type Scale string

const (
	Linear      Scale = "linear"
	Logarithmic Scale = "logarithmic"
)

// Config is the sweep's named option set (spec §4.6).
type Config struct {
	FreqStart  float64
	FreqEnd    float64
	FreqPoints int // 2..10000
	Scale      Scale
	Z0         *complexmath.Complex // nil -> read from Port 1
}

// ErrCancelled is returned by Run when the cancel channel fires.
var ErrCancelled = errors.New("sweep: cancelled")

// PointResult is one frequency's S-matrix plus port-1 input impedance.
type PointResult struct {
	FreqHz          float64
	S               [][]complexmath.Complex
	MagnitudeDB     [][]float64
	PhaseDeg        [][]float64
	InputImpedance1 complexmath.Complex
}

// Result is the full ordered sweep (spec §3 "Sweep result").
type Result struct {
	Points []PointResult
}

// Frequencies generates f[0..N-1] per the configured scale (spec §4.6).
func Frequencies(cfg Config) ([]float64, error) {
	if cfg.FreqPoints < 2 || cfg.FreqPoints > 10000 {
		return nil, fmt.Errorf("sweep: freqPoints %d out of range [2, 10000]", cfg.FreqPoints)
	}
	dst := make([]float64, cfg.FreqPoints)
	switch cfg.Scale {
	case Logarithmic:
		if cfg.FreqStart <= 0 || cfg.FreqEnd <= 0 {
			return nil, fmt.Errorf("sweep: logarithmic scale requires positive bounds")
		}
		floats.LogSpan(dst, cfg.FreqStart, cfg.FreqEnd)
	default:
		floats.Span(dst, cfg.FreqStart, cfg.FreqEnd)
	}
	return dst, nil
}

// Run executes the sweep, reporting progress in [0,1] after each
// frequency point and checking cancel between points (spec §5 suspension
// points). resolver is forwarded to the MNA builder for INTEGRATED
// components and may be nil if the circuit has none.
func Run(circuit *schematic.Circuit, cfg Config, resolver mna.IntegratedResolver, progress func(float64), cancel <-chan struct{}) (*Result, error) {
	freqs, err := Frequencies(cfg)
	if err != nil {
		return nil, err
	}

	nl, err := netlist.BuildNetlist(circuit)
	if err != nil {
		return nil, err
	}

	z0 := resolveZ0(circuit, cfg.Z0)

	out := &Result{Points: make([]PointResult, 0, len(freqs))}
	for k, f := range freqs {
		select {
		case <-cancel:
			return nil, ErrCancelled
		default:
		}

		sys, err := mna.Build(nl, circuit, f, resolver)
		if err != nil {
			return nil, err
		}
		res, err := sparam.Compute(sys, nl.Ports, nl.Ground, z0)
		if err != nil {
			return nil, err
		}

		p := len(nl.Ports)
		magDB := make([][]float64, p)
		phase := make([][]float64, p)
		for i := 0; i < p; i++ {
			magDB[i] = make([]float64, p)
			phase[i] = make([]float64, p)
			for j := 0; j < p; j++ {
				magDB[i][j] = sparam.MagnitudeDB(res.S[i][j])
				phase[i][j] = sparam.PhaseDeg(res.S[i][j])
			}
		}

		var zIn complexmath.Complex
		if p > 0 {
			zIn = sparam.InputImpedance(res.S[0][0], z0)
		}

		out.Points = append(out.Points, PointResult{
			FreqHz:          f,
			S:               res.S,
			MagnitudeDB:     magDB,
			PhaseDeg:        phase,
			InputImpedance1: zIn,
		})

		if progress != nil {
			progress(float64(k+1) / float64(len(freqs)))
		}
	}
	return out, nil
}

// resolveZ0 returns the configured Z0, falling back to Port 1's declared
// reference impedance.
func resolveZ0(circuit *schematic.Circuit, configured *complexmath.Complex) complexmath.Complex {
	if configured != nil {
		return *configured
	}
	for _, cid := range circuit.ComponentIDs() {
		comp := circuit.Components[cid]
		if comp.Kind == component.KindPort && comp.Port.Number == 1 {
			return complexmath.C(comp.Port.Impedance, 0)
		}
	}
	return complexmath.C(50, 0)
}
