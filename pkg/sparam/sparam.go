// Package sparam computes the scattering-parameter matrix of an assembled
// admittance system by solving one excitation per port for the network
// impedance matrix, then converting Z to S (spec §4.5, C5).
package sparam

import (
	"rfcore/pkg/complexmath"
	"rfcore/pkg/mna"
)

// Result is a single frequency's S-matrix plus the port-indexed network
// impedance matrix it was converted from.
type Result struct {
	S [][]complexmath.Complex // P x P
	Z [][]complexmath.Complex // P x P, port-indexed network impedance
}

// Compute runs C5 over an assembled system, port node list, reference
// impedance z0, and the netlist's ground node id (a port whose node equals
// groundNode gets a zero Z-column/row, per spec §4.5 edge cases).
func Compute(sys *mna.System, portNodes []int, groundNode int, z0 complexmath.Complex) (*Result, error) {
	p := len(portNodes)

	// Empty-matrix edge case: K = 0, open network.
	if sys.K == 0 {
		s := identityLike(p, complexmath.C(1, 0))
		z := zeroMatrix(p)
		return &Result{S: s, Z: z}, nil
	}

	z := zeroMatrix(p)
	for j := 0; j < p; j++ {
		if portNodes[j] == groundNode {
			continue // ground port: Z column stays zero
		}
		e := make([]complexmath.Complex, sys.K)
		row, ok := sys.NodeRow[portNodes[j]]
		if !ok {
			continue
		}
		e[row] = complexmath.C(1, 0)
		v, err := complexmath.Solve(sys.Y, e)
		if err != nil {
			return defaultResult(p), nil
		}
		for i := 0; i < p; i++ {
			if portNodes[i] == groundNode {
				continue
			}
			if r, ok := sys.NodeRow[portNodes[i]]; ok {
				z[i][j] = v[r]
			}
		}
	}

	s, err := zToS(z, z0, p)
	if err != nil {
		return defaultResult(p), nil
	}
	return &Result{S: s, Z: z}, nil
}

// zToS computes S = (Z - Z0*I)(Z + Z0*I)^-1 via the dense complex solver.
func zToS(z [][]complexmath.Complex, z0 complexmath.Complex, p int) ([][]complexmath.Complex, error) {
	zPlus := complexmath.NewMatrix(p, p)
	zMinus := complexmath.NewMatrix(p, p)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			zPlus.Set(i, j, z[i][j])
			zMinus.Set(i, j, z[i][j])
		}
		zPlus.AddAt(i, i, z0)
		zMinus.AddAt(i, i, z0.Neg())
	}
	inv, err := zPlus.Inverse()
	if err != nil {
		return nil, err
	}
	sMat, err := zMinus.Mul(inv)
	if err != nil {
		return nil, err
	}
	out := make([][]complexmath.Complex, p)
	for i := 0; i < p; i++ {
		out[i] = make([]complexmath.Complex, p)
		for j := 0; j < p; j++ {
			out[i][j] = sMat.At(i, j)
		}
	}
	return out, nil
}

func zeroMatrix(p int) [][]complexmath.Complex {
	out := make([][]complexmath.Complex, p)
	for i := range out {
		out[i] = make([]complexmath.Complex, p)
	}
	return out
}

func identityLike(p int, diag complexmath.Complex) [][]complexmath.Complex {
	out := zeroMatrix(p)
	for i := 0; i < p; i++ {
		out[i][i] = diag
	}
	return out
}

// defaultResult is the solver-failure fallback: S_ii = -1, S_ij = 0.
func defaultResult(p int) *Result {
	return &Result{S: identityLike(p, complexmath.C(-1, 0)), Z: zeroMatrix(p)}
}
