package sparam

import (
	"math"

	"rfcore/internal/consts"
	"rfcore/pkg/complexmath"
)

// MagnitudeDB converts a complex S-parameter to dB magnitude, floored at
// MinMagnitudeDB so a near-zero S value never produces -Inf.
func MagnitudeDB(s complexmath.Complex) float64 {
	mag := s.Abs()
	if mag == 0 {
		return consts.MinMagnitudeDB
	}
	db := 20 * math.Log10(mag)
	if db < consts.MinMagnitudeDB {
		return consts.MinMagnitudeDB
	}
	return db
}

// PhaseDeg returns the phase of a complex S-parameter in degrees.
func PhaseDeg(s complexmath.Complex) float64 {
	return s.PhaseDeg()
}

// InputImpedance converts a reflection coefficient back to impedance
// against the reference z0 (Z = Z0*(1+S11)/(1-S11)).
func InputImpedance(s11, z0 complexmath.Complex) complexmath.Complex {
	num := complexmath.One.Add(s11)
	den := complexmath.One.Sub(s11)
	return z0.Mul(num).Div(den)
}
