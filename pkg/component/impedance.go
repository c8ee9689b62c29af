package component

import (
	"fmt"
	"math"

	"rfcore/pkg/complexmath"
)

// Impedance returns the series impedance seen between a two-terminal
// element's terminals at frequency f, per spec §4.2. INTEGRATED is not
// handled here — its impedance requires recursively simulating its
// sub-circuit, which needs pkg/netlist/pkg/mna/pkg/sparam and would
// create an import cycle if pulled into this package; pkg/simulate
// resolves it instead (see mna.IntegratedResolver).
func Impedance(c *Component, f float64) (complexmath.Complex, error) {
	switch c.Kind {
	case KindResistor:
		return complexmath.C(c.Resistor.Resistance, 0), nil

	case KindInductor:
		omega := 2 * math.Pi * f
		return complexmath.C(0, omega*c.Inductor.Inductance), nil

	case KindCapacitor:
		if f == 0 || c.Capacitor.Capacitance == 0 {
			return complexmath.Inf, nil
		}
		omega := 2 * math.Pi * f
		return complexmath.C(0, -1/(omega*c.Capacitor.Capacitance)), nil

	case KindTL:
		// Only meaningful when a TL is interrogated as a 1-port (e.g. a
		// shorted-stub reading); characteristic impedance is returned.
		return complexmath.C(c.TL.Z0, c.TL.Z0Imag), nil

	case KindCustom:
		return customImpedance(c, f)

	default:
		return complexmath.Complex{}, fmt.Errorf("component %s: kind %s has no two-terminal impedance", c.ID, c.Kind)
	}
}

// ABCD returns the two-port transmission parameters of a TL at frequency
// f. theta is the electrical length (2*pi*f*length/velocity); alpha is
// the loss in nepers (loss_dB/length * ln(10)/20 * length). The lossless
// special case (alpha == 0) uses the real-trig closed form directly.
func ABCD(c *Component, f float64) (A, B, Cc, D complexmath.Complex, err error) {
	if c.Kind != KindTL {
		return complexmath.Complex{}, complexmath.Complex{}, complexmath.Complex{}, complexmath.Complex{},
			fmt.Errorf("component %s: kind %s has no ABCD parameters", c.ID, c.Kind)
	}
	tl := c.TL
	theta := 2 * math.Pi * f * tl.Length / tl.Velocity
	alpha := tl.LossDB * math.Ln10 / 20 * tl.Length
	z0 := complexmath.C(tl.Z0, tl.Z0Imag)

	if alpha == 0 {
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		A = complexmath.C(cosT, 0)
		D = complexmath.C(cosT, 0)
		B = z0.Mul(complexmath.C(0, sinT))
		Cc = complexmath.C(0, sinT).Div(z0)
		return A, B, Cc, D, nil
	}

	// Lossy case: gamma*l = alpha*l + j*beta*l, beta*l == theta.
	gl := complexmath.C(alpha, theta)
	coshGL := ccosh(gl)
	sinhGL := csinh(gl)

	A = coshGL
	D = coshGL
	B = z0.Mul(sinhGL)
	Cc = sinhGL.Div(z0)
	return A, B, Cc, D, nil
}

// ccosh/csinh compute hyperbolic cosine/sine of a complexmath.Complex via
// the standard identities, since complexmath deliberately stays
// self-contained rather than depending on math/cmplx internally.
func ccosh(z complexmath.Complex) complexmath.Complex {
	return complexmath.C(math.Cosh(z.Re)*math.Cos(z.Im), math.Sinh(z.Re)*math.Sin(z.Im))
}

func csinh(z complexmath.Complex) complexmath.Complex {
	return complexmath.C(math.Sinh(z.Re)*math.Cos(z.Im), math.Cosh(z.Re)*math.Sin(z.Im))
}
