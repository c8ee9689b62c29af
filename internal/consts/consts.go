// Package consts holds shared numeric constants used across the simulator core.
package consts

const (
	// GMIN is added to every diagonal entry of the admittance matrix to
	// regularize floating sub-nets (open ports, capacitive islands at DC).
	GMIN = 1e-12

	// SingularGuard is the minimum pivot magnitude accepted during
	// Gauss-Jordan elimination; below it the matrix is declared singular.
	SingularGuard = 1e-12

	// LargeAdmittance approximates a short (zero impedance) when stamping
	// a two-terminal element whose impedance is exactly zero, or a
	// degenerate (B=0) two-port ideal-through.
	LargeAdmittance = 1e10

	// GridUnit is the schematic grid spacing; terminal offsets are given
	// in multiples of this many layout units.
	GridUnit = 20

	// AdjacencyTolerance (tau) is the distance, in layout units, below
	// which two wire endpoints or a point-to-segment distance are
	// considered electrically coincident.
	AdjacencyTolerance = 5.0

	// DefaultZ0 is the system reference impedance used when Port 1 does
	// not declare one.
	DefaultZ0 = 50.0

	// MinMagnitudeDB floors the reported |S| in dB to avoid -Inf for
	// numerically-zero scattering parameters.
	MinMagnitudeDB = -100.0

	// SubcircuitPortOffset is the distance, in layout units, at which a
	// synthetic Port/Ground pair is placed when simulating a subcircuit
	// in isolation.
	SubcircuitPortOffset = 60.0

	// MaxPorts is the largest port count the S-parameter engine supports.
	MaxPorts = 4
)
