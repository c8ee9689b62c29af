package complexmath

import (
	"fmt"
	"math"
)

// Matrix is a dense, rectangular complex matrix stored row-major.
type Matrix struct {
	Rows, Cols int
	data       []Complex
}

// SingularError is returned by Inverse/Solve when no pivot candidate in a
// column clears the stability guard.
type SingularError struct {
	Column int
}

func (e *SingularError) Error() string {
	return fmt.Sprintf("complexmath: singular matrix at column %d", e.Column)
}

// NewMatrix allocates a zero-valued rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, data: make([]Complex, rows*cols)}
}

// Identity returns a square matrix with ones on the diagonal.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, One)
	}
	return m
}

func (m *Matrix) index(i, j int) int { return i*m.Cols + j }

func (m *Matrix) At(i, j int) Complex { return m.data[m.index(i, j)] }

func (m *Matrix) Set(i, j int, v Complex) { m.data[m.index(i, j)] = v }

// AddAt accumulates v into (i,j); this is the MNA stamping primitive.
func (m *Matrix) AddAt(i, j int, v Complex) {
	idx := m.index(i, j)
	m.data[idx] = m.data[idx].Add(v)
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{Rows: m.Rows, Cols: m.Cols, data: make([]Complex, len(m.data))}
	copy(out.data, m.data)
	return out
}

func (m *Matrix) sameShape(o *Matrix) bool { return m.Rows == o.Rows && m.Cols == o.Cols }

func (m *Matrix) Add(o *Matrix) (*Matrix, error) {
	if !m.sameShape(o) {
		return nil, fmt.Errorf("complexmath: shape mismatch %dx%d vs %dx%d", m.Rows, m.Cols, o.Rows, o.Cols)
	}
	out := NewMatrix(m.Rows, m.Cols)
	for i := range m.data {
		out.data[i] = m.data[i].Add(o.data[i])
	}
	return out, nil
}

func (m *Matrix) Sub(o *Matrix) (*Matrix, error) {
	if !m.sameShape(o) {
		return nil, fmt.Errorf("complexmath: shape mismatch %dx%d vs %dx%d", m.Rows, m.Cols, o.Rows, o.Cols)
	}
	out := NewMatrix(m.Rows, m.Cols)
	for i := range m.data {
		out.data[i] = m.data[i].Sub(o.data[i])
	}
	return out, nil
}

// ScaleBy multiplies every entry by a real scalar.
func (m *Matrix) ScaleBy(k float64) *Matrix {
	out := NewMatrix(m.Rows, m.Cols)
	for i := range m.data {
		out.data[i] = m.data[i].Scale(k)
	}
	return out
}

// Mul performs standard matrix multiplication.
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.Cols != o.Rows {
		return nil, fmt.Errorf("complexmath: cannot multiply %dx%d by %dx%d", m.Rows, m.Cols, o.Rows, o.Cols)
	}
	out := NewMatrix(m.Rows, o.Cols)
	for i := 0; i < m.Rows; i++ {
		for k := 0; k < m.Cols; k++ {
			a := m.At(i, k)
			if a == Zero {
				continue
			}
			for j := 0; j < o.Cols; j++ {
				out.AddAt(i, j, a.Mul(o.At(k, j)))
			}
		}
	}
	return out, nil
}

// Inverse computes A^-1 via Gauss-Jordan elimination on the augmented
// [A | I] matrix with partial pivoting: for each column, the candidate row
// (at or below the current pivot row) with the largest pivot magnitude is
// selected and swapped into place; if no candidate clears SingularGuard
// the matrix is declared singular.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.Rows != m.Cols {
		return nil, fmt.Errorf("complexmath: Inverse requires a square matrix, got %dx%d", m.Rows, m.Cols)
	}
	n := m.Rows
	const guard = 1e-12

	// Augmented [A | I], built as two parallel row buffers for clarity.
	left := m.Clone()
	right := Identity(n)

	for col := 0; col < n; col++ {
		pivotRow := col
		best := left.At(col, col).AbsSq()
		for r := col + 1; r < n; r++ {
			mag := left.At(r, col).AbsSq()
			if mag > best {
				best = mag
				pivotRow = r
			}
		}
		if best < guard*guard {
			return nil, &SingularError{Column: col}
		}
		if pivotRow != col {
			swapRows(left, col, pivotRow)
			swapRows(right, col, pivotRow)
		}

		pivot := left.At(col, col)
		inv := pivot.Inverse()
		scaleRow(left, col, inv)
		scaleRow(right, col, inv)

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := left.At(r, col)
			if factor == Zero {
				continue
			}
			subtractScaledRow(left, r, col, factor)
			subtractScaledRow(right, r, col, factor)
		}
	}
	return right, nil
}

func swapRows(m *Matrix, a, b int) {
	for j := 0; j < m.Cols; j++ {
		ia, ib := m.index(a, j), m.index(b, j)
		m.data[ia], m.data[ib] = m.data[ib], m.data[ia]
	}
}

func scaleRow(m *Matrix, row int, k Complex) {
	for j := 0; j < m.Cols; j++ {
		idx := m.index(row, j)
		m.data[idx] = m.data[idx].Mul(k)
	}
}

// subtractScaledRow performs row[r] -= factor * row[pivotRow] across both
// the left and (via separate calls) right augmented halves.
func subtractScaledRow(m *Matrix, r, pivotRow int, factor Complex) {
	for j := 0; j < m.Cols; j++ {
		pv := m.At(pivotRow, j)
		if pv == Zero {
			continue
		}
		idx := m.index(r, j)
		m.data[idx] = m.data[idx].Sub(factor.Mul(pv))
	}
}

// Solve returns x such that A x = b. Callers needing multiple right-hand
// sides should call Inverse once and multiply, rather than calling Solve
// repeatedly (each call recomputes the inverse).
func Solve(a *Matrix, b []Complex) ([]Complex, error) {
	if a.Rows != len(b) {
		return nil, fmt.Errorf("complexmath: rhs length %d does not match matrix size %d", len(b), a.Rows)
	}
	inv, err := a.Inverse()
	if err != nil {
		return nil, err
	}
	return inv.MulVec(b), nil
}

// MulVec multiplies the matrix by a column vector.
func (m *Matrix) MulVec(v []Complex) []Complex {
	out := make([]Complex, m.Rows)
	for i := 0; i < m.Rows; i++ {
		sum := Zero
		for j := 0; j < m.Cols; j++ {
			sum = sum.Add(m.At(i, j).Mul(v[j]))
		}
		out[i] = sum
	}
	return out
}

// FrobeniusNorm returns sqrt(sum |a_ij|^2), used by tests checking the
// inverse invariant A*A^-1 - I ~ 0.
func (m *Matrix) FrobeniusNorm() float64 {
	sum := 0.0
	for _, v := range m.data {
		sum += v.AbsSq()
	}
	return math.Sqrt(sum)
}
