// Package export writes and reads the line-oriented file formats named in
// spec §6: Touchstone .sNp, single/full-S-matrix CSV, Keysight-style VNA
// CSV, and matching-range CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/sweep"
)

// WriteTouchstone writes a Touchstone .sNp file for an N-port sweep
// result against reference impedance z0 (spec §6).
func WriteTouchstone(w io.Writer, result *sweep.Result, z0 float64) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "! RF Circuit Calculator"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "# Hz S RI R %g\n", z0); err != nil {
		return err
	}
	for _, pt := range result.Points {
		n := len(pt.S)
		parts := make([]string, 0, 2*n*n+1)
		parts = append(parts, fmt.Sprintf("%e", pt.FreqHz))
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				s := pt.S[i][j]
				parts = append(parts, fmt.Sprintf("%.8f", s.Re), fmt.Sprintf("%.8f", s.Im))
			}
		}
		if _, err := fmt.Fprintln(bw, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// TouchstonePoint is one frequency row read back from a .sNp file.
type TouchstonePoint struct {
	FreqHz float64
	S      [][]complexmath.Complex
}

// ReadTouchstone parses a Touchstone .sNp file into per-frequency
// S-matrices, inferring port count N from the row width.
func ReadTouchstone(r io.Reader) ([]TouchstonePoint, float64, error) {
	sc := bufio.NewScanner(r)
	var z0 float64 = 50
	var points []TouchstonePoint
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		if strings.HasPrefix(line, "#") {
			fields := strings.Fields(line)
			for i, f := range fields {
				if f == "R" && i+1 < len(fields) {
					fmt.Sscanf(fields[i+1], "%g", &z0)
				}
			}
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		var freq float64
		fmt.Sscanf(fields[0], "%g", &freq)
		rest := fields[1:]
		if len(rest)%2 != 0 {
			return nil, 0, fmt.Errorf("export: malformed touchstone data row: odd value count")
		}
		pairCount := len(rest) / 2
		n := isqrt(pairCount)
		if n*n != pairCount {
			return nil, 0, fmt.Errorf("export: malformed touchstone data row: %d pairs is not a perfect square", pairCount)
		}
		s := make([][]complexmath.Complex, n)
		for i := range s {
			s[i] = make([]complexmath.Complex, n)
		}
		idx := 0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var re, im float64
				fmt.Sscanf(rest[idx], "%g", &re)
				fmt.Sscanf(rest[idx+1], "%g", &im)
				s[i][j] = complexmath.C(re, im)
				idx += 2
			}
		}
		points = append(points, TouchstonePoint{FreqHz: freq, S: s})
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	return points, z0, nil
}

func isqrt(x int) int {
	for n := 0; n*n <= x; n++ {
		if n*n == x {
			return n
		}
	}
	return -1
}
