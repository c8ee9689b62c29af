package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/sweep"
)

// WriteParamCSV writes the single-parameter CSV form: frequency plus
// magnitude(dB) and phase(deg) for one S_ij across the sweep (spec §6).
func WriteParamCSV(w io.Writer, result *sweep.Result, portI, portJ int, label string) error {
	cw := csv.NewWriter(w)
	header := []string{"Frequency (Hz)", label + " Magnitude (dB)", label + " Phase (deg)"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, pt := range result.Points {
		row := []string{
			strconv.FormatFloat(pt.FreqHz, 'e', 6, 64),
			strconv.FormatFloat(pt.MagnitudeDB[portI][portJ], 'f', 6, 64),
			strconv.FormatFloat(pt.PhaseDeg[portI][portJ], 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFullSMatrixCSV writes the frequency column plus two columns
// (mag dB, phase deg) per S_ij in column-major port ordering (spec §6).
func WriteFullSMatrixCSV(w io.Writer, result *sweep.Result) error {
	if len(result.Points) == 0 {
		return fmt.Errorf("export: empty sweep result")
	}
	n := len(result.Points[0].S)
	cw := csv.NewWriter(w)

	header := []string{"Frequency (Hz)"}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			label := fmt.Sprintf("S%d%d", i+1, j+1)
			header = append(header, label+" Magnitude (dB)", label+" Phase (deg)")
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, pt := range result.Points {
		row := []string{strconv.FormatFloat(pt.FreqHz, 'e', 6, 64)}
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				row = append(row,
					strconv.FormatFloat(pt.MagnitudeDB[i][j], 'f', 6, 64),
					strconv.FormatFloat(pt.PhaseDeg[i][j], 'f', 6, 64),
				)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// VNAMeasurement is one named trace read back from a Keysight-style VNA
// CSV export.
type VNAMeasurement struct {
	Kind   string // "log mag", "lin mag", "phase", "swr", "delay"
	FreqHz []float64
	Value  []float64
}

// ReadVNACSV parses a Keysight-style VNA CSV: lines starting with "!" are
// metadata, and a BEGIN/END block holds a header row naming "freq" and a
// measurement kind (spec §6).
func ReadVNACSV(r io.Reader) ([]VNAMeasurement, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '!'

	var measurements []VNAMeasurement
	var inBlock bool
	var freqCol, valueCol int = -1, -1
	var kind string

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 {
			continue
		}
		first := strings.TrimSpace(rec[0])
		switch {
		case strings.EqualFold(first, "BEGIN"):
			inBlock = true
			continue
		case strings.EqualFold(first, "END"):
			inBlock = false
			freqCol, valueCol = -1, -1
			continue
		}
		if !inBlock {
			continue
		}
		if freqCol == -1 {
			for i, f := range rec {
				lf := strings.ToLower(strings.TrimSpace(f))
				if lf == "freq" {
					freqCol = i
				} else if k := matchMeasurementKind(lf); k != "" {
					valueCol = i
					kind = k
				}
			}
			measurements = append(measurements, VNAMeasurement{Kind: kind})
			continue
		}
		if freqCol < 0 || freqCol >= len(rec) || valueCol < 0 || valueCol >= len(rec) {
			continue
		}
		f, err1 := strconv.ParseFloat(strings.TrimSpace(rec[freqCol]), 64)
		v, err2 := strconv.ParseFloat(strings.TrimSpace(rec[valueCol]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		last := &measurements[len(measurements)-1]
		last.FreqHz = append(last.FreqHz, f)
		last.Value = append(last.Value, v)
	}
	return measurements, nil
}

func matchMeasurementKind(lower string) string {
	for _, k := range []string{"log mag", "lin mag", "phase", "swr", "delay"} {
		if strings.Contains(lower, k) {
			return k
		}
	}
	return ""
}

// WriteMatchingRangeCSV writes a matching-range Gamma path: first line
// "Matching Range,<Z0 real>,<Z0 imag>", header "PathID,Real,Imag", rows
// "<pathIndex>,<gammaReal>,<gammaImag>" (spec §6).
func WriteMatchingRangeCSV(w io.Writer, path []complexmath.Complex, z0 complexmath.Complex) error {
	if _, err := fmt.Fprintf(w, "Matching Range,%g,%g\n", z0.Re, z0.Im); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"PathID", "Real", "Imag"}); err != nil {
		return err
	}
	for i, g := range path {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(g.Re, 'f', 8, 64),
			strconv.FormatFloat(g.Im, 'f', 8, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatchingRangeCSV parses a matching-range CSV back into a Gamma path
// and its recorded Z0.
func ReadMatchingRangeCSV(r io.Reader) ([]complexmath.Complex, complexmath.Complex, error) {
	br := bufio.NewReader(r)
	firstLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, complexmath.Complex{}, err
	}
	fields := strings.Split(strings.TrimSpace(firstLine), ",")
	var z0 complexmath.Complex
	if len(fields) == 3 {
		re, _ := strconv.ParseFloat(fields[1], 64)
		im, _ := strconv.ParseFloat(fields[2], 64)
		z0 = complexmath.C(re, im)
	}

	cw := csv.NewReader(br)
	rows, err := cw.ReadAll()
	if err != nil {
		return nil, z0, err
	}
	var path []complexmath.Complex
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "PathID") {
			continue
		}
		if len(row) < 3 {
			continue
		}
		re, err1 := strconv.ParseFloat(row[1], 64)
		im, err2 := strconv.ParseFloat(row[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		path = append(path, complexmath.C(re, im))
	}
	return path, z0, nil
}
