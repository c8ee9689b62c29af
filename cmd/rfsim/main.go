// Command rfsim drives the RF circuit simulator core from the command
// line: load a schematic document, run a frequency sweep or a
// matching-range scan, and export the result as Touchstone or CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"rfcore/pkg/complexmath"
	"rfcore/pkg/export"
	"rfcore/pkg/match"
	"rfcore/pkg/persist"
	"rfcore/pkg/render"
	"rfcore/pkg/schematic"
	"rfcore/pkg/simulate"
	"rfcore/pkg/sweep"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: rfsim <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  sweep   -in schematic.json -out result.s2p [-cache db.sqlite]")
	fmt.Fprintln(os.Stderr, "  match   -in schematic.json -select C_1:capacitance:1e-12:1e-10 -f0 1e9 -out path.csv [-smith smith.png]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "sweep":
		err = runSweep(os.Args[2:])
	case "match":
		err = runMatch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	in := fs.String("in", "", "schematic document (JSON)")
	out := fs.String("out", "", "output Touchstone file (.sNp)")
	csvOut := fs.String("csv", "", "output full S-matrix CSV file")
	freqStart := fs.Float64("fstart", 1e6, "sweep start frequency (Hz)")
	freqEnd := fs.Float64("fend", 1e9, "sweep end frequency (Hz)")
	points := fs.Int("points", 201, "number of frequency points")
	logScale := fs.Bool("log", true, "use logarithmic frequency spacing")
	cachePath := fs.String("cache", "", "SQLite result cache path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || (*out == "" && *csvOut == "") {
		return fmt.Errorf("rfsim sweep: -in and one of -out/-csv are required")
	}

	circuit, err := schematic.LoadDocument(*in)
	if err != nil {
		return fmt.Errorf("loading schematic: %w", err)
	}

	scale := sweep.Linear
	if *logScale {
		scale = sweep.Logarithmic
	}
	cfg := sweep.Config{
		FreqStart:  *freqStart,
		FreqEnd:    *freqEnd,
		FreqPoints: *points,
		Scale:      scale,
	}

	var cache *persist.Cache
	var fingerprint string
	if *cachePath != "" {
		cache, err = persist.Open(*cachePath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer cache.Close()
		fingerprint, err = persist.Fingerprint(circuit, cfg)
		if err != nil {
			return fmt.Errorf("fingerprinting sweep: %w", err)
		}
	}

	var result *sweep.Result
	if cache != nil {
		if cached, ok, err := cache.Get(fingerprint); err == nil && ok {
			result = cached
			fmt.Fprintln(os.Stderr, "rfsim: using cached sweep result")
		}
	}

	if result == nil {
		progress := func(p float64) { fmt.Fprintf(os.Stderr, "\rrfsim: sweeping... %3.0f%%", p*100) }
		result, err = simulate.Sweep(circuit, cfg, progress, nil)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("running sweep: %w", err)
		}
		if cache != nil {
			if err := cache.Put(fingerprint, time.Now().Unix(), result); err != nil {
				fmt.Fprintf(os.Stderr, "rfsim: warning: caching result: %v\n", err)
			}
		}
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *out, err)
		}
		defer f.Close()
		if err := export.WriteTouchstone(f, result, 50); err != nil {
			return fmt.Errorf("writing touchstone: %w", err)
		}
	}
	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *csvOut, err)
		}
		defer f.Close()
		if err := export.WriteFullSMatrixCSV(f, result); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	return nil
}

func runMatch(args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	in := fs.String("in", "", "schematic document (JSON)")
	out := fs.String("out", "", "output matching-range CSV file")
	smithOut := fs.String("smith", "", "optional Smith-chart PNG output")
	f0 := fs.Float64("f0", 1e9, "center frequency (Hz)")
	steps := fs.Int("steps", 8, "steps per hypercube edge")
	invert := fs.Bool("invert-reactance", false, "invert reactance sign (series vs. shunt convention)")
	var selectFlags stringList
	fs.Var(&selectFlags, "select", "tuned parameter as id:param:min:max (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" || len(selectFlags) == 0 {
		return fmt.Errorf("rfsim match: -in, -out and at least one -select are required")
	}

	circuit, err := schematic.LoadDocument(*in)
	if err != nil {
		return fmt.Errorf("loading schematic: %w", err)
	}

	selections := make([]match.Selection, 0, len(selectFlags))
	for _, raw := range selectFlags {
		sel, err := parseSelection(raw)
		if err != nil {
			return err
		}
		selections = append(selections, sel)
	}

	cfg := match.Config{
		Selections:      selections,
		F0:              *f0,
		StepsPerEdge:    *steps,
		InvertReactance: *invert,
		Z0:              complexmath.C(50, 0),
	}

	progress := func(p float64) { fmt.Fprintf(os.Stderr, "\rrfsim: matching... %3.0f%%", p*100) }
	result, err := simulate.MatchingRange(circuit, cfg, progress, nil)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("running matching-range scan: %w", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *out, err)
	}
	defer f.Close()
	if err := export.WriteMatchingRangeCSV(f, result.Path, cfg.Z0); err != nil {
		return fmt.Errorf("writing matching-range csv: %w", err)
	}

	if *smithOut != "" {
		pf, err := os.Create(*smithOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *smithOut, err)
		}
		defer pf.Close()
		if err := render.WritePNG(pf, result.Path, 12, 12); err != nil {
			return fmt.Errorf("rendering smith chart: %w", err)
		}
	}
	return nil
}

func parseSelection(raw string) (match.Selection, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 4 {
		return match.Selection{}, fmt.Errorf("rfsim: invalid -select %q, want id:param:min:max", raw)
	}
	minV, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return match.Selection{}, fmt.Errorf("rfsim: invalid -select min %q: %w", raw, err)
	}
	maxV, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return match.Selection{}, fmt.Errorf("rfsim: invalid -select max %q: %w", raw, err)
	}
	return match.Selection{ComponentID: parts[0], Param: parts[1], Min: minV, Max: maxV}, nil
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
