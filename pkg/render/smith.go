// Package render draws a diagnostic Smith-chart PNG of a Gamma path (e.g.
// the matching-range engine's output). It is export/diagnostic tooling,
// not the interactive canvas renderer the core spec excludes. Grounded on
// bfix-antgen's lib/smith_chart.go SmithChart plotter.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"rfcore/pkg/complexmath"
)

// normalized resistances whose constant-resistance circles are drawn as
// background grid lines.
var gridSteps = []float64{0.2, 0.5, 1.0, 2.0, 5.0}

// chart is a plot.Plotter drawing the Smith-chart grid plus one Gamma
// track.
type chart struct {
	gamma []complexmath.Complex
}

func (c *chart) Plot(cv draw.Canvas, _ *plot.Plot) {
	c.drawUnitCircle(cv)
	for _, r := range gridSteps {
		c.drawResistanceCircle(cv, r)
	}
	c.drawTrack(cv)
}

func (c *chart) drawUnitCircle(cv draw.Canvas) {
	pts := circlePoints(cv, 0, 0, 1, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	cv.StrokeLines(pts.style, pts.points)
}

func (c *chart) drawResistanceCircle(cv draw.Canvas, r float64) {
	// Constant-resistance circle on the Gamma plane: center (r/(r+1), 0),
	// radius 1/(r+1).
	centerX := r / (r + 1)
	radius := 1 / (r + 1)
	pts := circlePointsAt(cv, centerX, 0, radius, color.RGBA{R: 200, G: 200, B: 200, A: 255})
	cv.StrokeLines(pts.style, pts.points)
}

func (c *chart) drawTrack(cv draw.Canvas) {
	pts := make([]vg.Point, 0, len(c.gamma))
	for _, g := range c.gamma {
		pts = append(pts, toCanvas(cv, g.Re, g.Im))
	}
	sty := draw.LineStyle{Width: vg.Points(1.5), Color: color.RGBA{R: 0, G: 120, B: 220, A: 255}}
	cv.StrokeLines(sty, pts)
}

type strokeSet struct {
	points []vg.Point
	style  draw.LineStyle
}

func circlePoints(cv draw.Canvas, cx, cy, radius float64, col color.Color) strokeSet {
	return circlePointsAt(cv, cx, cy, radius, col)
}

func circlePointsAt(cv draw.Canvas, cx, cy, radius float64, col color.Color) strokeSet {
	const steps = 128
	pts := make([]vg.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / steps
		x := cx + radius*math.Cos(theta)
		y := cy + radius*math.Sin(theta)
		pts = append(pts, toCanvas(cv, x, y))
	}
	return strokeSet{points: pts, style: draw.LineStyle{Width: vg.Points(1), Color: col}}
}

// toCanvas maps Gamma-plane coordinates in [-1,1]x[-1,1] onto the canvas.
func toCanvas(cv draw.Canvas, re, im float64) vg.Point {
	return vg.Point{X: cv.X((re + 1) / 2), Y: cv.Y((im + 1) / 2)}
}

// WritePNG renders a Gamma path onto a Smith chart and writes it as a PNG
// of the given size (centimeters) to w.
func WritePNG(w io.Writer, gamma []complexmath.Complex, widthCM, heightCM float64) error {
	p := plot.New()
	p.Add(&chart{gamma: gamma})
	p.HideAxes()

	wt, err := p.WriterTo(vg.Length(widthCM)*vg.Centimeter, vg.Length(heightCM)*vg.Centimeter, "png")
	if err != nil {
		return fmt.Errorf("render: building PNG writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
