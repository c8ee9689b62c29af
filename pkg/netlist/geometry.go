package netlist

import (
	"math"

	"rfcore/internal/consts"
	"rfcore/pkg/component"
)

// withinTolerance reports whether two points are closer than the
// adjacency tolerance tau, compared on squared distance to avoid a sqrt
// on the hot path — the same eps-tolerant-compare shape as bfix-antgen's
// IsNull/InRange helpers (lib/math.go), adapted from a 1D tolerance to a
// 2D squared-distance one.
func withinTolerance(a, b component.Point) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy < consts.AdjacencyTolerance*consts.AdjacencyTolerance
}

// distToSegment returns the shortest distance from point p to the segment
// [a,b].
func distToSegment(p, a, b component.Point) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	segLenSq := vx*vx + vy*vy
	if segLenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*vx + (p.Y-a.Y)*vy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	cx, cy := a.X+t*vx, a.Y+t*vy
	return math.Hypot(p.X-cx, p.Y-cy)
}

// wiresAdjacent reports whether two wires are electrically adjacent at
// tolerance tau: an endpoint of one coincides with an endpoint of the
// other, or an endpoint of one lies on the other's segment interior
// (T-junction).
func wiresAdjacent(a, b *component.Wire) bool {
	aStart := component.Point{X: a.StartX, Y: a.StartY}
	aEnd := component.Point{X: a.EndX, Y: a.EndY}
	bStart := component.Point{X: b.StartX, Y: b.StartY}
	bEnd := component.Point{X: b.EndX, Y: b.EndY}

	if withinTolerance(aStart, bStart) || withinTolerance(aStart, bEnd) ||
		withinTolerance(aEnd, bStart) || withinTolerance(aEnd, bEnd) {
		return true
	}
	if distToSegment(aStart, bStart, bEnd) < consts.AdjacencyTolerance ||
		distToSegment(aEnd, bStart, bEnd) < consts.AdjacencyTolerance ||
		distToSegment(bStart, aStart, aEnd) < consts.AdjacencyTolerance ||
		distToSegment(bEnd, aStart, aEnd) < consts.AdjacencyTolerance {
		return true
	}
	return false
}
