/*
Package polygon implements closed polygons, which may consist of several
contours. Polygons are either built point by point or flattened from
resolved cyclic paths, and may be combined with boolean operations.

Boolean operations use the Martinez-Rueda clipping algorithm, as
implemented by package polyclip. Insideness follows the even-odd rule.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package polygon

import (
	"errors"
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/knotwork"
	"github.com/npillmayer/knotwork/knots"
	"github.com/npillmayer/schuko/tracing"
)

// L traces to the graphics tracer.
func L() tracing.Trace {
	return tracing.Select("graphics")
}

var (
	// ErrUnresolvedPath is returned when flattening a path without control points.
	ErrUnresolvedPath = errors.New("path is not resolved")
	// ErrOpenPath is returned when flattening a path which is not a cycle.
	ErrOpenPath = errors.New("path is not a cycle")
	// ErrTolerance is returned for a flattening tolerance which is not positive.
	ErrTolerance = errors.New("invalid flattening tolerance")
)

// maxSubdivision limits the number of lines a single Bézier segment is
// flattened to.
const maxSubdivision = 1024

// Polygon is a set of closed contours. The zero value is an empty polygon.
type Polygon struct {
	contours polyclip.Polygon
	open     bool // the last contour still receives knots
}

// NullPolygon creates an empty polygon, to be extended by subsequent calls
// to Knot and closed with Cycle.
//
//	pg := NullPolygon().Knot(P(0,0)).Knot(P(1,3)).Knot(P(3,0)).Cycle()
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot adds a point to the current contour. After Cycle, a new contour is
// started.
func (pg *Polygon) Knot(p knotwork.Pair) *Polygon {
	if !pg.open {
		pg.contours.Add(polyclip.Contour{})
		pg.open = true
	}
	pg.contours[len(pg.contours)-1].Add(point(p))
	return pg
}

// Cycle closes the current contour.
func (pg *Polygon) Cycle() *Polygon {
	pg.open = false
	return pg
}

// Box creates a rectangular polygon from two opposite corners.
func Box(p1, p2 knotwork.Pair) *Polygon {
	x0, x1 := math.Min(p1.X(), p2.X()), math.Max(p1.X(), p2.X())
	y0, y1 := math.Min(p1.Y(), p2.Y()), math.Max(p1.Y(), p2.Y())
	return NullPolygon().Knot(knotwork.P(x0, y0)).Knot(knotwork.P(x1, y0)).
		Knot(knotwork.P(x1, y1)).Knot(knotwork.P(x0, y1)).Cycle()
}

// N returns the number of points of all contours.
func (pg *Polygon) N() int {
	return pg.contours.NumVertices()
}

// Contours returns the number of contours.
func (pg *Polygon) Contours() int {
	return len(pg.contours)
}

// Pt returns point i of contour c.
func (pg *Polygon) Pt(c, i int) knotwork.Pair {
	return pair(pg.contours[c][i])
}

// IsEmpty is true for a polygon without points.
func (pg *Polygon) IsEmpty() bool {
	return pg.N() == 0
}

// FromPath flattens a resolved cyclic path into a polygon of one contour.
// Every Bézier segment is subdivided into lines deviating at most tolerance
// from the curve (Wang's formula).
func FromPath(path *knots.Path, tolerance float64) (*Polygon, error) {
	if !(tolerance > 0) {
		return nil, fmt.Errorf("%w: %g", ErrTolerance, tolerance)
	}
	if !path.IsCycle() {
		return nil, ErrOpenPath
	}
	if !path.IsResolved() {
		return nil, ErrUnresolvedPath
	}
	pg := NullPolygon()
	start := path.Start()
	pg.Knot(start)
	last := start
	from := start
	for seg := range path.Segments() {
		n := subdivisions(from, seg.C1, seg.C2, seg.Z, tolerance)
		for i := 1; i <= n; i++ {
			pt := cubic(from, seg.C1, seg.C2, seg.Z, float64(i)/float64(n))
			if pt != last && pt != start {
				pg.Knot(pt)
				last = pt
			}
		}
		from = seg.Z
	}
	pg.Cycle()
	L().Debugf("flattened path of %d knots to %d points", path.N(), pg.N())
	return pg, nil
}

// subdivisions applies Wang's formula: n = ⌈√(3·max|Δ²P| / 4ε)⌉.
func subdivisions(p0, p1, p2, p3 knotwork.Pair, tolerance float64) int {
	d1 := p0 - p1.Scaled(2) + p2
	d2 := p1 - p2.Scaled(2) + p3
	m := math.Max(d1.Abs(), d2.Abs())
	if m == 0 {
		return 1
	}
	n := math.Ceil(math.Sqrt(3 * m / (4 * tolerance)))
	if n < 1 {
		return 1
	}
	return int(math.Min(n, maxSubdivision))
}

// B(t) = (1-t)³P0 + 3(1-t)²tP1 + 3(1-t)t²P2 + t³P3
func cubic(p0, p1, p2, p3 knotwork.Pair, t float64) knotwork.Pair {
	if t == 1 {
		return p3
	}
	omt := 1 - t
	return p0.Scaled(omt*omt*omt) + p1.Scaled(3*omt*omt*t) + p2.Scaled(3*omt*t*t) + p3.Scaled(t*t*t)
}

// BoundingBox returns the lower left and upper right corner of the smallest
// axis-parallel rectangle enclosing pg.
func (pg *Polygon) BoundingBox() (knotwork.Pair, knotwork.Pair) {
	if pg.IsEmpty() {
		return knotwork.Origin, knotwork.Origin
	}
	r := pg.contours.BoundingBox()
	return pair(r.Min), pair(r.Max)
}

// Contains checks if a point lies inside pg. Contours nested within each
// other are holes.
func (pg *Polygon) Contains(p knotwork.Pair) bool {
	inside := false
	for _, c := range pg.contours {
		if len(c) > 2 && c.Contains(point(p)) {
			inside = !inside
		}
	}
	return inside
}

// Union returns a new polygon covering the area of pg or other.
func (pg *Polygon) Union(other *Polygon) *Polygon {
	return pg.construct(polyclip.UNION, other)
}

// Intersection returns a new polygon covering the area of both pg and other.
func (pg *Polygon) Intersection(other *Polygon) *Polygon {
	return pg.construct(polyclip.INTERSECTION, other)
}

// Difference returns a new polygon covering the area of pg, except other.
func (pg *Polygon) Difference(other *Polygon) *Polygon {
	return pg.construct(polyclip.DIFFERENCE, other)
}

// Xor returns a new polygon covering the area of exactly one of pg or other.
func (pg *Polygon) Xor(other *Polygon) *Polygon {
	return pg.construct(polyclip.XOR, other)
}

func (pg *Polygon) construct(op polyclip.Op, other *Polygon) *Polygon {
	result := pg.contours.Construct(op, other.contours)
	L().Debugf("polygon operation %d: %d and %d points result in %d points",
		op, pg.N(), other.N(), result.NumVertices())
	return &Polygon{contours: result}
}

// AsString returns a polygon as a MetaPost-like string, e.g.
//
//	(0,0) -- (1,3) -- (3,0) -- cycle
//
// Contours are separated by commas.
func AsString(pg *Polygon) string {
	var sb strings.Builder
	for c, contour := range pg.contours {
		if c > 0 {
			sb.WriteString(", ")
		}
		for i, pt := range contour {
			if i > 0 {
				sb.WriteString(" -- ")
			}
			fmt.Fprintf(&sb, "(%.4g,%.4g)", pt.X, pt.Y)
		}
		if len(contour) > 0 {
			sb.WriteString(" -- cycle")
		}
	}
	return sb.String()
}

func point(p knotwork.Pair) polyclip.Point {
	return polyclip.Point{X: p.X(), Y: p.Y()}
}

func pair(p polyclip.Point) knotwork.Pair {
	return knotwork.P(p.X, p.Y)
}
