package knots

import (
	"fmt"
	"iter"
	"strings"

	"github.com/npillmayer/knotwork"
)

// Segment is a cubic Bézier segment of a resolved path. Its start point is
// the end point of the previous segment, or Path.Start() for the first one.
type Segment struct {
	C1, C2 knotwork.Pair // control points
	Z      knotwork.Pair // end point
}

// Start returns the position of the first knot.
func (path *Path) Start() knotwork.Pair {
	return path.knots[0].Z
}

// Segments returns the Bézier segments of a resolved path: one for every pair
// of consecutive knots, and for a cycle a final one back to the first knot.
// Each call starts a fresh walk over the knots. An unresolved path yields no
// segments.
func (path *Path) Segments() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		if !path.resolved {
			tracer().Errorf("segments requested for unresolved path")
			return
		}
		n := path.N()
		count := n - 1
		if path.cycle {
			count = n
		}
		for i := 0; i < count; i++ {
			p, q := &path.knots[i], &path.knots[(i+1)%n]
			if !yield(Segment{C1: p.R, C2: q.L, Z: q.Z}) {
				return
			}
		}
	}
}

// BezierPoints collects the segments of a resolved path into a flat list of
// points: start, then (c1, c2, z) for every segment.
func (path *Path) BezierPoints() []knotwork.Pair {
	pts := []knotwork.Pair{path.Start()}
	for seg := range path.Segments() {
		pts = append(pts, seg.C1, seg.C2, seg.Z)
	}
	return pts
}

// AsString returns
// a path -- including spline control points, if resolved -- as a (debugging)
// string. The string contains newlines if control point information is present.
// Otherwise it will include the knot coordinates in one line.
//
// Example, a circle of diameter 1 around (2,1):
//
//	(1,1) .. controls (1.0000,1.5523) and (1.4477,2.0000)
//	  .. (2,2) .. controls (2.5523,2.0000) and (3.0000,1.5523)
//	  .. (3,1) .. controls (3.0000,0.4477) and (2.5523,0.0000)
//	  .. (2,0) .. controls (1.4477,0.0000) and (1.0000,0.4477)
//	  .. cycle
//
// The format is not fully equivalent to MetaPost's, but close.
func AsString(path *Path) string {
	var sb strings.Builder
	contr := path.resolved
	n := path.N()
	for i := 0; i < n; i++ {
		k := &path.knots[i]
		if i > 0 {
			if contr {
				fmt.Fprintf(&sb, " and %s\n  .. ", ptstring(k.L, true))
			} else {
				sb.WriteString(" .. ")
			}
		}
		sb.WriteString(ptstring(k.Z, false))
		if contr && (i < n-1 || path.cycle) {
			fmt.Fprintf(&sb, " .. controls %s", ptstring(k.R, true))
		}
	}
	if path.cycle {
		if contr {
			fmt.Fprintf(&sb, " and %s\n ", ptstring(path.knots[0].L, true))
		}
		sb.WriteString(" .. cycle")
	}
	return sb.String()
}
