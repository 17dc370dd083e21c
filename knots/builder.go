package knots

import (
	"fmt"
	"math"

	"github.com/npillmayer/knotwork"
)

// NewPath creates a path from a sequence of knots. The knots are copied; the
// caller's slice is not referenced afterwards.
//
// NewPath validates the knot sequence and normalizes the side constraints
// the way MetaPost's path scanner does:
//
//   - for an open path, the outer sides of the first and last knot become
//     endpoints, and open sides next to them become curl 1;
//   - a given direction or curl on one side of a knot is copied to an open
//     side on the other;
//   - an open side opposite to an explicit control point takes the direction
//     implied by that control point (or curl 1, if the control point
//     coincides with the knot).
func NewPath(knots []Knot, cyclic bool) (*Path, error) {
	if len(knots) == 0 {
		return nil, fmt.Errorf("%w: path has no knots", ErrInvalidTopology)
	}
	path := &Path{
		knots: make([]Knot, len(knots)),
		cycle: cyclic,
	}
	copy(path.knots, knots)
	if err := path.validate(); err != nil {
		return nil, err
	}
	path.normalize()
	for i := range path.knots {
		path.knots[i].clearControls()
	}
	return path, nil
}

func (path *Path) validate() error {
	n := path.N()
	for i := range path.knots {
		k := &path.knots[i]
		if !k.Z.IsFinite() {
			return fmt.Errorf("%w: knot %d has invalid coordinate %v", ErrInvalidParameter, i, k.Z)
		}
		if err := validateSide(k.Left); err != nil {
			return fmt.Errorf("%w at left side of knot %d", err, i)
		}
		if err := validateSide(k.Right); err != nil {
			return fmt.Errorf("%w at right side of knot %d", err, i)
		}
		if path.cycle {
			if k.Left.kind == Endpoint || k.Right.kind == Endpoint {
				return fmt.Errorf("%w: endpoint at knot %d of a cycle", ErrInvalidTopology, i)
			}
			continue
		}
		if i > 0 && k.Left.kind == Endpoint {
			return fmt.Errorf("%w: endpoint at left side of inner knot %d", ErrInvalidTopology, i)
		}
		if i < n-1 && k.Right.kind == Endpoint {
			return fmt.Errorf("%w: endpoint at right side of inner knot %d", ErrInvalidTopology, i)
		}
	}
	// explicit control points come in pairs
	limit := n - 1
	if path.cycle {
		limit = n
	}
	for i := 0; i < limit; i++ {
		p, q := &path.knots[i], &path.knots[(i+1)%n]
		if (p.Right.kind == Explicit) != (q.Left.kind == Explicit) {
			return fmt.Errorf("%w: segment %d has only one explicit control point",
				ErrInvalidParameter, i)
		}
	}
	return nil
}

func validateSide(s Side) error {
	switch s.kind {
	case Endpoint, Open:
	case Explicit:
		if !s.ctrl.IsFinite() {
			return fmt.Errorf("%w: control point %v", ErrInvalidParameter, s.ctrl)
		}
	case Given:
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) {
			return fmt.Errorf("%w: direction angle %g", ErrInvalidParameter, s.value)
		}
	case Curl:
		if !(s.value >= 0) || math.IsInf(s.value, 0) {
			return fmt.Errorf("%w: curl %g", ErrInvalidParameter, s.value)
		}
	default:
		return fmt.Errorf("%w: unsupported side type %s", ErrInvalidParameter, s.kind)
	}
	if s.hasTension && (s.tension == 0 || math.IsNaN(s.tension)) {
		return fmt.Errorf("%w: tension %g", ErrInvalidParameter, s.tension)
	}
	return nil
}

// normalize applies the copy-across rules. It runs once, when the path is
// created.
func (path *Path) normalize() {
	n := path.N()
	if !path.cycle {
		first, last := &path.knots[0], &path.knots[n-1]
		first.Left = EndpointSide()
		last.Right = EndpointSide()
		if n > 1 {
			if first.Right.kind == Open {
				first.Right = withKind(first.Right, Curl, 1)
			}
			if last.Left.kind == Open {
				last.Left = withKind(last.Left, Curl, 1)
			}
		}
	}
	for i := range path.knots {
		k := &path.knots[i]
		switch {
		case k.Left.kind == Open && (k.Right.kind == Given || k.Right.kind == Curl):
			k.Left = withKind(k.Left, k.Right.kind, k.Right.value)
		case k.Right.kind == Open && (k.Left.kind == Given || k.Left.kind == Curl):
			k.Right = withKind(k.Right, k.Left.kind, k.Left.value)
		case k.Left.kind == Open && k.Right.kind == Explicit:
			k.Left = impliedSide(k.Left, k.Right.ctrl-k.Z)
		case k.Right.kind == Open && k.Left.kind == Explicit:
			k.Right = impliedSide(k.Right, k.Z-k.Left.ctrl)
		}
	}
}

// withKind changes the type of s, keeping its tension.
func withKind(s Side, kind SideKind, value float64) Side {
	s.kind, s.value = kind, value
	return s
}

// impliedSide turns s into a given direction along dir, or into curl 1 if
// dir is the zero vector.
func impliedSide(s Side, dir knotwork.Pair) Side {
	if dir == knotwork.Origin {
		return withKind(s, Curl, 1)
	}
	return withKind(s, Given, dir.Angle())
}

// Transformed returns a new, unresolved path with knots and explicit control
// points mapped through m. Given directions are mapped by the linear part
// of m.
func (path *Path) Transformed(m knotwork.AT) (*Path, error) {
	if m.Determinant() == 0 {
		return nil, fmt.Errorf("%w: singular transform %s", ErrInvalidParameter, m)
	}
	knots := make([]Knot, path.N())
	for i, k := range path.knots {
		k.Z = m.Transform(k.Z)
		k.Left = transformSide(k.Left, m)
		k.Right = transformSide(k.Right, m)
		knots[i] = k
	}
	return NewPath(knots, path.cycle)
}

func transformSide(s Side, m knotwork.AT) Side {
	switch s.kind {
	case Explicit:
		s.ctrl = m.Transform(s.ctrl)
	case Given:
		s.value = m.TransformVector(knotwork.Dir(s.value)).Angle()
	}
	return s
}

// Reversed returns a new, unresolved path which traverses the knots of path
// in opposite order. Left and right sides are swapped and given directions
// are turned around.
func (path *Path) Reversed() (*Path, error) {
	n := path.N()
	knots := make([]Knot, n)
	for i, k := range path.knots {
		k.Left, k.Right = reverseSide(k.Right), reverseSide(k.Left)
		knots[n-1-i] = k
	}
	return NewPath(knots, path.cycle)
}

func reverseSide(s Side) Side {
	if s.kind == Given {
		s.value = normalizeAngle(s.value + math.Pi)
	}
	return s
}

// --- Builder ---------------------------------------------------------------

// Builder assembles a path knot by knot. Start with Nullpath() and finish
// with End() or Cycle(). The first error encountered is kept and returned
// by End() or Cycle().
type Builder struct {
	knots   []Knot
	pending func(*Side) // join settings for the left side of the next knot
	err     error
}

// Nullpath creates an empty path builder, to be extended by subsequent
// builder calls. The following example builds a closed path of three knots,
// which are connected by a curve, then a straight line, and a curve again.
//
//	path, err := Nullpath().Knot(P(0,0)).Curve().Knot(P(3,2)).Line().Knot(P(5,2.5)).Curve().Cycle()
//
// Calling Cycle() or End() returns a path with no control point information
// yet. Resolve will fill in the control points.
func Nullpath() *Builder {
	return &Builder{}
}

// Knot adds a standard smooth knot to a path.
func (b *Builder) Knot(p knotwork.Pair) *Builder {
	return b.add(p, OpenSide(), OpenSide())
}

// CurlKnot adds a knot with curl information. Callers may specify pre- and/or
// post-curl. A curl value of 1.0 is considered neutral.
func (b *Builder) CurlKnot(p knotwork.Pair, precurl, postcurl float64) *Builder {
	return b.add(p, CurlSide(precurl), CurlSide(postcurl))
}

// DirKnot adds a knot with a given tangent direction.
func (b *Builder) DirKnot(p knotwork.Pair, dir knotwork.Pair) *Builder {
	return b.add(p, DirSide(dir), DirSide(dir))
}

// GivenKnot adds a knot with a given tangent angle (radians).
func (b *Builder) GivenKnot(p knotwork.Pair, angle float64) *Builder {
	return b.add(p, GivenSide(angle), GivenSide(angle))
}

// SideKnot adds a knot with arbitrary side constraints.
func (b *Builder) SideKnot(p knotwork.Pair, left, right Side) *Builder {
	return b.add(p, left, right)
}

func (b *Builder) add(p knotwork.Pair, left, right Side) *Builder {
	k := NewKnot(p.X(), p.Y(), left, right)
	if b.pending != nil {
		b.pending(&k.Left)
		b.pending = nil
	}
	b.knots = append(b.knots, k)
	return b
}

// Curve connects two knots with a smooth curve.
func (b *Builder) Curve() *Builder {
	return b.join("curve", func(s *Side) {}, func(s *Side) {})
}

// TensionCurve connects two knots with a tense curve.
func (b *Builder) TensionCurve(t1, t2 float64) *Builder {
	return b.join("tension curve",
		func(s *Side) { *s = s.WithTension(t1) },
		func(s *Side) { *s = s.WithTension(t2) })
}

// AtLeastCurve connects two knots with a curve of "at least" tensions,
// which will stay within the bounding triangle of its control points
// if possible.
func (b *Builder) AtLeastCurve(t1, t2 float64) *Builder {
	return b.join("tension atleast curve",
		func(s *Side) { *s = s.AtLeast(t1) },
		func(s *Side) { *s = s.AtLeast(t2) })
}

// Line connects two knots with a straight line (curl 1 on both ends).
func (b *Builder) Line() *Builder {
	return b.join("line",
		func(s *Side) { *s = withKind(*s, Curl, 1) },
		func(s *Side) { *s = withKind(*s, Curl, 1) })
}

// Controls connects two knots with explicit control points.
func (b *Builder) Controls(c1, c2 knotwork.Pair) *Builder {
	return b.join("controls",
		func(s *Side) { *s = ExplicitSide(c1) },
		func(s *Side) { *s = ExplicitSide(c2) })
}

func (b *Builder) join(what string, post, pre func(*Side)) *Builder {
	if len(b.knots) == 0 {
		if b.err == nil {
			b.err = fmt.Errorf("%w: cannot add %s to empty path", ErrInvalidTopology, what)
		}
		return b
	}
	post(&b.knots[len(b.knots)-1].Right)
	b.pending = pre
	return b
}

// End finishes an open path.
func (b *Builder) End() (*Path, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.pending != nil {
		tracer().Debugf("join at end of open path ignored")
	}
	return NewPath(b.knots, false)
}

// Cycle closes a cyclic path. A pending join connects the last knot to the
// first one.
func (b *Builder) Cycle() (*Path, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.pending != nil && len(b.knots) > 0 {
		b.pending(&b.knots[0].Left)
		b.pending = nil
	}
	return NewPath(b.knots, true)
}
