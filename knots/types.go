package knots

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/knotwork"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'graphics'
func tracer() tracing.Trace {
	return tracing.Select("graphics")
}

var (
	// ErrInvalidTopology indicates a malformed knot sequence: no knots at all,
	// an endpoint inside an open chain, or an endpoint anywhere in a cycle.
	ErrInvalidTopology = errors.New("invalid path topology")
	// ErrInvalidParameter indicates a bad knot parameter, e.g. a zero tension,
	// a NaN coordinate, or an explicit control point without its partner.
	ErrInvalidParameter = errors.New("invalid path parameter")
	// ErrIllConditionedPath indicates that the equations for the tangent
	// directions turned out to be numerically singular.
	ErrIllConditionedPath = errors.New("ill-conditioned path")
)

// SideKind is the boundary condition type of one side of a knot.
// The ordering follows MetaPost: every kind from Given upwards still
// needs a direction angle to be determined.
type SideKind int8

// Boundary condition types of a knot side.
const (
	Endpoint SideKind = iota // start or end of an open path
	Explicit                 // control point is given
	Given                    // tangent direction is given
	Curl                     // curl ratio at a path end or breakpoint
	Open                     // direction is found by the solver
	endCycle                 // artificial breakpoint of an unbroken cycle
)

func (k SideKind) String() string {
	switch k {
	case Endpoint:
		return "endpoint"
	case Explicit:
		return "explicit"
	case Given:
		return "given"
	case Curl:
		return "curl"
	case Open:
		return "open"
	case endCycle:
		return "end-cycle"
	}
	return fmt.Sprintf("SideKind(%d)", int8(k))
}

// Side specifies the curve behaviour on one side of a knot. The zero value
// is an Endpoint side. Sides are created with EndpointSide, ExplicitSide,
// GivenSide, DirSide, CurlSide and OpenSide; parameters which do not belong
// to the kind cannot be set.
type Side struct {
	kind       SideKind
	value      float64       // curl ratio or given angle
	ctrl       knotwork.Pair // explicit control point
	tension    float64       // negative: "at least"
	hasTension bool
}

// EndpointSide marks the outer side of the first or last knot of an open path.
func EndpointSide() Side {
	return Side{kind: Endpoint}
}

// ExplicitSide sets a control point directly.
func ExplicitSide(ctrl knotwork.Pair) Side {
	return Side{kind: Explicit, ctrl: ctrl}
}

// GivenSide sets the tangent direction at a knot side, in radians.
func GivenSide(angle float64) Side {
	return Side{kind: Given, value: angle}
}

// DirSide sets the tangent direction at a knot side from a direction vector.
// A zero vector does not specify a direction and results in an open side,
// as it does in MetaPost.
func DirSide(dir knotwork.Pair) Side {
	if dir == knotwork.Origin {
		return OpenSide()
	}
	return GivenSide(dir.Angle())
}

// CurlSide sets a curl ratio. A curl of 1 is considered neutral.
func CurlSide(curl float64) Side {
	return Side{kind: Curl, value: curl}
}

// OpenSide leaves the tangent direction to the solver.
func OpenSide() Side {
	return Side{kind: Open}
}

// WithTension returns a copy of s with a fixed tension.
func (s Side) WithTension(t float64) Side {
	s.tension = math.Abs(t)
	s.hasTension = true
	return s
}

// AtLeast returns a copy of s with an "at least" tension: the curve is
// kept inside the bounding triangle of its control polygon where possible.
func (s Side) AtLeast(t float64) Side {
	s.tension = -math.Abs(t)
	s.hasTension = true
	return s
}

// Kind returns the boundary condition type.
func (s Side) Kind() SideKind {
	return s.kind
}

// Curl returns the curl ratio of a Curl side.
func (s Side) Curl() (float64, bool) {
	return s.value, s.kind == Curl
}

// Angle returns the direction angle of a Given side.
func (s Side) Angle() (float64, bool) {
	return s.value, s.kind == Given
}

// Control returns the control point of an Explicit side.
func (s Side) Control() (knotwork.Pair, bool) {
	return s.ctrl, s.kind == Explicit
}

// Tension returns the tension magnitude and whether it is an "at least"
// tension. If no tension has been set, ok is false.
func (s Side) Tension() (t float64, atLeast bool, ok bool) {
	return math.Abs(s.tension), s.tension < 0, s.hasTension
}

func (s Side) String() string {
	switch s.kind {
	case Explicit:
		return fmt.Sprintf("explicit %s", ptstring(s.ctrl, true))
	case Given:
		return fmt.Sprintf("given %.4g°", rad2deg(s.value))
	case Curl:
		return fmt.Sprintf("curl %g", s.value)
	}
	return s.kind.String()
}

// Knot is a point on a path together with the boundary constraints for
// its incoming (left) and outgoing (right) side. L and R receive the
// control points when the path is resolved.
type Knot struct {
	Z     knotwork.Pair // knot position
	Left  Side          // incoming side
	Right Side          // outgoing side
	L, R  knotwork.Pair // incoming and outgoing control points
	lang  float64       // incoming tangent angle, NaN if unknown
	rang  float64       // outgoing tangent angle, NaN if unknown
}

// NewKnot creates a knot at (x,y).
func NewKnot(x, y float64, left, right Side) Knot {
	return Knot{
		Z:     knotwork.P(x, y),
		Left:  left,
		Right: right,
		L:     knotwork.Unknown,
		R:     knotwork.Unknown,
		lang:  math.NaN(),
		rang:  math.NaN(),
	}
}

// InAngle returns the absolute direction of the incoming tangent, as chosen
// by the solver. It is not available for explicit or degenerate sides.
func (k *Knot) InAngle() (float64, bool) {
	return k.lang, !math.IsNaN(k.lang)
}

// OutAngle returns the absolute direction of the outgoing tangent, as chosen
// by the solver. It is not available for explicit or degenerate sides.
func (k *Knot) OutAngle() (float64, bool) {
	return k.rang, !math.IsNaN(k.rang)
}

func (k *Knot) clearControls() {
	k.L, k.R = knotwork.Unknown, knotwork.Unknown
	k.lang, k.rang = math.NaN(), math.NaN()
}

// Path is an open or cyclic sequence of knots. Knots are stored in a flat
// array; for a cycle, the successor of the last knot is the first one.
// Create paths with NewPath or with the builder starting at Nullpath.
type Path struct {
	knots    []Knot
	cycle    bool
	resolved bool
}

// IsCycle is a predicate: is this path cyclic?
func (path *Path) IsCycle() bool {
	return path.cycle
}

// N returns the knot count of this path.
func (path *Path) N() int {
	return len(path.knots)
}

// Knot returns a pointer to the knot at position (i mod N).
func (path *Path) Knot(i int) *Knot {
	return &path.knots[path.index(i)]
}

// Z returns the position of the knot at (i mod N).
func (path *Path) Z(i int) knotwork.Pair {
	return path.knots[path.index(i)].Z
}

// IsResolved is true after a successful call to Resolve.
func (path *Path) IsResolved() bool {
	return path.resolved
}

func (path *Path) index(i int) int {
	n := path.N()
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
