package knots

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/knotwork"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coords(pts []knotwork.Pair) []float64 {
	c := make([]float64, 0, 2*len(pts))
	for _, p := range pts {
		c = append(c, p.X(), p.Y())
	}
	return c
}

func TestCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelInfo)
	path := MustResolve(circle(t), nil)
	const c = 0.5522847498 // 4(√2−1)/3
	want := []knotwork.Pair{
		knotwork.P(1, 1),
		knotwork.P(1, 1+c), knotwork.P(2-c, 2), knotwork.P(2, 2),
		knotwork.P(2+c, 2), knotwork.P(3, 1+c), knotwork.P(3, 1),
		knotwork.P(3, 1-c), knotwork.P(2+c, 0), knotwork.P(2, 0),
		knotwork.P(2-c, 0), knotwork.P(1, 1-c), knotwork.P(1, 1),
	}
	got := path.BezierPoints()
	if diff := cmp.Diff(coords(want), coords(got), cmpopts.EquateApprox(0, 1e-4)); diff != "" {
		t.Errorf("circle control points mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleKnot(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path, err := Nullpath().Knot(knotwork.P(1, 2)).End()
	require.NoError(t, err)
	require.NoError(t, Resolve(path, nil))
	assert.Empty(t, path.BezierPoints()[1:])
	path, err = Nullpath().Knot(knotwork.P(1, 2)).Curve().Cycle()
	require.NoError(t, err)
	require.NoError(t, Resolve(path, nil))
	assert.Equal(t, []knotwork.Pair{knotwork.P(1, 2), knotwork.P(1, 2), knotwork.P(1, 2), knotwork.P(1, 2)},
		path.BezierPoints())
}

func TestStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path, err := Nullpath().Knot(knotwork.P(0, 0)).Line().Knot(knotwork.P(3, 0)).End()
	require.NoError(t, err)
	MustResolve(path, nil)
	assert.InDelta(t, 1.0, path.Knot(0).R.X(), 1e-12)
	assert.InDelta(t, 2.0, path.Knot(1).L.X(), 1e-12)
	assert.Equal(t, knotwork.P(0, 0), path.Knot(0).L, "unused control stays at knot")
	assert.Equal(t, knotwork.P(3, 0), path.Knot(1).R, "unused control stays at knot")
}

// Reversing a path must reverse its curve.
func TestReversalSymmetry(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, f := range []fixture{curve1(), curve2(), curve3(), curve6c(), curve7()} {
		path := MustResolve(mustFixturePath(t, f), nil)
		rev, err := path.Reversed()
		require.NoError(t, err)
		MustResolve(rev, nil)
		n := path.N()
		for i := 0; i < n; i++ {
			k, r := path.Knot(i), rev.Knot(n-1-i)
			assert.InDelta(t, 0, (k.R - r.L).Abs(), 1e-9, "%s: knot %d, right control", f.name, i)
			assert.InDelta(t, 0, (k.L - r.R).Abs(), 1e-9, "%s: knot %d, left control", f.name, i)
		}
	}
}

// Tangent angles reported by the knots must match the control points.
func TestAngleRoundTrip(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, f := range allFixtures() {
		path := MustResolve(mustFixturePath(t, f), nil)
		for i := 0; i < path.N(); i++ {
			k := path.Knot(i)
			if a, ok := k.OutAngle(); ok && (k.R-k.Z).Abs() > 1e-9 {
				assert.InDelta(t, 0, normalizeAngle((k.R-k.Z).Angle()-a), 1e-9,
					"%s: outgoing angle at knot %d", f.name, i)
			}
			if a, ok := k.InAngle(); ok && (k.Z-k.L).Abs() > 1e-9 {
				assert.InDelta(t, 0, normalizeAngle((k.Z-k.L).Angle()-a), 1e-9,
					"%s: incoming angle at knot %d", f.name, i)
			}
		}
	}
}

// A smooth simple cycle turns exactly once.
func TestTotalTurning(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, path := range []*Path{mustFixturePath(t, curve2()), circle(t)} {
		MustResolve(path, nil)
		from := path.Start()
		var prev knotwork.Pair
		turn := 0.0
		first := true
		for seg := range path.Segments() {
			in, out := seg.C1-from, seg.Z-seg.C2
			if !first {
				turn += turningAngle(prev, in)
			}
			turn += turningAngle(in, out)
			prev, from, first = out, seg.Z, false
		}
		out0 := path.Knot(0).R - path.Start()
		turn += turningAngle(prev, out0)
		assert.InDelta(t, 2*math.Pi, math.Abs(turn), 1e-6)
	}
}

func TestCoincidentKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := MustResolve(mustFixturePath(t, curve8a()), nil)
	k1, k2 := path.Knot(1), path.Knot(2)
	assert.Equal(t, k1.Z, k1.R)
	assert.Equal(t, k2.Z, k2.L)
	_, ok := k1.OutAngle()
	assert.False(t, ok, "zero-length segment has no direction")
	// a cycle with a duplicated knot
	path, err := Nullpath().Knot(knotwork.P(0, 0)).Curve().Knot(knotwork.P(1, 0)).Curve().
		Knot(knotwork.P(1, 0)).Curve().Knot(knotwork.P(1, 1)).Curve().Cycle()
	require.NoError(t, err)
	require.NoError(t, Resolve(path, nil))
	for _, p := range path.BezierPoints() {
		assert.True(t, p.IsFinite())
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, f := range allFixtures() {
		path := MustResolve(mustFixturePath(t, f), nil)
		first := path.BezierPoints()
		MustResolve(path, nil)
		if diff := cmp.Diff(first, path.BezierPoints()); diff != "" {
			t.Errorf("%s: second resolve differs (-first +second):\n%s", f.name, diff)
		}
	}
	path := MustResolve(mustFixturePath(t, curve7()), nil)
	assert.Equal(t, knotwork.P(-10, -50), path.Knot(4).R, "explicit controls are kept")
	assert.Equal(t, knotwork.P(100, 50), path.Knot(5).L, "explicit controls are kept")
}

// Hobby's algorithm commutes with similarity transforms, including
// reflections.
func TestSimilarityInvariance(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	transforms := []knotwork.AT{
		knotwork.Rotation(30 * knotwork.Deg2Rad),
		knotwork.Scaling(2, 2).Combine(knotwork.Translation(knotwork.P(5, -7))),
		knotwork.Rotation(-100 * knotwork.Deg2Rad).Combine(knotwork.Scaling(0.5, 0.5)),
		knotwork.Scaling(-1, 1),
	}
	for _, f := range []fixture{curve1(), curve2(), curve5(), curve7()} {
		path := MustResolve(mustFixturePath(t, f), nil)
		for _, m := range transforms {
			tpath, err := path.Transformed(m)
			require.NoError(t, err)
			MustResolve(tpath, nil)
			var want []knotwork.Pair
			for _, p := range path.BezierPoints() {
				want = append(want, m.Transform(p))
			}
			if diff := cmp.Diff(coords(want), coords(tpath.BezierPoints()),
				cmpopts.EquateApprox(0, 1e-7)); diff != "" {
				t.Errorf("%s: transformed path differs (-want +got):\n%s", f.name, diff)
			}
		}
	}
}

func TestAtLeastTensionStaysInTriangle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	build := func(atLeast bool) *Path {
		start, end := GivenSide(60*knotwork.Deg2Rad), GivenSide(-10*knotwork.Deg2Rad)
		if atLeast {
			start, end = start.AtLeast(1), end.AtLeast(1)
		}
		path, err := NewPath([]Knot{
			NewKnot(0, 0, ep(), start),
			NewKnot(100, 0, end, ep()),
		}, false)
		require.NoError(t, err)
		return MustResolve(path, nil)
	}
	// distance from the first knot to the intersection of the tangents
	limit := 100 * math.Sin(10*knotwork.Deg2Rad) / math.Sin(70*knotwork.Deg2Rad)
	free, bounded := build(false), build(true)
	assert.Greater(t, free.Knot(0).R.Abs(), limit)
	assert.LessOrEqual(t, bounded.Knot(0).R.Abs(), limit)
	assert.InDelta(t, (free.Knot(1).L - free.Knot(1).Z).Abs(),
		(bounded.Knot(1).L - bounded.Knot(1).Z).Abs(), 1e-9, "other side is within bounds anyway")
}

func TestConfig(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := DefaultConfig()
	conf.DefaultTension = 0
	err := Resolve(circle(t), conf)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected parameter error for zero default tension, got %v", err)
	}
	// a default tension behaves like tensions set on every side
	conf = DefaultConfig()
	conf.DefaultTension = 2
	dflt := MustResolve(circle(t), conf)
	tense, err := Nullpath().
		Knot(knotwork.P(1, 1)).TensionCurve(2, 2).
		Knot(knotwork.P(2, 2)).TensionCurve(2, 2).
		Knot(knotwork.P(3, 1)).TensionCurve(2, 2).
		Knot(knotwork.P(2, 0)).TensionCurve(2, 2).Cycle()
	require.NoError(t, err)
	MustResolve(tense, nil)
	assert.Equal(t, tense.BezierPoints(), dflt.BezierPoints())
	// tensions below the minimum are raised
	low, err := Nullpath().Knot(knotwork.P(0, 0)).TensionCurve(0.5, 0.5).
		Knot(knotwork.P(1, 1)).Curve().Knot(knotwork.P(2, 0)).End()
	require.NoError(t, err)
	minimal, err := Nullpath().Knot(knotwork.P(0, 0)).TensionCurve(0.75, 0.75).
		Knot(knotwork.P(1, 1)).Curve().Knot(knotwork.P(2, 0)).End()
	require.NoError(t, err)
	assert.Equal(t, MustResolve(minimal, nil).BezierPoints(), MustResolve(low, nil).BezierPoints())
}

func TestIllConditionedLeavesKnotsUntouched(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	conf := DefaultConfig()
	conf.MinTension = 0.1
	path, err := NewPath([]Knot{
		NewKnot(0, 0, ep(), GivenSide(0).WithTension(1.0/3)),
		NewKnot(1, 1, OpenSide(), OpenSide()),
		NewKnot(2, 0, GivenSide(0), ep()),
	}, false)
	require.NoError(t, err)
	err = Resolve(path, conf)
	if !errors.Is(err, ErrIllConditionedPath) {
		t.Fatalf("expected ill-conditioned path, got %v", err)
	}
	assert.False(t, path.IsResolved())
	for i := 0; i < path.N(); i++ {
		assert.True(t, path.Knot(i).L.IsNaN() && path.Knot(i).R.IsNaN())
	}
}

func TestResolveRejectsEmptyPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	if err := Resolve(nil, nil); !errors.Is(err, ErrInvalidTopology) {
		t.Errorf("expected topology error, got %v", err)
	}
	mustPanic(t, func() { MustResolve(&Path{}, nil) })
}

func TestVelocity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := math.Sqrt2 / 2
	assert.InDelta(t, 0.3905242917, velocity(s, s, s, s, 1), 1e-9)
	assert.Equal(t, 4.0, velocity(0, -1, 0, -1, 1), "velocity is capped")
	assert.InDelta(t, 1.0, curlRatio(1, 1, 1), 1e-12)
	assert.InDelta(t, 1.25, curlRatio(2, 1, 1), 1e-12, "equals (2c+1)/(c+2) for tension 1")
	assert.Equal(t, 4.0, curlRatio(0, 1, 1/2.9), "curl ratio is capped")
}

func TestResolveChecksChangedSides(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	triangle := func() *Path {
		path, err := Nullpath().Knot(knotwork.P(0, 0)).Curve().Knot(knotwork.P(2, 0)).Curve().
			Knot(knotwork.P(1, 2)).Curve().Cycle()
		require.NoError(t, err)
		return path
	}
	path := triangle()
	path.Knot(1).Left = EndpointSide()
	err := Resolve(path, nil)
	if !errors.Is(err, ErrInvalidTopology) {
		t.Fatalf("expected topology error for endpoint in cycle, got %v", err)
	}
	assert.False(t, path.IsResolved())
	for i := 0; i < path.N(); i++ {
		assert.True(t, path.Knot(i).L.IsNaN() && path.Knot(i).R.IsNaN())
	}
	// a one-sided direction is copied across, as NewPath would do
	path = triangle()
	path.Knot(1).Right = GivenSide(0)
	require.NoError(t, Resolve(path, nil))
	a, ok := path.Knot(1).Left.Angle()
	assert.True(t, ok)
	assert.Equal(t, 0.0, a)
	for _, p := range path.BezierPoints() {
		assert.True(t, p.IsFinite())
	}
	out, ok := path.Knot(1).OutAngle()
	assert.True(t, ok)
	assert.InDelta(t, 0, out, 1e-12)
	// a lonely explicit control point
	path = triangle()
	path.Knot(0).Right = ExplicitSide(knotwork.P(1, -1))
	if err := Resolve(path, nil); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected parameter error, got %v", err)
	}
}
