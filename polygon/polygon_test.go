package polygon

import (
	"errors"
	"testing"

	"github.com/npillmayer/knotwork"
	"github.com/npillmayer/knotwork/knots"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pg := NullPolygon().Knot(knotwork.P(0, 0)).Knot(knotwork.P(1, 3)).Knot(knotwork.P(3, 0)).Cycle()
	L().Infof("pg = %s", AsString(pg))
	if pg.N() != 3 {
		t.Fail()
	}
	assert.Equal(t, "(0,0) -- (1,3) -- (3,0) -- cycle", AsString(pg))
	pg.Knot(knotwork.P(5, 5)).Knot(knotwork.P(6, 5)).Knot(knotwork.P(6, 6)).Cycle()
	assert.Equal(t, 2, pg.Contours())
	assert.Equal(t, knotwork.P(6, 5), pg.Pt(1, 1))
}

func TestBox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	box := Box(knotwork.P(0, 5), knotwork.P(4, 1))
	L().Infof("box = %s", AsString(box))
	if box.N() != 4 {
		t.Fail()
	}
	ll, ur := box.BoundingBox()
	assert.Equal(t, knotwork.P(0, 1), ll)
	assert.Equal(t, knotwork.P(4, 5), ur)
	assert.True(t, box.Contains(knotwork.P(2, 3)))
	assert.False(t, box.Contains(knotwork.P(5, 3)))
}

func circle(t *testing.T) *knots.Path {
	path, err := knots.Nullpath().
		Knot(knotwork.P(1, 1)).Curve().
		Knot(knotwork.P(2, 2)).Curve().
		Knot(knotwork.P(3, 1)).Curve().
		Knot(knotwork.P(2, 0)).Curve().Cycle()
	require.NoError(t, err)
	return path
}

func TestFromPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path := circle(t)
	_, err := FromPath(path, 0.01)
	assert.True(t, errors.Is(err, ErrUnresolvedPath))
	knots.MustResolve(path, nil)
	_, err = FromPath(path, 0)
	assert.True(t, errors.Is(err, ErrTolerance))
	pg, err := FromPath(path, 0.001)
	require.NoError(t, err)
	assert.Equal(t, 1, pg.Contours())
	assert.Greater(t, pg.N(), 16)
	ll, ur := pg.BoundingBox()
	assert.InDelta(t, 1, ll.X(), 1e-3)
	assert.InDelta(t, 0, ll.Y(), 1e-3)
	assert.InDelta(t, 3, ur.X(), 1e-3)
	assert.InDelta(t, 2, ur.Y(), 1e-3)
	assert.True(t, pg.Contains(knotwork.P(2, 1)))
	assert.True(t, pg.Contains(knotwork.P(2.6, 1.6)))
	assert.False(t, pg.Contains(knotwork.P(2.8, 1.8)), "corner of the bounding box is outside")
	for i := 0; i < pg.N(); i++ {
		d := (pg.Pt(0, i) - knotwork.P(2, 1)).Abs()
		assert.InDelta(t, 1, d, 0.01, "flattened point %d is off the circle", i)
	}
}

func TestFromOpenPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path, err := knots.Nullpath().Knot(knotwork.P(0, 0)).Curve().Knot(knotwork.P(1, 1)).End()
	require.NoError(t, err)
	knots.MustResolve(path, nil)
	_, err = FromPath(path, 0.1)
	assert.True(t, errors.Is(err, ErrOpenPath))
}

func TestStraightSegmentsAreNotSubdivided(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	path, err := knots.Nullpath().Knot(knotwork.P(0, 0)).Line().Knot(knotwork.P(3, 0)).Line().
		Knot(knotwork.P(3, 3)).Line().Cycle()
	require.NoError(t, err)
	knots.MustResolve(path, nil)
	pg, err := FromPath(path, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 3, pg.N())
	assert.Equal(t, "(0,0) -- (3,0) -- (3,3) -- cycle", AsString(pg))
}

func TestBooleanOperations(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := Box(knotwork.P(0, 0), knotwork.P(2, 2))
	b := Box(knotwork.P(1, 1), knotwork.P(3, 3))
	inA, inB, inBoth := knotwork.P(0.5, 0.5), knotwork.P(2.5, 2.5), knotwork.P(1.5, 1.5)
	union := a.Union(b)
	L().Infof("union = %s", AsString(union))
	assert.True(t, union.Contains(inA) && union.Contains(inB) && union.Contains(inBoth))
	ll, ur := union.BoundingBox()
	assert.Equal(t, knotwork.P(0, 0), ll)
	assert.Equal(t, knotwork.P(3, 3), ur)
	isect := a.Intersection(b)
	assert.True(t, isect.Contains(inBoth))
	assert.False(t, isect.Contains(inA) || isect.Contains(inB))
	diff := a.Difference(b)
	assert.True(t, diff.Contains(inA))
	assert.False(t, diff.Contains(inBoth) || diff.Contains(inB))
	xor := a.Xor(b)
	assert.True(t, xor.Contains(inA) && xor.Contains(inB))
	assert.False(t, xor.Contains(inBoth))
	empty := a.Intersection(Box(knotwork.P(5, 5), knotwork.P(6, 6)))
	assert.True(t, empty.IsEmpty())
}
