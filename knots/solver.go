package knots

import (
	"fmt"
	"math"

	"github.com/npillmayer/knotwork"
)

// solver holds a scratch copy of the side types of a path. The knots of
// the path are only written to after the whole path has been resolved.
type solver struct {
	conf         *Config
	z            []knotwork.Pair
	ltype, rtype []SideKind
	lval, rval   []float64 // curl ratio or given angle
	ltens, rtens []float64 // effective tensions, negative for "at least"
	lc, rc       []knotwork.Pair
	lang, rang   []float64
	// per run between two breakpoints
	idx                    []int // knot index of the k-th knot of the run
	delta                  []knotwork.Pair
	dist                   []float64
	psi, theta, uu, vv, ww []float64
}

func newSolver(path *Path, conf *Config) *solver {
	n := path.N()
	s := &solver{
		conf:  conf,
		z:     make([]knotwork.Pair, n),
		ltype: make([]SideKind, n),
		rtype: make([]SideKind, n),
		lval:  make([]float64, n),
		rval:  make([]float64, n),
		ltens: make([]float64, n),
		rtens: make([]float64, n),
		lc:    make([]knotwork.Pair, n),
		rc:    make([]knotwork.Pair, n),
		lang:  make([]float64, n),
		rang:  make([]float64, n),
	}
	for i := range path.knots {
		k := &path.knots[i]
		s.z[i] = k.Z
		s.ltype[i], s.rtype[i] = k.Left.kind, k.Right.kind
		s.lval[i], s.rval[i] = k.Left.value, k.Right.value
		if k.Left.kind == Given {
			s.lval[i] = normalizeAngle(s.lval[i])
		}
		if k.Right.kind == Given {
			s.rval[i] = normalizeAngle(s.rval[i])
		}
		s.ltens[i], s.rtens[i] = conf.tension(k.Left), conf.tension(k.Right)
		s.lc[i], s.rc[i] = knotwork.Unknown, knotwork.Unknown
		if k.Left.kind == Explicit {
			s.lc[i] = k.Left.ctrl
		}
		if k.Right.kind == Explicit {
			s.rc[i] = k.Right.ctrl
		}
		s.lang[i], s.rang[i] = math.NaN(), math.NaN()
	}
	return s
}

func (s *solver) n() int {
	return len(s.z)
}

func (s *solver) next(i int) int {
	return (i + 1) % s.n()
}

// Resolve finds the control points for all knots of a path, following
// Hobby's algorithm as implemented in MetaPost. The control points are
// stored in the knots (fields L and R). conf may be nil, in which case
// DefaultConfig() is used.
//
// The knot sides are checked and normalized again, as NewPath does, as
// clients may have changed them in between.
// Resolve either succeeds for the whole path or leaves the control points
// untouched.
// Resolving a path again yields identical results.
func Resolve(path *Path, conf *Config) error {
	if path == nil || path.N() == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidTopology)
	}
	if conf == nil {
		conf = DefaultConfig()
	} else if err := conf.validate(); err != nil {
		return err
	}
	// sides may have been changed through Knot() since NewPath
	if err := path.validate(); err != nil {
		path.resolved = false
		return err
	}
	path.normalize()
	path.resolved = false
	s := newSolver(path, conf)
	s.joinCoincidentKnots()
	h := s.firstBreakpoint()
	p := h
	for {
		q := s.next(p)
		if s.rtype[p] >= Given {
			for s.ltype[q] == Open && s.rtype[q] == Open {
				q = s.next(q)
			}
			if err := s.solveRun(p, q); err != nil {
				return err
			}
		} else if s.rtype[p] == Endpoint {
			s.rc[p] = s.z[p] // unused control points stay at the knots
			s.lc[q] = s.z[q]
		}
		p = q
		if p == h {
			break
		}
	}
	for i := range s.z {
		if !s.lc[i].IsFinite() || !s.rc[i].IsFinite() {
			return fmt.Errorf("%w: no finite control points at knot %d", ErrIllConditionedPath, i)
		}
	}
	for i := range path.knots {
		k := &path.knots[i]
		k.L, k.R = s.lc[i], s.rc[i]
		k.lang, k.rang = s.lang[i], s.rang[i]
	}
	path.resolved = true
	tracer().Infof("resolved path:\n%s", AsString(path))
	return nil
}

// MustResolve is a helper which panics if Resolve returns an error.
func MustResolve(path *Path, conf *Config) *Path {
	if err := Resolve(path, conf); err != nil {
		panic(err)
	}
	return path
}

// firstBreakpoint finds the first knot with a side which is not open. If
// the path is an unbroken cycle, knot 0 is made an artificial breakpoint.
func (s *solver) firstBreakpoint() int {
	h := 0
	for {
		if s.ltype[h] != Open || s.rtype[h] != Open {
			return h
		}
		h = s.next(h)
		if h == 0 {
			s.ltype[0] = endCycle
			return 0
		}
	}
}

// solveRun fills in the control points between breakpoints p and q.
// For an unbroken cycle, p = q.
func (s *solver) solveRun(p, q int) error {
	s.idx, s.delta, s.dist, s.psi = s.idx[:0], s.delta[:0], s.dist[:0], s.psi[:0]
	s.psi = append(s.psi, 0) // no turning angle at the first knot
	k, n, cur := 0, -1, p
	for {
		t := s.next(cur)
		s.idx = append(s.idx, cur)
		s.delta = append(s.delta, s.z[t]-s.z[cur])
		s.dist = append(s.dist, s.delta[k].Abs())
		if k > 0 {
			s.psi = append(s.psi, turningAngle(s.delta[k-1], s.delta[k]))
		}
		k++
		cur = t
		if cur == q && n < 0 {
			n = k
		}
		if n >= 0 && k >= n && s.ltype[cur] != endCycle {
			break
		}
	}
	s.idx = append(s.idx, cur)
	if k == n {
		s.psi = append(s.psi, 0)
	} else {
		s.psi = append(s.psi, s.psi[1])
	}
	s.theta = resize(s.theta, n+2)
	s.uu = resize(s.uu, n+2)
	s.vv = resize(s.vv, n+2)
	s.ww = resize(s.ww, n+2)
	tracer().Debugf("solving run of %d segments from knot %d to knot %d", n, p, q)
	return s.solveChoices(n)
}

// solveChoices determines the angles θ.k of the run and sets the control
// points. The equations for the mock curvature form a tridiagonal system,
// which is solved by forward elimination (uu, vv) and back substitution.
// For a cycle, the coefficients ww carry the dependency on θ.0 around the
// ring.
func (s *solver) solveChoices(n int) error {
	p, t := s.idx[0], s.idx[1]
	switch s.rtype[p] {
	case Given:
		if s.ltype[t] == Given {
			aa := s.delta[0].Angle()
			s.setControls(p, t, 0, s.rval[p]-aa, aa-s.lval[t])
			return nil
		}
		s.vv[0] = reduceAngle(s.rval[p] - s.delta[0].Angle())
		s.uu[0], s.ww[0] = 0, 0
	case Curl:
		if s.ltype[t] == Curl {
			s.straightLine(p, t)
			return nil
		}
		cc, lt, rt := s.rval[p], math.Abs(s.ltens[t]), math.Abs(s.rtens[p])
		if rt == 1 && lt == 1 {
			s.uu[0] = (cc + cc + 1) / (cc + 2)
		} else {
			s.uu[0] = curlRatio(cc, rt, lt)
		}
		s.vv[0] = -s.psi[1] * s.uu[0]
		s.ww[0] = 0
	default: // start of an unbroken cycle
		s.uu[0], s.vv[0], s.ww[0] = 0, 0, 1
	}
	tracer().Debugf("u.0 = %.4g, v.0 = %.4g", s.uu[0], s.vv[0])
	for k := 1; ; k++ {
		r, cur := s.idx[k-1], s.idx[k]
		switch s.ltype[cur] {
		case Curl:
			cc, lt, rt := s.lval[cur], math.Abs(s.ltens[cur]), math.Abs(s.rtens[r])
			var ff float64
			if rt == 1 && lt == 1 {
				ff = (cc + cc + 1) / (cc + 2)
			} else {
				ff = curlRatio(cc, lt, rt)
			}
			denom := 1 - ff*s.uu[k-1]
			if denom == 0 {
				return fmt.Errorf("%w: curl equation at knot %d is singular", ErrIllConditionedPath, cur)
			}
			s.theta[n] = -(s.vv[k-1] * ff) / denom
			return s.finish(n)
		case Given:
			s.theta[n] = reduceAngle(s.lval[cur] - s.delta[n-1].Angle())
			return s.finish(n)
		}
		// open or end of cycle: match mock curvatures at knot k
		if err := s.mockCurvature(k, r, cur, s.idx[k+1]); err != nil {
			return err
		}
		if s.ltype[cur] == endCycle {
			if err := s.closeCycle(n); err != nil {
				return err
			}
			return s.finish(n)
		}
	}
}

// mockCurvature sets up the equation for θ.k at an open knot.
//
// With A.k, B.k, C.k, D.k as in MetaFont's §276, the coefficients are
// aa = A/B, bb = D/C, cc = (B−u.{k−1}A)/B and ff = C/(C+B−u.{k−1}A).
func (s *solver) mockCurvature(k, r, cur, t int) error {
	var aa, bb, dd, ee float64
	if rt := math.Abs(s.rtens[r]); rt == 1 {
		aa, dd = 0.5, 2*s.dist[k]
	} else {
		aa, dd = 1/(3*rt-1), s.dist[k]*(3-1/rt)
	}
	if lt := math.Abs(s.ltens[t]); lt == 1 {
		bb, ee = 0.5, 2*s.dist[k-1]
	} else {
		bb, ee = 1/(3*lt-1), s.dist[k-1]*(3-1/lt)
	}
	cc := 1 - s.uu[k-1]*aa
	dd *= cc
	lt, rt := math.Abs(s.ltens[cur]), math.Abs(s.rtens[cur])
	if lt < rt {
		f := lt / rt
		dd *= f * f
	} else if lt > rt {
		f := rt / lt
		ee *= f * f
	}
	if ee+dd == 0 || cc == 0 {
		return fmt.Errorf("%w: mock curvature equation at knot %d is singular", ErrIllConditionedPath, cur)
	}
	ff := ee / (ee + dd)
	s.uu[k] = ff * bb
	acc := -s.psi[k+1] * s.uu[k]
	if s.rtype[r] == Curl {
		s.ww[k] = 0
		s.vv[k] = acc - s.psi[1]*(1-ff)
	} else {
		ff = (1 - ff) / cc // B/(C+B−uA)
		acc -= s.psi[k] * ff
		ff *= aa // A/(C+B−uA)
		s.vv[k] = acc - s.vv[k-1]*ff
		if s.ww[k-1] == 0 {
			s.ww[k] = 0
		} else {
			s.ww[k] = -s.ww[k-1] * ff
		}
	}
	tracer().Debugf("u.%d = %.4g, v.%d = %.4g, w.%d = %.4g", k, s.uu[k], k, s.vv[k], k, s.ww[k])
	return nil
}

// closeCycle adjusts θ.n to equal θ.0 for an unbroken cycle.
func (s *solver) closeCycle(n int) error {
	aa, bb := 0.0, 1.0
	for k := n - 1; k > 0; k-- {
		aa = s.vv[k] - aa*s.uu[k]
		bb = s.ww[k] - bb*s.uu[k]
	}
	aa = s.vv[n] - aa*s.uu[n]
	bb = s.ww[n] - bb*s.uu[n]
	if 1-bb == 0 { // θ.n = aa + bb·θ.n
		return fmt.Errorf("%w: cyclic equations are singular", ErrIllConditionedPath)
	}
	aa /= 1 - bb
	s.theta[n] = aa
	s.vv[0] = aa
	for k := 1; k < n; k++ {
		s.vv[k] += aa * s.ww[k]
	}
	return nil
}

// finish back-substitutes the angles θ.k and assigns the control points.
func (s *solver) finish(n int) error {
	for k := n - 1; k >= 0; k-- {
		s.theta[k] = s.vv[k] - s.theta[k+1]*s.uu[k]
	}
	for k := 0; k < n; k++ {
		phi := -s.psi[k+1] - s.theta[k+1]
		tracer().Debugf("θ.%d = %.4g°, φ.%d = %.4g°", k, rad2deg(s.theta[k]), k+1, rad2deg(phi))
		s.setControls(s.idx[k], s.idx[k+1], k, s.theta[k], phi)
	}
	return nil
}

// turningAngle is the angle from direction a to direction b, within [-π, π].
func turningAngle(a, b knotwork.Pair) float64 {
	cross := a.X()*b.Y() - a.Y()*b.X()
	dot := a.X()*b.X() + a.Y()*b.Y()
	return math.Atan2(cross, dot)
}

func resize(arr []float64, n int) []float64 {
	if cap(arr) < n {
		return make([]float64, n)
	}
	arr = arr[:n]
	clear(arr)
	return arr
}
