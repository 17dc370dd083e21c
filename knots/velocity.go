package knots

import (
	"math"

	"github.com/npillmayer/knotwork"
)

// Empiric constants, as explained by J. Hobby.
const (
	goldenA = 0.5 * (2.2360679774997896964 - 1) // (√5 − 1) / 2
	goldenB = 0.5 * (3 - 2.2360679774997896964) // (3 − √5) / 2
)

// velocity is Hobby's velocity function f(θ,φ) divided by the tension t,
// given the sines and cosines of θ and φ. The result is capped at 4.
func velocity(st, ct, sf, cf, t float64) float64 {
	acc := (st - sf/16) * (sf - st/16) * (ct - cf)
	num := 2 + math.Sqrt2*acc
	denom := 3 * (1 + goldenA*ct + goldenB*cf)
	if t != 1 {
		denom *= t
	}
	if num/4 >= denom {
		return 4
	}
	return num / denom
}

// curlRatio is the coefficient of the curl equation at a path end, capped at 4:
//
//	((3−α)α²γ + β³) / (α³γ + (3−β)β²),  α = 1/aTension, β = 1/bTension
func curlRatio(gamma, aTension, bTension float64) float64 {
	alpha, beta := 1/aTension, 1/bTension
	ff := alpha / beta
	gamma *= ff * ff
	num := gamma*(3-alpha) + beta
	denom := gamma*alpha + 3 - beta
	if num >= 4*denom {
		return 4
	}
	return num / denom
}

// setControls computes the control points for the k-th segment of the current
// run, from knot p to knot q, given θ (outgoing angle at p relative to the
// chord) and φ (incoming angle at q relative to the chord).
func (s *solver) setControls(p, q, k int, theta, phi float64) {
	st, ct := math.Sincos(theta)
	sf, cf := math.Sincos(phi)
	lt, rt := math.Abs(s.ltens[q]), math.Abs(s.rtens[p])
	rr := velocity(st, ct, sf, cf, rt)
	ss := velocity(sf, cf, st, ct, lt)
	if s.rtens[p] < 0 || s.ltens[q] < 0 {
		rr, ss = s.boundVelocities(st, ct, sf, cf, rr, ss, s.rtens[p] < 0, s.ltens[q] < 0)
	}
	d := s.delta[k]
	dx, dy := d.X(), d.Y()
	s.rc[p] = s.z[p] + knotwork.P(dx*ct-dy*st, dy*ct+dx*st).Scaled(rr)
	s.lc[q] = s.z[q] - knotwork.P(dx*cf+dy*sf, dy*cf-dx*sf).Scaled(ss)
	chord := d.Angle()
	s.rang[p] = normalizeAngle(chord + theta)
	s.lang[q] = normalizeAngle(chord - phi)
	tracer().Debugf("velocities %.4g and %.4g between knots %d and %d", rr, ss, p, q)
}

// boundVelocities decreases the velocities of "at least" tension sides, if
// necessary, to keep the curve inside the triangle formed by the chord and the
// two tangents. This is only possible if both tangents lie on the same side
// of the chord.
func (s *solver) boundVelocities(st, ct, sf, cf, rr, ss float64, boundR, boundS bool) (float64, float64) {
	if (st >= 0 && sf >= 0) || (st <= 0 && sf <= 0) {
		sine := math.Abs(st)*cf + math.Abs(sf)*ct // sin(θ+φ)
		if sine > 0 {
			sine *= s.conf.SafetyFactor
			if boundR && math.Abs(sf) < rr*sine {
				rr = math.Abs(sf) / sine
			}
			if boundS && math.Abs(st) < ss*sine {
				ss = math.Abs(st) / sine
			}
		}
	}
	return rr, ss
}

// straightLine connects two curl sides: the control points lie on the
// chord, at 1/(3·tension) of its length from the knots.
func (s *solver) straightLine(p, q int) {
	d := s.delta[0]
	lt, rt := math.Abs(s.ltens[q]), math.Abs(s.rtens[p])
	if rt == 1 {
		s.rc[p] = s.z[p] + d/3
	} else {
		s.rc[p] = s.z[p] + d.Scaled(1/(3*rt))
	}
	if lt == 1 {
		s.lc[q] = s.z[q] - d/3
	} else {
		s.lc[q] = s.z[q] - d.Scaled(1/(3*lt))
	}
	s.rang[p] = d.Angle()
	s.lang[q] = d.Angle()
}
