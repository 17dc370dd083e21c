package knots

// joinCoincidentKnots joins consecutive knots at the same position with a
// zero-length segment. The direction between such knots is undefined, so the
// segment gets explicit control points at the shared position and does not
// take part in solving. Open sides next to it become curl 1, which makes the
// neighbouring segments start or end like a line would.
func (s *solver) joinCoincidentKnots() {
	for p := 0; p < s.n(); p++ {
		q := s.next(p)
		if s.rtype[p] <= Explicit || (s.z[q]-s.z[p]).Abs() > s.conf.Epsilon {
			continue
		}
		tracer().Debugf("knots %d and %d coincide at %s", p, q, ptstring(s.z[p], false))
		s.rtype[p] = Explicit
		if s.ltype[p] == Open {
			s.ltype[p], s.lval[p] = Curl, 1
		}
		s.ltype[q] = Explicit
		if s.rtype[q] == Open {
			s.rtype[q], s.rval[q] = Curl, 1
		}
		s.rc[p] = s.z[p]
		s.lc[q] = s.z[q]
	}
}
