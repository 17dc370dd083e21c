// Package knots resolves MetaFont/MetaPost-like paths. It turns a sequence of
// knots, annotated with direction, tension and curl constraints, into a
// sequence of cubic Bézier segments, using John Hobby's spline interpolation
// algorithm as implemented in MetaPost.
/*

Spline interpolation by Hobby's algorithm results in aesthetically pleasing
curves superior to "normal" spline interpolation (as used in many graphics
programs). The primary source of information for "Hobby-splines" is:

   Smooth, Easy to Compute Interpolating Splines -- John D. Hobby
   Computer Science Dept. Stanford University
   Report No. STAN-CS-85-1047, Jan 1985
   http://i.stanford.edu/pub/cstr/reports/cs/tr/85/1047/CS-TR-85-1047.pdf

The practical algorithm is explained in

   Computers & Typesetting, Vol. B & D.
   http://www-cs-faculty.stanford.edu/~knuth/abcde.html

The notation sticks closely to the original code in MetaFont (§§269–300 of
"MetaFont: The Program"): θ.k and φ.k are the angles between the chord and the
outgoing/incoming tangents at knot k, ψ.k is the turning angle of the chords at
knot k, and u.k, v.k, w.k are the coefficients of the forward elimination.

Knots and sides

Every knot carries two side constraints, one for the incoming curve (left)
and one for the outgoing curve (right). A side is one of

   Endpoint   the outer side of the first or last knot of an open path
   Explicit   the control point is given
   Given      the tangent direction is given
   Curl       the curl ratio is given (1 is neutral)
   Open       the direction is left to the solver

plus a tension. Negative tensions, created with Side.AtLeast, are "at least"
tensions: the curve is kept inside the triangle spanned by the chord and its
tangents, if possible.

Usage

Clients build a "skeleton" path, without any spline control point
information. In the MetaPost DSL one may specify it as follows:

   (0,0)..(2,3)..tension 1.4..(5,3)..(3,-1){left}..cycle

With package knots (package qualifiers omitted for clarity and brevity):

   path, err := Nullpath().Knot(P(0,0)).Curve().Knot(P(2,3)).TensionCurve(1.4,1.4).Knot(P(5,3)).
      Curve().DirKnot(P(3,-1),P(-1,0)).Curve().Cycle()

Alternatively, a slice of knots created with NewKnot may be handed to NewPath.
A built path is then subjected to a call to Resolve(...)

   err = Resolve(path, nil)

which stores the control points in the knots. The resulting Bézier segments
are available as an iterator:

   for seg := range path.Segments() {
       ... seg.C1, seg.C2, seg.Z ...
   }

A path must not be resolved concurrently from more than one goroutine.
Distinct paths share no state.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package knots
