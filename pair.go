/*
Package knotwork implements points and affine transformations for
MetaPost-like paths. The path machinery itself lives in package knots.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package knotwork

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
const Deg2Rad float64 = math.Pi / 180

// === Pair Data Type ========================================================

// Pair is a 2D point or vector, stored as a complex number.
type Pair complex128

// Origin represents the frequently used constant (0,0).
var Origin = P(0, 0)

// Unknown is a pair with NaN parts, used for control points not yet calculated.
var Unknown = Pair(cmplx.NaN())

// Pretty Stringer for simple pairs.
func (p Pair) String() string {
	return fmt.Sprintf("(%g,%g)", real(p), imag(p))
}

// P is a quick notation for contructing a pair from floats.
func P(x, y float64) Pair {
	return Pair(complex(x, y))
}

// Dir returns the unit vector pointing in direction theta (radians).
func Dir(theta float64) Pair {
	return Pair(cmplx.Rect(1, theta))
}

// X is the x-part of a pair.
func (p Pair) X() float64 {
	return real(p)
}

// Y is the y-part of a pair.
func (p Pair) Y() float64 {
	return imag(p)
}

// Abs returns the length of vector p.
func (p Pair) Abs() float64 {
	return math.Hypot(real(p), imag(p))
}

// Angle returns the direction of vector p in radians, within [-π, π].
// The angle of the zero vector is 0.
func (p Pair) Angle() float64 {
	return math.Atan2(imag(p), real(p))
}

// IsNaN is true if any part of p is NaN.
func (p Pair) IsNaN() bool {
	return math.IsNaN(real(p)) || math.IsNaN(imag(p))
}

// IsFinite is true if both parts of p are neither NaN nor infinite.
func (p Pair) IsFinite() bool {
	return !p.IsNaN() && !math.IsInf(real(p), 0) && !math.IsInf(imag(p), 0)
}

// Scaled returns a new pair scaled by factor a.
func (p Pair) Scaled(a float64) Pair {
	return P(p.X()*a, p.Y()*a)
}
