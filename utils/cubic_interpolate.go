// SPDX-License-Identifier: EPL-2.0

package utils

// Float is the set of sample types the interpolators work on.
type Float interface {
	~float32 | ~float64
}

// CubicInterpolate evaluates the Catmull-Rom spline through four
// consecutive samples at x, the fractional position between y1 (x = 0) and
// y2 (x = 1). Repeating an edge sample clamps the curve at a buffer end.
func CubicInterpolate[T Float](y0, y1, y2, y3, x T) T {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}
