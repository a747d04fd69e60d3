package mathutil

import "math"

// AxisX returns the single-axis quaternion for roll a (radians), using the
// same full-angle convention as EulerToQuat: {cos a, sin a, 0, 0}.
func AxisX(a float64) Quat {
	s, c := math.Sincos(a)
	return Quat{c, s, 0, 0}
}

// AxisY returns the single-axis quaternion for pitch a.
func AxisY(a float64) Quat {
	s, c := math.Sincos(a)
	return Quat{c, 0, s, 0}
}

// AxisZ returns the single-axis quaternion for yaw a.
func AxisZ(a float64) Quat {
	s, c := math.Sincos(a)
	return Quat{c, 0, 0, s}
}
