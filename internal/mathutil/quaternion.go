package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quat represents a quaternion ordered (w, x, y, z).
type Quat [4]float64

// Angles holds a yaw/pitch/roll triple in radians.
// Yaw is about Z, pitch about Y, roll about X.
type Angles struct {
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

// EulerToQuat converts yaw, pitch and roll (radians) to a quaternion.
// The angles are used as given, without halving, so the result is
// 2π-periodic in each argument. Non-finite inputs yield non-finite output.
func EulerToQuat(yaw, pitch, roll float64) Quat {
	sr, cr := math.Sincos(roll)
	sp, cp := math.Sincos(pitch)
	sy, cy := math.Sincos(yaw)

	return Quat{
		cr*cp*cy + sr*sp*sy, // w
		sr*cp*cy - cr*sp*sy, // x
		cr*sp*cy + sr*cp*sy, // y
		cr*cp*sy - sr*sp*cy, // z
	}
}

// Quat converts the triple with EulerToQuat.
func (a Angles) Quat() Quat {
	return EulerToQuat(a.Yaw, a.Pitch, a.Roll)
}

// IsFinite reports whether all three angles are finite.
func (a Angles) IsFinite() bool {
	return isFinite(a.Yaw) && isFinite(a.Pitch) && isFinite(a.Roll)
}

// W returns the scalar component.
func (q Quat) W() float64 { return q[0] }

// X returns the i component.
func (q Quat) X() float64 { return q[1] }

// Y returns the j component.
func (q Quat) Y() float64 { return q[2] }

// Z returns the k component.
func (q Quat) Z() float64 { return q[3] }

// IsFinite reports whether every component is neither NaN nor ±Inf.
func (q Quat) IsFinite() bool {
	for _, v := range q {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Number returns q as a gonum quaternion (Real=w, Imag=x, Jmag=y, Kmag=z).
func (q Quat) Number() quat.Number {
	return quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
}

// FromNumber is the inverse of Quat.Number.
func FromNumber(n quat.Number) Quat {
	return Quat{n.Real, n.Imag, n.Jmag, n.Kmag}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
