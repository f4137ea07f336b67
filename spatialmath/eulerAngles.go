package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are three angles (in radians) used to represent the rotation of
// an object in 3D Euclidean space. The Tait-Bryan angle formalism is used,
// with rotation order z-y'-x'': the full rotation is
// R = Rz(yaw) * Ry(pitch) * Rx(roll), roll applied first. The robot
// controllers we target report their flange orientation in this order, and
// the hand-eye correction depends on it, so it must not be swapped for any
// other axis convention.
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // about X
	Pitch float64 `json:"pitch"` // about Y
	Yaw   float64 `json:"yaw"`   // about Z
}

// NewEulerAngles creates an empty EulerAngles struct.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{Roll: 0, Pitch: 0, Yaw: 0}
}

// EulerAngles returns orientation in Euler angle representation.
func (ea *EulerAngles) EulerAngles() *EulerAngles {
	return ea
}

// Quaternion returns orientation in quaternion representation.
func (ea *EulerAngles) Quaternion() quat.Number {
	return ea.RotationMatrix().Quaternion()
}

// RotationMatrix returns the orientation in rotation matrix representation,
// composed as Rz(yaw) * Ry(pitch) * Rx(roll).
func (ea *EulerAngles) RotationMatrix() *RotationMatrix {
	sr, cr := math.Sincos(ea.Roll)
	sp, cp := math.Sincos(ea.Pitch)
	sy, cy := math.Sincos(ea.Yaw)

	return &RotationMatrix{[9]float64{
		cy * cp, cy*sp*sr - sy*cr, cy*sp*cr + sy*sr,
		sy * cp, sy*sp*sr + cy*cr, sy*sp*cr - cy*sr,
		-sp, cp * sr, cp * cr,
	}}
}
