// Package spatialmath defines the pose and orientation math used to re-point a
// camera-guided robot arm: orientation parameterizations and their conversions,
// plus 4x4 homogeneous rigid transforms.
package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is an interface used to express the different parameterizations
// of the orientation of a rigid object or a frame of reference in 3D Euclidean
// space. Each instance is exactly one concrete parameterization; the others
// are derived on demand through the conversion methods.
type Orientation interface {
	Quaternion() quat.Number
	EulerAngles() *EulerAngles
	RotationMatrix() *RotationMatrix
}

// NewZeroOrientation returns an orientation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return &Quaternion{Real: 1}
}

// OrientationAlmostEqual will return a bool describing whether 2 orientations
// represent approximately the same rotation.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), 1e-5)
}
