package spatialmath

import (
	"time"

	"github.com/golang/geo/r3"
)

// Pose represents a rigid-body placement in a named frame: a 3D position plus
// an orientation, with measurement metadata. Poses are plain values; pass them
// by value across ownership boundaries and never mutate one after handing it
// to the correction algorithm.
type Pose struct {
	Position    r3.Vector
	Orientation Orientation
	Frame       string
	Timestamp   time.Time
	Confidence  float64
	// Covariance is an optional row-major 3x3 position covariance. It is
	// carried for the measurement pipeline and ignored by the transform math.
	Covariance []float64
}

// NewPose creates a pose from a position and an orientation, stamped now with
// full confidence.
func NewPose(pt r3.Vector, o Orientation, frame string) Pose {
	return Pose{
		Position:    pt,
		Orientation: o,
		Frame:       frame,
		Timestamp:   time.Now(),
		Confidence:  1,
	}
}

// NewPoseFromValues creates a pose from a raw 6-tuple of position plus Euler
// angles (radians), the form robot controllers report.
func NewPoseFromValues(x, y, z, roll, pitch, yaw float64, frame string) Pose {
	return NewPose(r3.Vector{X: x, Y: y, Z: z}, &EulerAngles{Roll: roll, Pitch: pitch, Yaw: yaw}, frame)
}

// NewPoseFromHomogeneous extracts position and orientation from a 4x4 rigid
// transform. The orientation comes back in quaternion form, so it survives
// any rotation including those at the Euler singularity.
func NewPoseFromHomogeneous(hm *HomogeneousMatrix, frame string) Pose {
	q := Quaternion(hm.Rotation().Quaternion())
	return NewPose(hm.Translation(), &q, frame)
}

// Homogeneous returns the pose as a 4x4 rigid transform.
func (p Pose) Homogeneous() *HomogeneousMatrix {
	return composeHomogeneous(p.Orientation.RotationMatrix(), p.Position)
}

// Copy returns a deep copy; the covariance slice is the only reference field.
func (p Pose) Copy() Pose {
	out := p
	if p.Covariance != nil {
		out.Covariance = append([]float64(nil), p.Covariance...)
	}
	return out
}

// PoseAlmostEqual reports whether two poses are in the same frame, at nearly
// the same position, with nearly the same orientation.
func PoseAlmostEqual(a, b Pose, linearEpsilon float64) bool {
	if a.Frame != b.Frame {
		return false
	}
	diff := a.Position.Sub(b.Position)
	if diff.Norm() > linearEpsilon {
		return false
	}
	return OrientationAlmostEqual(a.Orientation, b.Orientation)
}
