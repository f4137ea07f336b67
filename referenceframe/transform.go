// Package referenceframe does the math of translating between reference
// frames. Useful for if you have a camera, bolted to a flange, on the end of
// an arm, and something found in the camera frame needs to be expressed in
// the robot base frame before the arm can move to it.
package referenceframe

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/arktos-robotics/visionguide/spatialmath"
)

// Well-known frame names used throughout the vision-correction chain.
const (
	FrameRobotBase = "robot_base"
	FrameFlange    = "flange"
	FrameCamera    = "camera"
)

// CoordinateTransform is a directed rigid transform taking coordinates
// expressed in its source frame to the same physical points expressed in its
// target frame. It is an immutable value once constructed; the hand-eye
// calibration transform in particular is loaded once and then treated as a
// constant for the whole correction session.
type CoordinateTransform struct {
	matrix      *spatialmath.HomogeneousMatrix
	sourceFrame string
	targetFrame string
}

// NewCoordinateTransform creates a transform from source to target backed by
// the given validated homogeneous matrix.
func NewCoordinateTransform(matrix *spatialmath.HomogeneousMatrix, sourceFrame, targetFrame string) (*CoordinateTransform, error) {
	if matrix == nil {
		return nil, NewNilTransformMatrixError(sourceFrame, targetFrame)
	}
	return &CoordinateTransform{matrix: matrix, sourceFrame: sourceFrame, targetFrame: targetFrame}, nil
}

// NewCoordinateTransformFromDense validates a raw 4x4 dense matrix and wraps
// it as a transform.
func NewCoordinateTransformFromDense(m *mat.Dense, sourceFrame, targetFrame string) (*CoordinateTransform, error) {
	hm, err := spatialmath.NewHomogeneousMatrix(m)
	if err != nil {
		return nil, err
	}
	return NewCoordinateTransform(hm, sourceFrame, targetFrame)
}

// NewIdentityTransform creates a transform that maps a frame onto itself.
func NewIdentityTransform(frame string) *CoordinateTransform {
	return &CoordinateTransform{
		matrix:      spatialmath.NewHomogeneousMatrixFromPoint(r3.Vector{}),
		sourceFrame: frame,
		targetFrame: frame,
	}
}

// NewTranslationTransform creates a pure translation between two frames.
func NewTranslationTransform(translation r3.Vector, sourceFrame, targetFrame string) *CoordinateTransform {
	return &CoordinateTransform{
		matrix:      spatialmath.NewHomogeneousMatrixFromPoint(translation),
		sourceFrame: sourceFrame,
		targetFrame: targetFrame,
	}
}

// NewRotationTransform creates a pure rotation between two frames.
func NewRotationTransform(o spatialmath.Orientation, sourceFrame, targetFrame string) *CoordinateTransform {
	return &CoordinateTransform{
		matrix:      spatialmath.NewHomogeneousMatrixFromRotation(o),
		sourceFrame: sourceFrame,
		targetFrame: targetFrame,
	}
}

// SourceFrame returns the name of the frame the transform maps from.
func (ct *CoordinateTransform) SourceFrame() string {
	return ct.sourceFrame
}

// TargetFrame returns the name of the frame the transform maps to.
func (ct *CoordinateTransform) TargetFrame() string {
	return ct.targetFrame
}

// Matrix returns the backing homogeneous matrix.
func (ct *CoordinateTransform) Matrix() *spatialmath.HomogeneousMatrix {
	return ct.matrix
}

// TransformPoint re-expresses a source-frame point in the target frame.
// Pure; no side effects.
func (ct *CoordinateTransform) TransformPoint(pt r3.Vector) r3.Vector {
	return ct.matrix.TransformPoint(pt)
}

// TransformPose applies the transform to a pose's matrix form and re-derives
// a pose tagged with the transform's target frame.
func (ct *CoordinateTransform) TransformPose(pose spatialmath.Pose) spatialmath.Pose {
	transformed := ct.matrix.Mul(pose.Homogeneous())
	out := spatialmath.NewPoseFromHomogeneous(transformed, ct.targetFrame)
	out.Timestamp = pose.Timestamp
	out.Confidence = pose.Confidence
	return out
}

// Inverse returns the transform running the opposite direction, target back
// to source.
func (ct *CoordinateTransform) Inverse() (*CoordinateTransform, error) {
	inv, err := ct.matrix.Inverse()
	if err != nil {
		return nil, err
	}
	return &CoordinateTransform{matrix: inv, sourceFrame: ct.targetFrame, targetFrame: ct.sourceFrame}, nil
}

// Compose chains two transforms: the result applies first and then second,
// mapping first's source frame to second's target frame. The frames must
// chain; composing flange->camera onto base->flange is fine, the reverse is a
// programmer error.
func Compose(second, first *CoordinateTransform) (*CoordinateTransform, error) {
	if second.sourceFrame != first.targetFrame {
		return nil, NewFrameMismatchError(second.sourceFrame, first.targetFrame)
	}
	return &CoordinateTransform{
		matrix:      second.matrix.Mul(first.matrix),
		sourceFrame: first.sourceFrame,
		targetFrame: second.targetFrame,
	}, nil
}
