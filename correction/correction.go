// Package correction implements the hand-eye visual servo correction: given
// the robot's current flange pose and a planar deviation measured in the
// camera frame, it computes the flange pose that re-centers the camera on the
// target.
package correction

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/arktos-robotics/visionguide/referenceframe"
	"github.com/arktos-robotics/visionguide/spatialmath"
	"github.com/arktos-robotics/visionguide/utils"
)

// AngleUnit declares the angular unit of a FlangePose's roll/pitch/yaw. There
// is no default: callers state the unit their robot controller reports in,
// and the corrected pose comes back in the same unit. The zero value is
// rejected so a forgotten flag cannot silently be read as either unit.
type AngleUnit int

// The supported angular units.
const (
	unitUnset AngleUnit = iota
	Radians
	Degrees
)

// VerticalAxis names which physical base-frame axis is "up" for the robot's
// mounting. The correction clamps the output's coordinate along this axis
// back to the input's value: the planar servo assumption is constant working
// distance, and clamping keeps rotation/translation coupling noise from
// drifting the height across repeated corrections. Which axis is vertical is
// a property of the mechanical mount, so it is configuration here, not
// something derived.
type VerticalAxis int

// The selectable vertical axes. AxisZ is the zero value; the target mounts
// hang the camera over a horizontal work surface with base Z up.
const (
	AxisZ VerticalAxis = iota
	AxisX
	AxisY
)

// FlangePose is the 6-value pose robot controllers exchange: position in the
// robot base frame (mm) and orientation as z-y'-x'' Euler angles in the unit
// the caller declared.
type FlangePose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Deviation is the planar deviation the image-processing front end measured:
// translation in the camera's local XY plane, in the same linear unit as
// robot positions, and rotation about the camera's optical (Z) axis in
// degrees. Z is assumed zero; the target is taken to lie in a plane
// perpendicular to the optical axis at constant working distance.
type Deviation struct {
	DX        float64 `json:"dx"`
	DY        float64 `json:"dy"`
	DThetaDeg float64 `json:"dtheta_deg"`
}

// IsZero reports whether the deviation calls for no motion at all.
func (d Deviation) IsZero() bool {
	return d.DX == 0 && d.DY == 0 && d.DThetaDeg == 0
}

// Corrector computes corrected flange poses against one fixed hand-eye
// calibration. The calibration transform and its inverse are resolved once at
// construction; Correct itself is a pure function and is safe to call from
// any number of goroutines.
type Corrector struct {
	flangeToCamera *referenceframe.CoordinateTransform
	cameraToFlange *referenceframe.CoordinateTransform
	vertical       VerticalAxis
	logger         golog.Logger
}

// NewCorrector creates a Corrector around a previously calibrated
// flange-to-camera transform. The transform is inverted here, once, so a
// non-invertible calibration surfaces as a configuration error before the
// first correction is ever attempted.
func NewCorrector(handEye *referenceframe.CoordinateTransform, vertical VerticalAxis, logger golog.Logger) (*Corrector, error) {
	if handEye == nil {
		return nil, errors.New("hand-eye transform is nil")
	}
	if handEye.SourceFrame() != referenceframe.FrameFlange || handEye.TargetFrame() != referenceframe.FrameCamera {
		return nil, errors.Errorf("hand-eye transform must map %q to %q, got %q to %q",
			referenceframe.FrameFlange, referenceframe.FrameCamera, handEye.SourceFrame(), handEye.TargetFrame())
	}
	inv, err := handEye.Inverse()
	if err != nil {
		return nil, errors.Wrap(err, "hand-eye transform is not invertible")
	}
	return &Corrector{flangeToCamera: handEye, cameraToFlange: inv, vertical: vertical, logger: logger}, nil
}

// Correct computes the flange pose that executes the measured camera-plane
// deviation. The camera must move by the deviation in its own frame;
// conjugating that motion by the hand-eye transform re-expresses it as a
// flange-frame motion, which is then composed onto the current pose:
//
//	T_base_flange_new = T_base_flange * T_flange_camera * T_dev * T_flange_camera^-1
//
// Adding dx/dy straight onto the base-frame position instead would be wrong
// whenever the camera is mounted with any rotation relative to the flange,
// which is virtually always.
//
// Near pitch of +/-90 degrees the returned roll and yaw may individually jump
// by large amounts between successive calls while the commanded physical
// motion stays continuous; that is the Euler representation's gimbal lock,
// not an error, and callers must not smooth or clamp roll/yaw to compensate.
func (c *Corrector) Correct(current FlangePose, dev Deviation, unit AngleUnit) (FlangePose, error) {
	roll, pitch, yaw, err := anglesToRadians(current, unit)
	if err != nil {
		return FlangePose{}, err
	}

	currentPose := spatialmath.NewPoseFromValues(current.X, current.Y, current.Z, roll, pitch, yaw, referenceframe.FrameRobotBase)

	// Pure planar motion in the camera's own frame: rotation about the
	// optical axis, translation in the image plane, Z untouched.
	devMotion := spatialmath.NewPose(
		r3.Vector{X: dev.DX, Y: dev.DY},
		&spatialmath.EulerAngles{Yaw: utils.DegToRad(dev.DThetaDeg)},
		referenceframe.FrameCamera,
	).Homogeneous()

	newMatrix := currentPose.Homogeneous().
		Mul(c.flangeToCamera.Matrix()).
		Mul(devMotion).
		Mul(c.cameraToFlange.Matrix())

	position := newMatrix.Translation()
	eu := newMatrix.Rotation().EulerAngles()

	corrected := FlangePose{
		X:     position.X,
		Y:     position.Y,
		Z:     position.Z,
		Roll:  eu.Roll,
		Pitch: eu.Pitch,
		Yaw:   eu.Yaw,
	}
	clampVertical(&corrected, current, c.vertical)
	if unit == Degrees {
		corrected.Roll = utils.RadToDeg(corrected.Roll)
		corrected.Pitch = utils.RadToDeg(corrected.Pitch)
		corrected.Yaw = utils.RadToDeg(corrected.Yaw)
	}

	if c.logger != nil {
		c.logger.Debugf("correction delta x:%.3f y:%.3f z:%.3f", corrected.X-current.X, corrected.Y-current.Y, corrected.Z-current.Z)
	}
	return corrected, nil
}

// Correct computes a corrected flange pose with the default vertical axis.
// Callers that need a different mount configuration or want construction-time
// calibration vetting should build a Corrector instead.
func Correct(current FlangePose, dev Deviation, handEye *referenceframe.CoordinateTransform, unit AngleUnit) (FlangePose, error) {
	c, err := NewCorrector(handEye, AxisZ, nil)
	if err != nil {
		return FlangePose{}, err
	}
	return c.Correct(current, dev, unit)
}

// clampVertical overwrites the configured vertical coordinate of out with the
// input's value. Exact assignment, not a computation: rotation/translation
// coupling in the transform chain can introduce a millimeter-scale spurious
// vertical offset, and under the constant-height assumption it is safer to
// pin than to let it accumulate. No other axis is touched.
func clampVertical(out *FlangePose, current FlangePose, vertical VerticalAxis) {
	switch vertical {
	case AxisX:
		out.X = current.X
	case AxisY:
		out.Y = current.Y
	case AxisZ:
		out.Z = current.Z
	}
}

func anglesToRadians(pose FlangePose, unit AngleUnit) (roll, pitch, yaw float64, err error) {
	switch unit {
	case Radians:
		return pose.Roll, pose.Pitch, pose.Yaw, nil
	case Degrees:
		return utils.DegToRad(pose.Roll), utils.DegToRad(pose.Pitch), utils.DegToRad(pose.Yaw), nil
	case unitUnset:
		fallthrough
	default:
		return 0, 0, 0, errors.Errorf("angle unit %d is not a declared unit; pass Radians or Degrees", unit)
	}
}
