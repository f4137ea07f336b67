package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/arktos-robotics/visionguide/calibration"
	"github.com/arktos-robotics/visionguide/correction"
	"github.com/arktos-robotics/visionguide/referenceframe"
)

// CorrectAction loads the hand-eye calibration, runs one correction, and
// prints the target pose alongside the per-axis delta.
func CorrectAction(c *cli.Context) error {
	handEye, err := resolveHandEye(c)
	if err != nil {
		return err
	}

	poseVals, err := commaSeparatedFloats(c.String("pose"), 6)
	if err != nil {
		return errors.Wrap(err, "invalid --pose")
	}
	devVals, err := commaSeparatedFloats(c.String("deviation"), 3)
	if err != nil {
		return errors.Wrap(err, "invalid --deviation")
	}
	vertical, err := parseVerticalAxis(c.String("vertical-axis"))
	if err != nil {
		return err
	}
	unit := correction.Radians
	if c.Bool("degrees") {
		unit = correction.Degrees
	}

	current := correction.FlangePose{
		X: poseVals[0], Y: poseVals[1], Z: poseVals[2],
		Roll: poseVals[3], Pitch: poseVals[4], Yaw: poseVals[5],
	}
	dev := correction.Deviation{DX: devVals[0], DY: devVals[1], DThetaDeg: devVals[2]}

	corrector, err := correction.NewCorrector(handEye, vertical, appLogger(c))
	if err != nil {
		return err
	}
	target, err := corrector.Correct(current, dev, unit)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "current: %s\n", formatPose(current))
	fmt.Fprintf(c.App.Writer, "target:  %s\n", formatPose(target))
	fmt.Fprintf(c.App.Writer, "delta:   %s\n", formatPose(correction.FlangePose{
		X:    target.X - current.X,
		Y:    target.Y - current.Y,
		Z:    target.Z - current.Z,
		Roll: target.Roll - current.Roll, Pitch: target.Pitch - current.Pitch, Yaw: target.Yaw - current.Yaw,
	}))
	return nil
}

func resolveHandEye(c *cli.Context) (*referenceframe.CoordinateTransform, error) {
	if c.Bool("identity") {
		flangeIdentity := referenceframe.NewIdentityTransform(referenceframe.FrameFlange)
		return referenceframe.NewCoordinateTransform(flangeIdentity.Matrix(), referenceframe.FrameFlange, referenceframe.FrameCamera)
	}
	path := c.String("calibration")
	if path == "" {
		return nil, errors.New("either --calibration or --identity is required")
	}
	return calibration.NewHandEyeTransformFromJSONFile(path)
}

func commaSeparatedFloats(s string, want int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != want {
		return nil, errors.Errorf("need %d comma-separated values, got %d", want, len(fields))
	}
	vals := make([]float64, 0, want)
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Errorf("%q is not a number", f)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func parseVerticalAxis(s string) (correction.VerticalAxis, error) {
	switch strings.ToLower(s) {
	case "x":
		return correction.AxisX, nil
	case "y":
		return correction.AxisY, nil
	case "z":
		return correction.AxisZ, nil
	default:
		return correction.AxisZ, errors.Errorf("unknown vertical axis %q", s)
	}
}

func formatPose(p correction.FlangePose) string {
	return fmt.Sprintf("[%9.3f %9.3f %9.3f | %8.4f %8.4f %8.4f]", p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw)
}
