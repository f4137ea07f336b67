// Package calibration reads persisted hand-eye calibration data and turns it
// into a validated flange-to-camera coordinate transform.
package calibration

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"github.com/arktos-robotics/visionguide/referenceframe"
)

// ErrNoCalibration is when a hand-eye calibration is not available. Operating
// a physical robot with a silently-wrong calibration is a safety hazard, so
// there is deliberately no identity-matrix fallback: the caller must handle
// this error, not this package.
var ErrNoCalibration = errors.New("hand-eye calibration is not available")

// HandEyeMatrixKey is the JSON key the calibration pipeline writes the 4x4
// flange-to-camera matrix under.
const HandEyeMatrixKey = "T"

type handEyeFile struct {
	T [][]float64 `json:"T"`
}

// NewHandEyeTransformFromJSONFile reads a persisted hand-eye calibration file
// and returns the flange-to-camera transform it holds. The file must contain
// a 4x4 numeric array under the "T" key that validates as a rigid transform.
func NewHandEyeTransformFromJSONFile(jsonPath string) (*referenceframe.CoordinateTransform, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrapf(ErrNoCalibration, "error opening calibration file %q: %v", jsonPath, err)
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrapf(ErrNoCalibration, "error reading calibration file %q: %v", jsonPath, err)
	}
	return NewHandEyeTransformFromJSON(byteValue)
}

// NewHandEyeTransformFromJSON parses hand-eye calibration JSON bytes.
func NewHandEyeTransformFromJSON(data []byte) (*referenceframe.CoordinateTransform, error) {
	parsed := &handEyeFile{}
	if err := json.Unmarshal(data, parsed); err != nil {
		return nil, errors.Wrapf(ErrNoCalibration, "error parsing calibration JSON: %v", err)
	}
	if parsed.T == nil {
		return nil, errors.Wrapf(ErrNoCalibration, "calibration JSON has no %q key", HandEyeMatrixKey)
	}
	if len(parsed.T) != 4 {
		return nil, errors.Wrapf(ErrNoCalibration, "calibration matrix has %d rows, need 4", len(parsed.T))
	}
	flat := make([]float64, 0, 16)
	for i, row := range parsed.T {
		if len(row) != 4 {
			return nil, errors.Wrapf(ErrNoCalibration, "calibration matrix row %d has %d columns, need 4", i, len(row))
		}
		flat = append(flat, row...)
	}

	transform, err := referenceframe.NewCoordinateTransformFromDense(
		mat.NewDense(4, 4, flat), referenceframe.FrameFlange, referenceframe.FrameCamera)
	if err != nil {
		return nil, errors.Wrapf(ErrNoCalibration, "calibration matrix is not a rigid transform: %v", err)
	}
	return transform, nil
}
