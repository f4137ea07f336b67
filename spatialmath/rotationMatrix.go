package spatialmath

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"
)

// orthoTolerance bounds how far a rotation block may stray from orthonormality
// before we reject it. It is loose enough to absorb drift from chained matrix
// products, and tight enough to catch sheared or scaled blocks.
const orthoTolerance = 1e-7

// gimbalEpsilon is how close |pitch| must be to 90 degrees before Euler
// extraction switches to the degenerate branch.
const gimbalEpsilon = 1e-10

// RotationMatrix is a 3x3 rotation matrix in row major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of floats in row
// major order, checking that it is in fact a rotation (orthonormal with
// determinant +1).
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, errors.Errorf("rotation matrix supplied with %d elements, need 9", len(m))
	}
	var mat [9]float64
	copy(mat[:], m)
	rm := &RotationMatrix{mat}
	if err := rm.validate(); err != nil {
		return nil, err
	}
	return rm, nil
}

// validate checks row orthonormality and the determinant. A failure here is a
// programmer error upstream, never something to repair in place.
func (rm *RotationMatrix) validate() error {
	var err error
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			dot := rm.mat[3*i]*rm.mat[3*j] + rm.mat[3*i+1]*rm.mat[3*j+1] + rm.mat[3*i+2]*rm.mat[3*j+2]
			want := 0.
			if i == j {
				want = 1.
			}
			if math.Abs(dot-want) > orthoTolerance {
				err = multierr.Append(err, errors.Errorf("rotation matrix rows %d and %d not orthonormal (dot %g)", i, j, dot))
			}
		}
	}
	if det := rm.determinant(); math.Abs(det-1) > orthoTolerance {
		err = multierr.Append(err, errors.Errorf("rotation matrix determinant is %g, need +1", det))
	}
	return err
}

func (rm *RotationMatrix) determinant() float64 {
	m := rm.mat
	return m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
}

// At returns the float corresponding to the element at the given row, column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// RotationMatrix returns the orientation in rotation matrix representation.
func (rm *RotationMatrix) RotationMatrix() *RotationMatrix {
	return rm
}

// Quaternion returns the orientation in quaternion representation, using the
// branch-on-trace algorithm: the branch divides by the largest of the four
// candidate terms, which keeps the extraction numerically stable for all
// rotation angles including 180 degrees.
func (rm *RotationMatrix) Quaternion() quat.Number {
	m := rm.mat
	var w, x, y, z float64

	if tr := m[0] + m[4] + m[8]; tr > 0 {
		s := 0.5 / math.Sqrt(tr+1.0)
		w = 0.25 / s
		x = (m[7] - m[5]) * s
		y = (m[2] - m[6]) * s
		z = (m[3] - m[1]) * s
	} else if m[0] > m[4] && m[0] > m[8] {
		s := 2.0 * math.Sqrt(1.0+m[0]-m[4]-m[8])
		w = (m[7] - m[5]) / s
		x = 0.25 * s
		y = (m[1] + m[3]) / s
		z = (m[2] + m[6]) / s
	} else if m[4] > m[8] {
		s := 2.0 * math.Sqrt(1.0+m[4]-m[0]-m[8])
		w = (m[2] - m[6]) / s
		x = (m[1] + m[3]) / s
		y = 0.25 * s
		z = (m[5] + m[7]) / s
	} else {
		s := 2.0 * math.Sqrt(1.0+m[8]-m[0]-m[4])
		w = (m[3] - m[1]) / s
		x = (m[2] + m[6]) / s
		y = (m[5] + m[7]) / s
		z = 0.25 * s
	}

	return Normalize(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

// EulerAngles returns the orientation in Euler angle representation; it is the
// inverse of the Rz*Ry*Rx composition in EulerAngles.RotationMatrix.
//
// When |pitch| is at 90 degrees, roll and yaw rotate about the same physical
// axis and only their difference is observable (gimbal lock). The degenerate
// branch reports roll as 0 and folds the whole coupled rotation into yaw.
// Successive extractions near the singularity can therefore jump by large
// amounts in roll/yaw individually while the underlying rotation stays
// continuous; this is a property of the representation, not an error.
func (rm *RotationMatrix) EulerAngles() *EulerAngles {
	m := rm.mat
	if 1-math.Abs(m[6]) < gimbalEpsilon {
		return &EulerAngles{
			Roll:  0,
			Pitch: math.Asin(clamp1(-m[6])),
			Yaw:   math.Atan2(-m[1], m[4]),
		}
	}
	return &EulerAngles{
		Roll:  math.Atan2(m[7], m[8]),
		Pitch: math.Asin(clamp1(-m[6])),
		Yaw:   math.Atan2(m[3], m[0]),
	}
}

// clamp1 bounds v to [-1, 1] so Asin never sees an argument pushed out of
// range by floating noise.
func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Row returns the a vector with the given row of the matrix.
func (rm *RotationMatrix) Row(row int) [3]float64 {
	return [3]float64{rm.mat[3*row], rm.mat[3*row+1], rm.mat[3*row+2]}
}
