package spatialmath

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// unitTolerance is how far from unit norm an incoming quaternion may be before
// it is treated as a caller bug rather than floating-point noise.
const unitTolerance = 1e-6

// Quaternion is an orientation in quaternion representation, scalar-first
// (w, x, y, z). It must be of unit norm; use NewUnitQuaternion to enforce that
// at a trust boundary.
type Quaternion quat.Number

// NewUnitQuaternion returns the quaternion (w, x, y, z) after checking that it
// is of unit norm. A small deviation is normalized away; a gross deviation
// means the caller handed us something that is not a rotation, and is
// surfaced rather than repaired.
func NewUnitQuaternion(w, x, y, z float64) (*Quaternion, error) {
	norm := math.Sqrt(w*w + x*x + y*y + z*z)
	if math.Abs(norm-1) > unitTolerance {
		return nil, errors.Errorf("quaternion [%f %f %f %f] is not of unit norm (norm %f)", w, x, y, z, norm)
	}
	return &Quaternion{Real: w / norm, Imag: x / norm, Jmag: y / norm, Kmag: z / norm}, nil
}

// Quaternion returns orientation in quaternion representation.
func (q *Quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// EulerAngles returns orientation in Euler angle representation.
func (q *Quaternion) EulerAngles() *EulerAngles {
	return q.RotationMatrix().EulerAngles()
}

// RotationMatrix returns the orientation in rotation matrix representation,
// via the standard quaternion-to-matrix formula. The receiver is normalized
// first so floating noise from upstream arithmetic cannot skew the matrix.
func (q *Quaternion) RotationMatrix() *RotationMatrix {
	n := Normalize(quat.Number(*q))
	w, x, y, z := n.Real, n.Imag, n.Jmag, n.Kmag

	return &RotationMatrix{[9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	}}
}

// Normalize a quaternion, returning its, versor (unit quaternion).
func Normalize(q quat.Number) quat.Number {
	length := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if math.Abs(length-1.0) < 1e-10 {
		return q
	}
	if length == 0 {
		return quat.Number{Real: 1}
	}
	if length == math.Inf(1) {
		length = float64(math.MaxFloat64)
	}
	return quat.Number{Real: q.Real / length, Imag: q.Imag / length, Jmag: q.Jmag / length, Kmag: q.Kmag / length}
}

// QuaternionAlmostEqual checks whether two quaternions represent nearly the
// same rotation. q and -q represent the same rotation, so both signs are
// accepted.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	bNeg := quat.Scale(-1, b)
	return quatAlmostComponentEqual(a, b, tol) || quatAlmostComponentEqual(a, bNeg, tol)
}

func quatAlmostComponentEqual(a, b quat.Number, tol float64) bool {
	diff := quat.Sub(a, b)
	return math.Abs(diff.Real) <= tol &&
		math.Abs(diff.Imag) <= tol &&
		math.Abs(diff.Jmag) <= tol &&
		math.Abs(diff.Kmag) <= tol
}
