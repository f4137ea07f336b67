package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// bottomRowTolerance is how far the last row of a homogeneous matrix may be
// from [0 0 0 1] before the matrix is rejected as malformed.
const bottomRowTolerance = 1e-9

// HomogeneousMatrix is a 4x4 rigid transform: a 3x3 rotation block, a 3x1
// translation column, and a fixed [0 0 0 1] bottom row. It is the canonical
// interchange format between poses and coordinate transforms. Instances are
// immutable once constructed.
type HomogeneousMatrix struct {
	m *mat.Dense
}

// NewHomogeneousMatrix creates a HomogeneousMatrix from a 4x4 dense matrix,
// validating shape, the bottom row, and that the rotation block is in fact a
// rotation. The input is copied, so the caller may keep mutating its matrix.
func NewHomogeneousMatrix(m *mat.Dense) (*HomogeneousMatrix, error) {
	r, c := m.Dims()
	if r != 4 || c != 4 {
		return nil, errors.Errorf("homogeneous matrix must be 4x4, got %dx%d", r, c)
	}

	var err error
	for j, want := range [4]float64{0, 0, 0, 1} {
		if math.Abs(m.At(3, j)-want) > bottomRowTolerance {
			err = multierr.Append(err, errors.Errorf("homogeneous matrix bottom row element %d is %g, need %g", j, m.At(3, j), want))
		}
	}
	if err != nil {
		return nil, err
	}

	rotData := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rotData = append(rotData, m.At(i, j))
		}
	}
	if _, err := NewRotationMatrix(rotData); err != nil {
		return nil, errors.Wrap(err, "homogeneous matrix rotation block invalid")
	}

	return &HomogeneousMatrix{mat.DenseCopyOf(m)}, nil
}

// NewHomogeneousMatrixFromPoint creates a pure translation to the given point.
func NewHomogeneousMatrixFromPoint(pt r3.Vector) *HomogeneousMatrix {
	return composeHomogeneous(&RotationMatrix{[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}, pt)
}

// NewHomogeneousMatrixFromRotation creates a pure rotation about the origin.
func NewHomogeneousMatrixFromRotation(o Orientation) *HomogeneousMatrix {
	return composeHomogeneous(o.RotationMatrix(), r3.Vector{})
}

// composeHomogeneous assembles a matrix from an already-validated rotation and
// a translation, skipping re-validation.
func composeHomogeneous(rm *RotationMatrix, pt r3.Vector) *HomogeneousMatrix {
	m := mat.NewDense(4, 4, []float64{
		rm.At(0, 0), rm.At(0, 1), rm.At(0, 2), pt.X,
		rm.At(1, 0), rm.At(1, 1), rm.At(1, 2), pt.Y,
		rm.At(2, 0), rm.At(2, 1), rm.At(2, 2), pt.Z,
		0, 0, 0, 1,
	})
	return &HomogeneousMatrix{m}
}

// At returns the element at the given row, column.
func (hm *HomogeneousMatrix) At(row, col int) float64 {
	return hm.m.At(row, col)
}

// Rotation returns the 3x3 rotation block.
func (hm *HomogeneousMatrix) Rotation() *RotationMatrix {
	var rot [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot[3*i+j] = hm.m.At(i, j)
		}
	}
	return &RotationMatrix{rot}
}

// Translation returns the translation column.
func (hm *HomogeneousMatrix) Translation() r3.Vector {
	return r3.Vector{X: hm.m.At(0, 3), Y: hm.m.At(1, 3), Z: hm.m.At(2, 3)}
}

// Mul returns the product hm * other, the transform that applies other first
// and the receiver second.
func (hm *HomogeneousMatrix) Mul(other *HomogeneousMatrix) *HomogeneousMatrix {
	product := mat.NewDense(4, 4, nil)
	product.Mul(hm.m, other.m)
	return &HomogeneousMatrix{product}
}

// Inverse returns the full matrix inverse. The transpose shortcut for pure
// rotations does not apply because of the translation column. A singular
// matrix cannot occur for a well-formed rigid transform, so failure here
// indicates corrupt calibration data and is surfaced as an error.
func (hm *HomogeneousMatrix) Inverse() (*HomogeneousMatrix, error) {
	inverse := mat.NewDense(4, 4, nil)
	if err := inverse.Inverse(hm.m); err != nil {
		return nil, errors.Wrap(err, "homogeneous matrix is not invertible")
	}
	return &HomogeneousMatrix{inverse}, nil
}

// TransformPoint lifts pt to homogeneous form, left-multiplies by the matrix,
// and drops back to 3D.
func (hm *HomogeneousMatrix) TransformPoint(pt r3.Vector) r3.Vector {
	lifted := mat.NewVecDense(4, []float64{pt.X, pt.Y, pt.Z, 1})
	transformed := mat.NewVecDense(4, nil)
	transformed.MulVec(hm.m, lifted)
	return r3.Vector{X: transformed.AtVec(0), Y: transformed.AtVec(1), Z: transformed.AtVec(2)}
}

// AlmostEqual reports whether every element of the two matrices matches
// within epsilon.
func (hm *HomogeneousMatrix) AlmostEqual(other *HomogeneousMatrix, epsilon float64) bool {
	return mat.EqualApprox(hm.m, other.m, epsilon)
}
