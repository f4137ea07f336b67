package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/arktos-robotics/visionguide/utils"
)

func randomUnitQuaternion(rSeed *rand.Rand) quat.Number {
	return Normalize(quat.Number{
		Real: rSeed.NormFloat64(),
		Imag: rSeed.NormFloat64(),
		Jmag: rSeed.NormFloat64(),
		Kmag: rSeed.NormFloat64(),
	})
}

func TestZeroOrientation(t *testing.T) {
	zero := NewZeroOrientation()
	test.That(t, zero.Quaternion(), test.ShouldResemble, quat.Number{Real: 1})
	test.That(t, zero.EulerAngles(), test.ShouldResemble, NewEulerAngles())
}

func TestQuaternionMatrixRoundTrip(t *testing.T) {
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		q := Quaternion(randomUnitQuaternion(rSeed))
		back := q.RotationMatrix().Quaternion()
		// q and -q are the same rotation; no canonical sign is promised.
		test.That(t, QuaternionAlmostEqual(quat.Number(q), back, 1e-9), test.ShouldBeTrue)
	}
}

func TestEulerMatrixRoundTrip(t *testing.T) {
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		ea := &EulerAngles{
			Roll:  (rSeed.Float64()*2 - 1) * math.Pi,
			Pitch: (rSeed.Float64()*2 - 1) * utils.DegToRad(80),
			Yaw:   (rSeed.Float64()*2 - 1) * math.Pi,
		}
		back := ea.RotationMatrix().EulerAngles()
		test.That(t, back.Roll, test.ShouldAlmostEqual, ea.Roll, 1e-6)
		test.That(t, back.Pitch, test.ShouldAlmostEqual, ea.Pitch, 1e-6)
		test.That(t, back.Yaw, test.ShouldAlmostEqual, ea.Yaw, 1e-6)
	}
}

func TestEulerCompositionOrder(t *testing.T) {
	// A 90 degree yaw maps X onto Y; with the z-y'-x'' order the roll is
	// applied first and must not leak into where X lands.
	ea := &EulerAngles{Roll: math.Pi / 3, Pitch: 0, Yaw: math.Pi / 2}
	rm := ea.RotationMatrix()
	test.That(t, rm.At(0, 0), test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, rm.At(1, 0), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, rm.At(2, 0), test.ShouldAlmostEqual, 0, 1e-12)

	// Compare against the explicit product Rz * Ry * Rx.
	rx := (&EulerAngles{Roll: ea.Roll}).RotationMatrix()
	ry := (&EulerAngles{Pitch: ea.Pitch}).RotationMatrix()
	rz := (&EulerAngles{Yaw: ea.Yaw}).RotationMatrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var want float64
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					want += rz.At(i, k) * ry.At(k, l) * rx.At(l, j)
				}
			}
			test.That(t, rm.At(i, j), test.ShouldAlmostEqual, want, 1e-12)
		}
	}
}

func TestOrientationsAgree(t *testing.T) {
	// The same physical rotation through the quaternion path and the Euler
	// path must land on the same matrix.
	ea := &EulerAngles{Roll: 0.3, Pitch: -0.7, Yaw: 2.1}
	q := Quaternion(ea.Quaternion())
	qm := q.RotationMatrix()
	em := ea.RotationMatrix()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			test.That(t, qm.At(i, j), test.ShouldAlmostEqual, em.At(i, j), 1e-9)
		}
	}
	test.That(t, OrientationAlmostEqual(q.EulerAngles(), ea), test.ShouldBeTrue)
}

func TestGimbalLockExtraction(t *testing.T) {
	// At pitch of exactly +/-90 degrees only roll-yaw differences are
	// observable. The extracted angles need not match the inputs, but they
	// must reproduce the same physical rotation.
	for _, pitch := range []float64{math.Pi / 2, -math.Pi / 2} {
		ea := &EulerAngles{Roll: 0.4, Pitch: pitch, Yaw: -1.2}
		rm := ea.RotationMatrix()
		back := rm.EulerAngles()
		test.That(t, back.Roll, test.ShouldEqual, 0)
		backRM := back.RotationMatrix()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				test.That(t, backRM.At(i, j), test.ShouldAlmostEqual, rm.At(i, j), 1e-9)
			}
		}
	}
}

func TestQuaternionStableNear180(t *testing.T) {
	// Near-180-degree rotations have trace near -1; the branch-on-trace
	// extraction must stay stable there.
	for _, ea := range []*EulerAngles{
		{Roll: math.Pi - 1e-9},
		{Pitch: math.Pi - 1e-9},
		{Yaw: math.Pi - 1e-9},
	} {
		q := ea.Quaternion()
		back := (&Quaternion{q.Real, q.Imag, q.Jmag, q.Kmag}).RotationMatrix().Quaternion()
		test.That(t, QuaternionAlmostEqual(q, back, 1e-9), test.ShouldBeTrue)
	}
}

func TestNewUnitQuaternion(t *testing.T) {
	_, err := NewUnitQuaternion(1, 1, 0, 0)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unit norm")

	q, err := NewUnitQuaternion(1+1e-9, 0, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, q.Real, test.ShouldAlmostEqual, 1, 1e-9)

	_, err = NewUnitQuaternion(0, 0, 0, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRotationMatrixValidation(t *testing.T) {
	_, err := NewRotationMatrix([]float64{1, 0, 0, 0, 1, 0})
	test.That(t, err, test.ShouldNotBeNil)

	// scaled rows are not orthonormal
	_, err = NewRotationMatrix([]float64{2, 0, 0, 0, 2, 0, 0, 0, 2})
	test.That(t, err, test.ShouldNotBeNil)

	// reflection has determinant -1
	_, err = NewRotationMatrix([]float64{1, 0, 0, 0, 1, 0, 0, 0, -1})
	test.That(t, err, test.ShouldNotBeNil)

	rm, err := NewRotationMatrix([]float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rm.At(0, 1), test.ShouldEqual, -1)
}
