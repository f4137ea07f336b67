package spatialmath

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPoseHomogeneousRoundTrip(t *testing.T) {
	//nolint:gosec
	rSeed := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		q := Quaternion(randomUnitQuaternion(rSeed))
		original := NewPose(r3.Vector{
			X: rSeed.Float64() * 500,
			Y: rSeed.Float64() * 500,
			Z: rSeed.Float64() * 500,
		}, &q, "robot_base")

		back := NewPoseFromHomogeneous(original.Homogeneous(), original.Frame)
		test.That(t, PoseAlmostEqual(original, back, 1e-9), test.ShouldBeTrue)
	}
}

func TestPoseFromValues(t *testing.T) {
	p := NewPoseFromValues(97.2, 298.7, 810.7, 2.070, -1.548, 1.091, "robot_base")
	test.That(t, p.Position, test.ShouldResemble, r3.Vector{X: 97.2, Y: 298.7, Z: 810.7})
	test.That(t, p.Frame, test.ShouldEqual, "robot_base")
	test.That(t, p.Confidence, test.ShouldEqual, 1)

	ea := p.Orientation.EulerAngles()
	test.That(t, ea.Roll, test.ShouldEqual, 2.070)
	test.That(t, ea.Pitch, test.ShouldEqual, -1.548)
	test.That(t, ea.Yaw, test.ShouldEqual, 1.091)
}

func TestPoseCopy(t *testing.T) {
	p := NewPoseFromValues(1, 2, 3, 0, 0, 0, "camera")
	p.Covariance = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

	cp := p.Copy()
	cp.Covariance[0] = 42
	test.That(t, p.Covariance[0], test.ShouldEqual, 1)
	test.That(t, cp.Position, test.ShouldResemble, p.Position)
}
