package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/arktos-robotics/visionguide/correction"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := NewApp(nil)
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"visionguide"}, args...))
	return out.String(), err
}

func TestCorrectIdentity(t *testing.T) {
	out, err := runApp(t,
		"correct",
		"--identity",
		"--pose", "97.2,298.7,810.7,2.070,-1.548,1.091",
		"--deviation", "-50,0,0",
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "current:")
	test.That(t, out, test.ShouldContainSubstring, "target:")
	test.That(t, out, test.ShouldContainSubstring, "delta:")
}

func TestCorrectWithCalibrationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "T_eye_in_hand.json")
	data := `{"T": [[0,-1,0,50],[1,0,0,-12],[0,0,1,100],[0,0,0,1]]}`
	test.That(t, os.WriteFile(path, []byte(data), 0o600), test.ShouldBeNil)

	_, err := runApp(t,
		"correct",
		"--calibration", path,
		"--pose", "500,-300,400,180,0,0",
		"--deviation", "10,5,1",
		"--degrees",
	)
	test.That(t, err, test.ShouldBeNil)
}

func TestCorrectMissingCalibration(t *testing.T) {
	_, err := runApp(t,
		"correct",
		"--pose", "0,0,0,0,0,0",
		"--deviation", "0,0,0",
	)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "--calibration")
}

func TestFlagParsing(t *testing.T) {
	_, err := commaSeparatedFloats("1,2,3", 3)
	test.That(t, err, test.ShouldBeNil)

	_, err = commaSeparatedFloats("1,2", 3)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = commaSeparatedFloats("1,2,zebra", 3)
	test.That(t, err, test.ShouldNotBeNil)

	axis, err := parseVerticalAxis("Y")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis, test.ShouldEqual, correction.AxisY)

	_, err = parseVerticalAxis("w")
	test.That(t, err, test.ShouldNotBeNil)
}
