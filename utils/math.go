// Package utils contains shared numeric helpers used across the correction engine.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// AngleDiffDeg returns the closest difference from the two given
// angles. The arguments are commutative.
func AngleDiffDeg(a1, a2 float64) float64 {
	return float64(180) - math.Abs(math.Abs(a1-a2)-float64(180))
}

// ModAngDeg normalizes an angle in degrees to [0, 360).
func ModAngDeg(ang float64) float64 {
	return math.Mod(math.Mod(ang, 360)+360, 360)
}

// Float64AlmostEqual compares two float64s within the given epsilon.
func Float64AlmostEqual(v1, v2, epsilon float64) bool {
	return math.Abs(v1-v2) <= epsilon
}
