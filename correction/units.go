package correction

// PixelToMMRatio computes the scale the deviation source multiplies pixel
// measurements by to get millimeters, from a feature of known physical size.
// Returns 0 when the measured length is 0; the measurement pipeline treats a
// zero ratio as "not calibrated".
func PixelToMMRatio(measuredPixelLen, knownMMLen float64) float64 {
	if measuredPixelLen == 0 {
		return 0
	}
	return knownMMLen / measuredPixelLen
}
