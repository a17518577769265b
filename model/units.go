package model

// Lengths in the model are points (1/72 inch).

// PointsToTwips converts points to twentieths of a point.
func PointsToTwips(pt float64) int { return round(pt * 20) }

// PointsToEMU converts points to English Metric Units.
func PointsToEMU(pt float64) int64 { return int64(pt*12700 + 0.5) }

// PointsToHalfPoints converts a font size to half-points.
func PointsToHalfPoints(pt float64) int { return round(pt * 2) }

// InchesToPoints converts inches to points.
func InchesToPoints(in float64) float64 { return in * 72 }

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}
