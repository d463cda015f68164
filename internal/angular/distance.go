package angular

import "math"

// DistanceFunc computes the angular separation between two points given by
// right ascension and declination. Inputs and output are in degrees.
type DistanceFunc func(ra1, dec1, ra2, dec2 float64) float64

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Distance returns the great-circle separation between two points on the
// celestial sphere, computed with the haversine formula.
// Range: [0, 180] degrees. 0 = same direction.
func Distance(ra1, dec1, ra2, dec2 float64) float64 {
	phi1 := dec1 * degToRad
	phi2 := dec2 * degToRad
	dPhi := (dec2 - dec1) * degToRad
	dLambda := (ra2 - ra1) * degToRad

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// Clamp to [0, 1] to avoid NaN from floating point errors
	if a > 1 {
		a = 1
	} else if a < 0 {
		a = 0
	}
	return 2 * math.Asin(math.Sqrt(a)) * radToDeg
}
