// Package geo holds the small amount of spherical geometry and coordinate
// plumbing the rest of the module shares.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometers between two
// positions given in degrees, via the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	hav := haversine(phi2-phi1) + math.Cos(phi1)*math.Cos(phi2)*haversine(radians(lon2-lon1))
	return EarthRadiusKm * arcHaversine(hav)
}

// ValidCoords reports whether a latitude/longitude pair lies on the globe.
// The comparison is written so NaN fails it.
func ValidCoords(lat, lon float64) bool {
	return math.Abs(lat) <= 90 && math.Abs(lon) <= 180
}

// FormatCoord renders a coordinate with at most five decimal places,
// dropping trailing zeros: 43.70000 prints as "43.7".
func FormatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 5, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func haversine(rad float64) float64 {
	s := math.Sin(rad / 2)
	return s * s
}

// arcHaversine clamps before asin so rounding in the haversine sum cannot
// push the argument past 1.
func arcHaversine(hav float64) float64 {
	return 2 * math.Asin(math.Min(1, math.Sqrt(hav)))
}

func radians(deg float64) float64 {
	return (math.Pi / 180) * deg
}
