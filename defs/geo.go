package defs

import "math"

// EarthRadiusKm is the mean earth radius used by Distance
const EarthRadiusKm = 6371.0

// Coordinate is a latitude/longitude pair in degrees
type Coordinate struct {
	Lat float64
	Lon float64
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in kilometers between a and b
func Distance(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// atan2 keeps the result finite when rounding pushes h slightly past 1 near antipodes
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(math.Max(0, 1-h)))
	return EarthRadiusKm * c
}
