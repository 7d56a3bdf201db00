package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseCoordinate converts a latitude or longitude string from the geocoding
// API into a float. Returns 0 on malformed input.
func ParseCoordinate(v string) float64 {
	v = strings.TrimSpace(v)

	val, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return val
}

// CalculateDistance returns the great-circle distance in kilometres between
// two coordinate pairs.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	// Convert coordinates to radians
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	// Calculate differences
	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	distance := earthRadius * c

	return distance
}
