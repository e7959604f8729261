package utils

import (
	"math"

	"citycare-backend/internal/models"
)

// ValidCoordinates reports whether an address's optional coordinates are
// usable. Both must be present or both absent, and within range.
func ValidCoordinates(addr models.Address) bool {
	if addr.Latitude == nil && addr.Longitude == nil {
		return true
	}
	if addr.Latitude == nil || addr.Longitude == nil {
		return false
	}
	lat, lng := *addr.Latitude, *addr.Longitude
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// HasCoordinates reports whether both latitude and longitude are set.
func HasCoordinates(addr *models.Address) bool {
	return addr != nil && addr.Latitude != nil && addr.Longitude != nil
}

// CalculateDistance returns the great-circle distance in kilometres between
// two addresses using the Haversine formula. Both must have coordinates.
func CalculateDistance(a, b models.Address) float64 {
	const earthRadiusKm = 6371

	lat1Rad := toRadians(*a.Latitude)
	lon1Rad := toRadians(*a.Longitude)
	lat2Rad := toRadians(*b.Latitude)
	lon2Rad := toRadians(*b.Longitude)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
