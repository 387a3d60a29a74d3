// Package geodesy computes great-circle bearings and distances on a spherical Earth.
package geodesy

import (
	"math"

	"github.com/UnknownOlympus/minaret/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Kaaba is the fixed Qibla target.
var Kaaba = models.Coordinates{Latitude: 21.4225, Longitude: 39.8262}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees maps any finite angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod can return -0 or round up to 360 for tiny negatives.
	if deg >= 360 || deg == 0 {
		return 0
	}

	return deg
}

// Bearing returns the initial great-circle bearing from one point to another,
// in compass degrees within [0, 360). Identical points yield 0.
func Bearing(from, to models.Coordinates) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeDegrees(toDegrees(math.Atan2(y, x)) + 360)
}

// Distance returns the haversine great-circle distance in kilometers.
func Distance(from, to models.Coordinates) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLat := toRadians(to.Latitude - from.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Qibla returns the bearing and distance from a point to the Kaaba.
func Qibla(from models.Coordinates) models.QiblaResult {
	return models.QiblaResult{
		BearingDegrees: Bearing(from, Kaaba),
		DistanceKm:     Distance(from, Kaaba),
	}
}
