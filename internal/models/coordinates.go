package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned when a point is outside the valid latitude/longitude ranges.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
}

// Validate checks that the point lies within [-90,90] latitude and [-180,180] longitude.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) || c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinates, c.Latitude)
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinates, c.Longitude)
	}

	return nil
}

// QiblaResult holds the initial bearing and great-circle distance toward the Kaaba.
type QiblaResult struct {
	BearingDegrees float64 `json:"bearing_degrees"`
	DistanceKm     float64 `json:"distance_km"`
}
