package geocoding

import (
	"context"

	"github.com/UnknownOlympus/minaret/internal/models"
)

// Provider is an interface that defines a method for reverse geocoding a point.
// The ReverseGeocode method takes a context and coordinates as input,
// and returns the place (city, region, country) and an error if any occurs.
type Provider interface {
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (*models.Place, error)
}
