package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/UnknownOlympus/minaret/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// ErrEmptyResponse is returned when the Google Maps API responds with an empty result.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// ReverseGeocode resolves coordinates to a place using the Google Maps Geocoding API.
// Address components of the first result are mapped: locality (or postal town) to city,
// administrative_area_level_1 to region and country to country.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) (*models.Place, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "lat", coords.Latitude, "lon", coords.Longitude)

	req := maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: coords.Latitude, Lng: coords.Longitude}}
	results, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode coordinates: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	place := &models.Place{}
	for _, component := range results[0].AddressComponents {
		switch {
		case slices.Contains(component.Types, "locality"):
			place.City = component.LongName
		case slices.Contains(component.Types, "postal_town") && place.City == "":
			place.City = component.LongName
		case slices.Contains(component.Types, "administrative_area_level_1"):
			place.Region = component.LongName
		case slices.Contains(component.Types, "country"):
			place.Country = component.LongName
		}
	}

	return place, nil
}
