package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/minaret/internal/alarm"
	"github.com/UnknownOlympus/minaret/internal/geocoding"
	"github.com/UnknownOlympus/minaret/internal/geodesy"
	"github.com/UnknownOlympus/minaret/internal/metrics"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/UnknownOlympus/minaret/internal/timings"
)

// ErrNoGeocoder is returned by Location when no reverse geocoding provider is configured.
var ErrNoGeocoder = errors.New("reverse geocoding is not configured")

// Source tells where the prayer times of a result came from.
type Source string

const (
	SourceStored   Source = "stored"
	SourceProvider Source = "provider"
	SourceDefault  Source = "default"
)

const timingsProviderName = "aladhan"

// StateLoader is implemented by alarm.Service.
type StateLoader interface {
	LoadPersistedState(ctx context.Context) alarm.State
}

// PrayerTimesResult is the dashboard view: the day's table plus the alarms set on it.
type PrayerTimesResult struct {
	PrayerTimes []models.PrayerTimeEntry `json:"prayerTimes"`
	Alarms      []models.AlarmRecord     `json:"alarms"`
	Place       *models.Place            `json:"place,omitempty"`
	Source      Source                   `json:"source"`
}

// PrayerService composes the prayer-time provider, reverse geocoding and the
// persisted state into the screens of the app.
type PrayerService struct {
	log          *slog.Logger         // Logger for logging service activities
	state        StateLoader          // Persisted prayer times and alarms
	repo         repository.Interface // Snapshot persistence
	timings      timings.Provider     // Prayer-time and Hijri provider
	geocoder     geocoding.Provider   // Optional reverse geocoder, may be nil
	geocoderName string               // Name of the geocoder for metrics labeling
	metrics      *metrics.Metrics     // Metrics for tracking provider performance
	fallback     models.Place         // City and country used when the location is unknown
	now          func() time.Time
}

// NewPrayerService creates a new instance of PrayerService.
// The geocoder may be nil, in which case the fallback place is always used.
func NewPrayerService(
	log *slog.Logger,
	state StateLoader,
	repo repository.Interface,
	timingsProvider timings.Provider,
	geocoder geocoding.Provider,
	geocoderName string,
	metrics *metrics.Metrics,
	fallback models.Place,
) *PrayerService {
	return &PrayerService{
		log:          log,
		state:        state,
		repo:         repo,
		timings:      timingsProvider,
		geocoder:     geocoder,
		geocoderName: geocoderName,
		metrics:      metrics,
		fallback:     fallback,
		now:          time.Now,
	}
}

// PrayerTimes returns the stored snapshot when one exists. Otherwise it fetches
// today's timetable for the caller's place, persists it, and returns it. A provider
// failure is not an error: the default table is returned and nothing is stored.
func (ps *PrayerService) PrayerTimes(ctx context.Context, coords *models.Coordinates) (*PrayerTimesResult, error) {
	if coords != nil {
		if err := coords.Validate(); err != nil {
			return nil, err
		}
	}

	state := ps.state.LoadPersistedState(ctx)
	result := &PrayerTimesResult{PrayerTimes: state.PrayerTimes, Alarms: state.Alarms, Source: SourceStored}
	if state.PrayerTimesStored {
		return result, nil
	}

	place := ps.resolvePlace(ctx, coords)
	result.Place = place

	entries, err := ps.fetchPrayerTimes(ctx, place)
	if err != nil {
		ps.log.WarnContext(ctx, "Falling back to default prayer times", "city", place.City, "error", err)
		result.Source = SourceDefault
		return result, nil
	}

	if err = ps.repo.SavePrayerTimes(ctx, entries); err != nil {
		ps.log.ErrorContext(ctx, "Failed to persist fetched prayer times", "error", err)
	}
	result.PrayerTimes = entries
	result.Source = SourceProvider

	return result, nil
}

// Qibla returns the bearing and distance from coords to the Kaaba.
func (ps *PrayerService) Qibla(coords models.Coordinates) (*models.QiblaResult, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	result := geodesy.Qibla(coords)

	return &result, nil
}

// HijriDate converts a Gregorian date through the provider.
func (ps *PrayerService) HijriDate(ctx context.Context, date time.Time) (*models.HijriDate, error) {
	start := time.Now()
	hijri, err := ps.timings.HijriDate(ctx, date)
	ps.observe(timingsProviderName, start, err)
	if err != nil {
		ps.log.ErrorContext(ctx, "Failed to fetch hijri date", "date", date.Format(time.DateOnly), "error", err)
		return nil, fmt.Errorf("failed to fetch hijri date: %w", err)
	}

	return hijri, nil
}

// Location reverse geocodes coords into a place.
func (ps *PrayerService) Location(ctx context.Context, coords models.Coordinates) (*models.Place, error) {
	if err := coords.Validate(); err != nil {
		return nil, err
	}
	if ps.geocoder == nil {
		return nil, ErrNoGeocoder
	}

	start := time.Now()
	place, err := ps.geocoder.ReverseGeocode(ctx, coords)
	ps.observe(ps.geocoderName, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}

	return place, nil
}

// resolvePlace never fails: any missing part is taken from the fallback place.
func (ps *PrayerService) resolvePlace(ctx context.Context, coords *models.Coordinates) *models.Place {
	place := ps.fallback
	if coords == nil || ps.geocoder == nil {
		return &place
	}

	resolved, err := ps.Location(ctx, *coords)
	if err != nil {
		ps.log.WarnContext(ctx, "Reverse geocoding failed, using fallback place",
			"fallback_city", ps.fallback.City, "error", err)
		return &place
	}
	if resolved.City == "" || resolved.Country == "" {
		ps.log.DebugContext(ctx, "Reverse geocoding returned a partial place", "place", resolved.Label())
		return &place
	}

	return resolved
}

func (ps *PrayerService) fetchPrayerTimes(ctx context.Context, place *models.Place) ([]models.PrayerTimeEntry, error) {
	start := time.Now()
	daily, err := ps.timings.Timings(ctx, place.City, place.Country, ps.now())
	ps.observe(timingsProviderName, start, err)
	if err != nil {
		return nil, err
	}

	return timings.ToEntries(daily)
}

func (ps *PrayerService) observe(provider string, start time.Time, err error) {
	ps.metrics.RequestSeconds.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		ps.metrics.ProviderErrors.WithLabelValues(provider).Inc()
	}
}
