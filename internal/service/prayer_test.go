package service_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/UnknownOlympus/minaret/internal/alarm"
	"github.com/UnknownOlympus/minaret/internal/metrics"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/UnknownOlympus/minaret/internal/service"
	"github.com/UnknownOlympus/minaret/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fallbackPlace = models.Place{City: "Mecca", Country: "Saudi Arabia"}

type env struct {
	svc      *service.PrayerService
	repo     *repository.Repository
	timings  *mocks.TimingsProvider
	geocoder *mocks.Geocoder
	metrics  *metrics.Metrics
}

func newEnv(t *testing.T, withGeocoder bool) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	repo := repository.NewRepository(repository.NewMemoryStore(), logger, m)
	alarms := alarm.NewService(logger, repo, m, alarm.Options{UIOnly: true})
	timingsProvider := mocks.NewTimingsProvider(t)

	e := &env{repo: repo, timings: timingsProvider, metrics: m}
	if withGeocoder {
		e.geocoder = mocks.NewGeocoder(t)
		e.svc = service.NewPrayerService(logger, alarms, repo, timingsProvider, e.geocoder, "nominatim", m, fallbackPlace)
	} else {
		e.svc = service.NewPrayerService(logger, alarms, repo, timingsProvider, nil, "", m, fallbackPlace)
	}

	return e
}

func sampleDaily() *models.DailyTimings {
	return &models.DailyTimings{
		Timings: map[models.PrayerName]string{
			models.Fajr:    "04:51",
			models.Dhuhr:   "12:10",
			models.Asr:     "15:31",
			models.Maghrib: "18:02",
			models.Isha:    "19:20",
		},
	}
}

func TestPrayerService_PrayerTimes(t *testing.T) {
	t.Run("stored snapshot is returned without fetching", func(t *testing.T) {
		e := newEnv(t, true)
		stored := models.DefaultPrayerTimes()
		stored[2].Time = "4:00 pm"
		require.NoError(t, e.repo.SavePrayerTimes(t.Context(), stored))

		res, err := e.svc.PrayerTimes(t.Context(), &models.Coordinates{Latitude: 31.5, Longitude: 74.3})

		require.NoError(t, err)
		assert.Equal(t, service.SourceStored, res.Source)
		assert.Equal(t, stored, res.PrayerTimes)
		assert.Nil(t, res.Place)
	})

	t.Run("fetches for the fallback place without coordinates", func(t *testing.T) {
		e := newEnv(t, true)
		e.timings.On("Timings", mock.Anything, "Mecca", "Saudi Arabia", mock.AnythingOfType("time.Time")).
			Return(sampleDaily(), nil).Once()

		res, err := e.svc.PrayerTimes(t.Context(), nil)

		require.NoError(t, err)
		assert.Equal(t, service.SourceProvider, res.Source)
		assert.Equal(t, "4:51 am", res.PrayerTimes[0].Time)
		assert.Equal(t, "7:20 pm", res.PrayerTimes[4].Time)
		assert.Equal(t, &fallbackPlace, res.Place)

		persisted, stored := e.repo.LoadPrayerTimes(t.Context())
		assert.True(t, stored)
		assert.Equal(t, res.PrayerTimes, persisted)
	})

	t.Run("fetches for the reverse geocoded place", func(t *testing.T) {
		e := newEnv(t, true)
		coords := models.Coordinates{Latitude: 31.5204, Longitude: 74.3587}
		place := &models.Place{City: "Lahore", Region: "Punjab", Country: "Pakistan"}
		e.geocoder.On("ReverseGeocode", mock.Anything, coords).Return(place, nil).Once()
		e.timings.On("Timings", mock.Anything, "Lahore", "Pakistan", mock.Anything).Return(sampleDaily(), nil).Once()

		res, err := e.svc.PrayerTimes(t.Context(), &coords)

		require.NoError(t, err)
		assert.Equal(t, place, res.Place)
		assert.Equal(t, service.SourceProvider, res.Source)
	})

	t.Run("geocoding failure uses the fallback place", func(t *testing.T) {
		e := newEnv(t, true)
		coords := models.Coordinates{Latitude: 1, Longitude: 2}
		e.geocoder.On("ReverseGeocode", mock.Anything, coords).Return(nil, assert.AnError).Once()
		e.timings.On("Timings", mock.Anything, "Mecca", "Saudi Arabia", mock.Anything).Return(sampleDaily(), nil).Once()

		res, err := e.svc.PrayerTimes(t.Context(), &coords)

		require.NoError(t, err)
		assert.Equal(t, &fallbackPlace, res.Place)
		assert.InDelta(t, 1.0, testutil.ToFloat64(e.metrics.ProviderErrors.WithLabelValues("nominatim")), 0)
	})

	t.Run("provider failure falls back to defaults and stores nothing", func(t *testing.T) {
		e := newEnv(t, false)
		e.timings.On("Timings", mock.Anything, "Mecca", "Saudi Arabia", mock.Anything).Return(nil, assert.AnError).Once()

		res, err := e.svc.PrayerTimes(t.Context(), &models.Coordinates{Latitude: 1, Longitude: 2})

		require.NoError(t, err)
		assert.Equal(t, service.SourceDefault, res.Source)
		assert.Equal(t, models.DefaultPrayerTimes(), res.PrayerTimes)
		assert.InDelta(t, 1.0, testutil.ToFloat64(e.metrics.ProviderErrors.WithLabelValues("aladhan")), 0)

		_, stored := e.repo.LoadPrayerTimes(t.Context())
		assert.False(t, stored)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		e := newEnv(t, false)

		_, err := e.svc.PrayerTimes(t.Context(), &models.Coordinates{Latitude: 95})

		require.ErrorIs(t, err, models.ErrInvalidCoordinates)
	})
}

func TestPrayerService_Qibla(t *testing.T) {
	e := newEnv(t, false)

	res, err := e.svc.Qibla(models.Coordinates{Latitude: 51.5074, Longitude: -0.1278})
	require.NoError(t, err)
	assert.InDelta(t, 119.0, res.BearingDegrees, 1.0)
	assert.InDelta(t, 4790.0, res.DistanceKm, 20.0)

	_, err = e.svc.Qibla(models.Coordinates{Longitude: 200})
	require.ErrorIs(t, err, models.ErrInvalidCoordinates)
}

func TestPrayerService_HijriDate(t *testing.T) {
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		e := newEnv(t, false)
		hijri := &models.HijriDate{Day: "14", Month: "Ramadan", Year: "1447"}
		e.timings.On("HijriDate", mock.Anything, date).Return(hijri, nil).Once()

		got, err := e.svc.HijriDate(t.Context(), date)

		require.NoError(t, err)
		assert.Equal(t, "14 Ramadan, 1447", got.String())
	})

	t.Run("provider error", func(t *testing.T) {
		e := newEnv(t, false)
		e.timings.On("HijriDate", mock.Anything, date).Return(nil, assert.AnError).Once()

		got, err := e.svc.HijriDate(t.Context(), date)

		require.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, got)
	})
}

func TestPrayerService_Location(t *testing.T) {
	coords := models.Coordinates{Latitude: 31.5204, Longitude: 74.3587}

	t.Run("no geocoder", func(t *testing.T) {
		e := newEnv(t, false)

		_, err := e.svc.Location(t.Context(), coords)

		require.ErrorIs(t, err, service.ErrNoGeocoder)
	})

	t.Run("resolved", func(t *testing.T) {
		e := newEnv(t, true)
		e.geocoder.On("ReverseGeocode", mock.Anything, coords).
			Return(&models.Place{City: "Lahore", Country: "Pakistan"}, nil).Once()

		place, err := e.svc.Location(t.Context(), coords)

		require.NoError(t, err)
		assert.Equal(t, "Lahore, Pakistan", place.Label())
	})

	t.Run("geocoder error", func(t *testing.T) {
		e := newEnv(t, true)
		e.geocoder.On("ReverseGeocode", mock.Anything, coords).Return(nil, assert.AnError).Once()

		_, err := e.svc.Location(t.Context(), coords)

		require.ErrorIs(t, err, assert.AnError)
	})
}
