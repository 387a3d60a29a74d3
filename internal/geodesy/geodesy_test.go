package geodesy_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/UnknownOlympus/minaret/internal/geodesy"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearing(t *testing.T) {
	origin := models.Coordinates{Latitude: 0, Longitude: 0}

	t.Run("due east along the equator", func(t *testing.T) {
		got := geodesy.Bearing(origin, models.Coordinates{Latitude: 0, Longitude: 90})
		assert.InDelta(t, 90.0, got, 1e-9)
	})

	t.Run("due west wraps into range", func(t *testing.T) {
		got := geodesy.Bearing(origin, models.Coordinates{Latitude: 0, Longitude: -90})
		assert.InDelta(t, 270.0, got, 1e-9)
	})

	t.Run("due north", func(t *testing.T) {
		got := geodesy.Bearing(origin, models.Coordinates{Latitude: 10, Longitude: 0})
		assert.InDelta(t, 0.0, got, 1e-9)
	})

	t.Run("identical points yield zero", func(t *testing.T) {
		point := models.Coordinates{Latitude: 51.5, Longitude: -0.12}
		assert.Zero(t, geodesy.Bearing(point, point))
	})

	t.Run("always within [0, 360)", func(t *testing.T) {
		for lat := -90.0; lat <= 90; lat += 15 {
			for lon := -180.0; lon <= 180; lon += 30 {
				from := models.Coordinates{Latitude: lat, Longitude: lon}
				for _, to := range []models.Coordinates{geodesy.Kaaba, origin, {Latitude: -lat, Longitude: -lon}} {
					got := geodesy.Bearing(from, to)
					require.GreaterOrEqual(t, got, 0.0)
					require.Less(t, got, 360.0)
				}
			}
		}
	})
}

func TestDistance(t *testing.T) {
	t.Run("quarter great circle on the equator", func(t *testing.T) {
		got := geodesy.Distance(models.Coordinates{}, models.Coordinates{Latitude: 0, Longitude: 90})
		assert.InDelta(t, math.Pi/2*geodesy.EarthRadiusKm, got, 1e-6)
		assert.InDelta(t, 10007.5, got, 0.1)
	})

	t.Run("zero for identical points", func(t *testing.T) {
		point := models.Coordinates{Latitude: 33.7, Longitude: 73.1}
		assert.InDelta(t, 0.0, geodesy.Distance(point, point), 1e-9)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := models.Coordinates{Latitude: 40.7128, Longitude: -74.006}
		b := models.Coordinates{Latitude: -33.8688, Longitude: 151.2093}
		assert.InDelta(t, geodesy.Distance(a, b), geodesy.Distance(b, a), 1e-9)
	})
}

func TestQibla(t *testing.T) {
	// London to Mecca is roughly 119 degrees and 4790 km.
	res := geodesy.Qibla(models.Coordinates{Latitude: 51.5074, Longitude: -0.1278})

	assert.InDelta(t, 119.0, res.BearingDegrees, 1.0)
	assert.InDelta(t, 4790.0, res.DistanceKm, 30.0)
}

func TestNormalizeDegrees(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		360:  0,
		-90:  270,
		450:  90,
		-720: 0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, geodesy.NormalizeDegrees(in), 1e-9, "input %v", in)
	}
}

func TestHeadingFromMagnetometer(t *testing.T) {
	assert.InDelta(t, 0.0, geodesy.HeadingFromMagnetometer(1, 0), 1e-9)
	assert.InDelta(t, 90.0, geodesy.HeadingFromMagnetometer(0, 1), 1e-9)
	assert.InDelta(t, 270.0, geodesy.HeadingFromMagnetometer(0, -1), 1e-9)
}

func TestNeedleAngle(t *testing.T) {
	assert.InDelta(t, 30.0, geodesy.NeedleAngle(120, 90), 1e-9)
	assert.InDelta(t, -60.0, geodesy.NeedleAngle(30, 90), 1e-9)
}

func TestFollow(t *testing.T) {
	t.Run("emits one needle angle per heading", func(t *testing.T) {
		headings := make(chan float64)
		needles := geodesy.Follow(t.Context(), headings, 120)

		go func() {
			headings <- 0
			headings <- 90
			headings <- 200
			close(headings)
		}()

		var got []float64
		for n := range needles {
			got = append(got, n)
		}

		assert.Equal(t, []float64{120, 30, -80}, got)
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		needles := geodesy.Follow(ctx, make(chan float64), 10)
		cancel()

		select {
		case _, ok := <-needles:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("needle channel was not closed")
		}
	})
}
