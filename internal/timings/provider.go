// Package timings fetches daily prayer times and Hijri dates from a remote provider
// and converts them into the display form used by the prayer-time snapshot.
package timings

import (
	"context"
	"time"

	"github.com/UnknownOlympus/minaret/internal/models"
)

// Provider is an interface for services that know the prayer timetable of a city.
type Provider interface {
	Timings(ctx context.Context, city, country string, date time.Time) (*models.DailyTimings, error)
	HijriDate(ctx context.Context, date time.Time) (*models.HijriDate, error)
}
