package mocks

import (
	"context"
	"time"

	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/stretchr/testify/mock"
)

// Geocoder is a mock type for the geocoding.Provider type.
type Geocoder struct {
	mock.Mock
}

// ReverseGeocode provides a mock function with given fields: ctx, coords.
func (m *Geocoder) ReverseGeocode(ctx context.Context, coords models.Coordinates) (*models.Place, error) {
	ret := m.Called(ctx, coords)

	var place *models.Place
	if v := ret.Get(0); v != nil {
		place = v.(*models.Place)
	}

	return place, ret.Error(1)
}

// NewGeocoder creates a new instance of Geocoder. It also registers a cleanup
// function to assert the mocks expectations.
func NewGeocoder(t interface {
	mock.TestingT
	Cleanup(func())
}) *Geocoder {
	m := &Geocoder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// TimingsProvider is a mock type for the timings.Provider type.
type TimingsProvider struct {
	mock.Mock
}

// Timings provides a mock function with given fields: ctx, city, country, date.
func (m *TimingsProvider) Timings(
	ctx context.Context,
	city, country string,
	date time.Time,
) (*models.DailyTimings, error) {
	ret := m.Called(ctx, city, country, date)

	var daily *models.DailyTimings
	if v := ret.Get(0); v != nil {
		daily = v.(*models.DailyTimings)
	}

	return daily, ret.Error(1)
}

// HijriDate provides a mock function with given fields: ctx, date.
func (m *TimingsProvider) HijriDate(ctx context.Context, date time.Time) (*models.HijriDate, error) {
	ret := m.Called(ctx, date)

	var hijri *models.HijriDate
	if v := ret.Get(0); v != nil {
		hijri = v.(*models.HijriDate)
	}

	return hijri, ret.Error(1)
}

// NewTimingsProvider creates a new instance of TimingsProvider. It also registers a cleanup
// function to assert the mocks expectations.
func NewTimingsProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *TimingsProvider {
	m := &TimingsProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
