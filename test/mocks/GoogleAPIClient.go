package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"googlemaps.github.io/maps"
)

// GoogleAPIClient is a mock type for the GoogleAPIClient type.
type GoogleAPIClient struct {
	mock.Mock
}

// ReverseGeocode provides a mock function with given fields: ctx, r.
func (m *GoogleAPIClient) ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	ret := m.Called(ctx, r)

	var results []maps.GeocodingResult
	if v := ret.Get(0); v != nil {
		results = v.([]maps.GeocodingResult)
	}

	return results, ret.Error(1)
}

// NewGoogleAPIClient creates a new instance of GoogleAPIClient. It also registers a cleanup
// function to assert the mocks expectations.
func NewGoogleAPIClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *GoogleAPIClient {
	m := &GoogleAPIClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
