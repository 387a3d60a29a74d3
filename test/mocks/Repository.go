package mocks

import (
	"context"

	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/stretchr/testify/mock"
)

// Repository is a mock type for the repository.Interface type.
type Repository struct {
	mock.Mock
}

// LoadAlarms provides a mock function with given fields: ctx.
func (m *Repository) LoadAlarms(ctx context.Context) []models.AlarmRecord {
	ret := m.Called(ctx)

	if v := ret.Get(0); v != nil {
		return v.([]models.AlarmRecord)
	}

	return []models.AlarmRecord{}
}

// SaveAlarms provides a mock function with given fields: ctx, alarms.
func (m *Repository) SaveAlarms(ctx context.Context, alarms []models.AlarmRecord) error {
	return m.Called(ctx, alarms).Error(0)
}

// LoadPrayerTimes provides a mock function with given fields: ctx.
func (m *Repository) LoadPrayerTimes(ctx context.Context) ([]models.PrayerTimeEntry, bool) {
	ret := m.Called(ctx)

	var entries []models.PrayerTimeEntry
	if v := ret.Get(0); v != nil {
		entries = v.([]models.PrayerTimeEntry)
	}

	return entries, ret.Bool(1)
}

// SavePrayerTimes provides a mock function with given fields: ctx, entries.
func (m *Repository) SavePrayerTimes(ctx context.Context, entries []models.PrayerTimeEntry) error {
	return m.Called(ctx, entries).Error(0)
}

// NewRepository creates a new instance of Repository. It also registers a cleanup
// function to assert the mocks expectations.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
