package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Store is a mock type for the repository.Store type.
type Store struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, key.
func (m *Store) Get(ctx context.Context, key string) (string, error) {
	ret := m.Called(ctx, key)
	return ret.String(0), ret.Error(1)
}

// Set provides a mock function with given fields: ctx, key, value.
func (m *Store) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

// Ping provides a mock function with given fields: ctx.
func (m *Store) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// NewStore creates a new instance of Store. It also registers a cleanup
// function to assert the mocks expectations.
func NewStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *Store {
	m := &Store{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
