package mocks

import (
	"context"
	"time"

	"github.com/UnknownOlympus/minaret/internal/scheduler"
	"github.com/stretchr/testify/mock"
)

// Scheduler is a mock type for the scheduler.Scheduler type.
type Scheduler struct {
	mock.Mock
}

// ScheduleAt provides a mock function with given fields: ctx, at, title, body.
func (m *Scheduler) ScheduleAt(ctx context.Context, at time.Time, title, body string) (string, error) {
	ret := m.Called(ctx, at, title, body)
	return ret.String(0), ret.Error(1)
}

// Cancel provides a mock function with given fields: ctx, handle.
func (m *Scheduler) Cancel(ctx context.Context, handle string) error {
	return m.Called(ctx, handle).Error(0)
}

// NewScheduler creates a new instance of Scheduler. It also registers a cleanup
// function to assert the mocks expectations.
func NewScheduler(t interface {
	mock.TestingT
	Cleanup(func())
}) *Scheduler {
	m := &Scheduler{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// NativeAlarmScheduler is a mock type for the scheduler.NativeAlarmScheduler type.
type NativeAlarmScheduler struct {
	mock.Mock
}

// ScheduleNativeAlarm provides a mock function with given fields: ctx, id, at, title, body, opts.
func (m *NativeAlarmScheduler) ScheduleNativeAlarm(
	ctx context.Context,
	id string,
	at time.Time,
	title, body string,
	opts scheduler.NativeAlarmOptions,
) error {
	return m.Called(ctx, id, at, title, body, opts).Error(0)
}

// CancelNativeAlarm provides a mock function with given fields: ctx, id.
func (m *NativeAlarmScheduler) CancelNativeAlarm(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// NewNativeAlarmScheduler creates a new instance of NativeAlarmScheduler. It also registers
// a cleanup function to assert the mocks expectations.
func NewNativeAlarmScheduler(t interface {
	mock.TestingT
	Cleanup(func())
}) *NativeAlarmScheduler {
	m := &NativeAlarmScheduler{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// PermissionChecker is a mock type for the scheduler.PermissionChecker type.
type PermissionChecker struct {
	mock.Mock
}

// RequestPermission provides a mock function with given fields: ctx.
func (m *PermissionChecker) RequestPermission(ctx context.Context) (bool, error) {
	ret := m.Called(ctx)
	return ret.Bool(0), ret.Error(1)
}

// NewPermissionChecker creates a new instance of PermissionChecker. It also registers
// a cleanup function to assert the mocks expectations.
func NewPermissionChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *PermissionChecker {
	m := &PermissionChecker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
