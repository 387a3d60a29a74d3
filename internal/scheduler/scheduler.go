// Package scheduler schedules future alarm notifications and delivers them
// through a Notifier.
package scheduler

import (
	"context"
	"errors"
	"time"
)

// Scheduling errors.
var (
	// ErrPlatformUnsupported means the platform cannot schedule real alarms at all.
	ErrPlatformUnsupported = errors.New("alarm scheduling is not supported on this platform")
	// ErrPermissionDenied means the user did not grant notification permission.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrUnknownHandle is returned when cancelling a handle that is not scheduled.
	ErrUnknownHandle = errors.New("unknown scheduling handle")
	// ErrPastTrigger is returned when the trigger instant is not in the future.
	ErrPastTrigger = errors.New("trigger instant is not in the future")
)

// Scheduler schedules one-shot notifications.
type Scheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, title, body string) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// NativeAlarmOptions tune a full-screen native alarm.
type NativeAlarmOptions struct {
	Vibrate       bool   `json:"vibrate"`
	Sound         string `json:"sound,omitempty"`
	SnoozeMinutes int    `json:"snoozeMinutes,omitempty"`
}

// NativeAlarmScheduler schedules platform alarms identified by the caller's id.
type NativeAlarmScheduler interface {
	ScheduleNativeAlarm(ctx context.Context, id string, at time.Time, title, body string, opts NativeAlarmOptions) error
	CancelNativeAlarm(ctx context.Context, id string) error
}

// PermissionChecker asks whether notifications may be scheduled.
type PermissionChecker interface {
	RequestPermission(ctx context.Context) (bool, error)
}

// StaticPermission answers every permission request with a fixed value.
type StaticPermission bool

// RequestPermission implements PermissionChecker.
func (p StaticPermission) RequestPermission(_ context.Context) (bool, error) {
	return bool(p), nil
}

// Notification is delivered when a scheduled alarm fires.
type Notification struct {
	Handle  string    `json:"handle"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	At      time.Time `json:"at"`
	Channel string    `json:"channel"`
}

// Notifier delivers fired notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
