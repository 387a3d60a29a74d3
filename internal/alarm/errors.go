package alarm

import "errors"

// Alarm errors surfaced to callers.
var (
	// ErrPermissionDenied means notifications are not allowed; no record was created.
	ErrPermissionDenied = errors.New("notification permission is required to set alarms")
	// ErrSchedulingFailed means no scheduling handle could be obtained; no record was created.
	ErrSchedulingFailed = errors.New("alarm could not be scheduled")
	// ErrUnknownPrayer is returned for names outside the five canonical prayers.
	ErrUnknownPrayer = errors.New("unknown prayer")
)

// Warning qualifies a successful SetAlarm.
type Warning string

const (
	WarningNone Warning = ""
	// WarningUIOnly means the displayed time was updated but no real alarm exists;
	// a build with alarm support is required for it to ring.
	WarningUIOnly Warning = "ui-only"
)
