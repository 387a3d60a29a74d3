package models

import (
	"fmt"
	"time"
)

// Sentinel scheduling handles for records without a notification handle.
const (
	// HandleUIOnly marks a record that updates the displayed time but has no OS-level alarm.
	HandleUIOnly = "ui-only"
	// HandleNativeAlarm marks a record backed only by a native alarm (see NativeAlarmID).
	HandleNativeAlarm = "native-alarm"
)

// AlarmRecord associates a prayer with a scheduled alarm.
type AlarmRecord struct {
	ID             string     `json:"id"`
	PrayerName     PrayerName `json:"prayerName"`
	Time           string     `json:"time"`
	TriggerAt      int64      `json:"triggerAt"` // epoch milliseconds
	NotificationID string     `json:"notificationId"`
	NativeAlarmID  string     `json:"nativeAlarmId,omitempty"`
}

// NewAlarmID builds the record id from the prayer and its trigger instant.
func NewAlarmID(prayer PrayerName, trigger time.Time) string {
	return fmt.Sprintf("%s-%d", prayer, trigger.UnixMilli())
}

// IsUIOnly reports whether no OS-level alarm backs the record.
func (a AlarmRecord) IsUIOnly() bool {
	return a.NotificationID == HandleUIOnly && a.NativeAlarmID == ""
}

// TriggerTime returns the trigger instant.
func (a AlarmRecord) TriggerTime() time.Time {
	return time.UnixMilli(a.TriggerAt)
}
