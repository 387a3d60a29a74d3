// Package alarm keeps one alarm per prayer, coordinating the persisted alarm
// collection, the prayer-time snapshot and the scheduling capability.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/minaret/internal/metrics"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/UnknownOlympus/minaret/internal/scheduler"
	"github.com/UnknownOlympus/minaret/internal/timings"
)

// Options configure the scheduling side of a Service.
type Options struct {
	Scheduler     scheduler.Scheduler            // notification form; nil means none
	Native        scheduler.NativeAlarmScheduler // full alarm form; optional
	NativeOptions scheduler.NativeAlarmOptions
	Permissions   scheduler.PermissionChecker
	UIOnly        bool             // never schedule, only record display times
	Now           func() time.Time // clock, defaults to time.Now
}

// Service owns the alarm collection.
type Service struct {
	mu          sync.Mutex
	repo        repository.Interface
	scheduler   scheduler.Scheduler
	native      scheduler.NativeAlarmScheduler
	nativeOpts  scheduler.NativeAlarmOptions
	permissions scheduler.PermissionChecker
	uiOnly      bool
	now         func() time.Time
	log         *slog.Logger
	metrics     *metrics.Metrics
}

// SetResult is the outcome of a successful SetAlarm.
type SetResult struct {
	Record  models.AlarmRecord `json:"record"`
	Warning Warning            `json:"warning,omitempty"`
}

// State is the persisted view loaded at startup.
type State struct {
	PrayerTimes       []models.PrayerTimeEntry `json:"prayerTimes"`
	PrayerTimesStored bool                     `json:"-"`
	Alarms            []models.AlarmRecord     `json:"alarms"`
}

// NewService creates an alarm Service.
func NewService(log *slog.Logger, repo repository.Interface, metrics *metrics.Metrics, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Permissions == nil {
		opts.Permissions = scheduler.StaticPermission(true)
	}

	return &Service{
		repo:        repo,
		scheduler:   opts.Scheduler,
		native:      opts.Native,
		nativeOpts:  opts.NativeOptions,
		permissions: opts.Permissions,
		uiOnly:      opts.UIOnly,
		now:         opts.Now,
		log:         log,
		metrics:     metrics,
	}
}

// NextTrigger returns the picked hour and minute on now's calendar day,
// moved to the next day unless strictly after now.
func NextTrigger(now, picked time.Time) time.Time {
	trigger := time.Date(now.Year(), now.Month(), now.Day(), picked.Hour(), picked.Minute(), 0, 0, now.Location())
	if !trigger.After(now) {
		trigger = trigger.AddDate(0, 0, 1)
	}

	return trigger
}

// LoadPersistedState reads both collections. It never fails: unreadable data
// comes back as the default table and an empty alarm list.
func (s *Service) LoadPersistedState(ctx context.Context) State {
	entries, stored := s.repo.LoadPrayerTimes(ctx)
	alarms := s.repo.LoadAlarms(ctx)
	s.metrics.ScheduledAlarms.Set(float64(len(alarms)))

	return State{PrayerTimes: entries, PrayerTimesStored: stored, Alarms: alarms}
}

// Alarms returns the current alarm collection.
func (s *Service) Alarms(ctx context.Context) []models.AlarmRecord {
	return s.repo.LoadAlarms(ctx)
}

// SetAlarm records an alarm for prayer at the picked clock time, replacing any
// previous alarm for the same prayer.
func (s *Service) SetAlarm(ctx context.Context, prayer models.PrayerName, picked time.Time) (*SetResult, error) {
	if _, ok := models.PrayerIcons[prayer]; !ok {
		s.metrics.AlarmOperations.WithLabelValues("set", "invalid").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrayer, prayer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trigger := NextTrigger(s.now(), picked)
	display := timings.FormatClock(trigger.Hour(), trigger.Minute())
	record := models.AlarmRecord{
		ID:         models.NewAlarmID(prayer, trigger),
		PrayerName: prayer,
		Time:       display,
		TriggerAt:  trigger.UnixMilli(),
	}

	alarms := s.repo.LoadAlarms(ctx)
	old := find(alarms, prayer)

	warning := WarningNone
	if s.uiOnlyMode() {
		s.cancel(ctx, old)
		record.NotificationID = models.HandleUIOnly
		warning = WarningUIOnly
	} else {
		if err := s.checkPermission(ctx); err != nil {
			s.metrics.AlarmOperations.WithLabelValues("set", "permission_denied").Inc()
			return nil, err
		}

		s.cancel(ctx, old)

		err := s.schedule(ctx, &record, trigger)
		switch {
		case err == nil:
		case errors.Is(err, scheduler.ErrPlatformUnsupported):
			s.log.WarnContext(ctx, "Alarms unsupported on this platform, recording display time only",
				"prayer", prayer, "error", err)
			record.NotificationID = models.HandleUIOnly
			record.NativeAlarmID = ""
			warning = WarningUIOnly
		case errors.Is(err, scheduler.ErrPermissionDenied):
			s.metrics.AlarmOperations.WithLabelValues("set", "permission_denied").Inc()
			return nil, fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		default:
			s.log.ErrorContext(ctx, "Failed to schedule alarm", "prayer", prayer, "error", err)
			s.metrics.AlarmOperations.WithLabelValues("set", "failed").Inc()
			return nil, fmt.Errorf("%w: %w", ErrSchedulingFailed, err)
		}
	}

	updated := append(without(alarms, prayer), record)
	if err := s.repo.SaveAlarms(ctx, updated); err != nil {
		s.metrics.AlarmOperations.WithLabelValues("set", "failed").Inc()
		return nil, fmt.Errorf("failed to persist alarms: %w", err)
	}
	s.metrics.ScheduledAlarms.Set(float64(len(updated)))

	if err := s.updateDisplayTime(ctx, prayer, display); err != nil {
		s.metrics.AlarmOperations.WithLabelValues("set", "failed").Inc()
		return nil, err
	}

	s.metrics.AlarmOperations.WithLabelValues("set", "success").Inc()
	s.log.InfoContext(ctx, "Alarm set", "prayer", prayer, "time", display, "trigger", trigger,
		"handle", record.NotificationID, "warning", warning)

	return &SetResult{Record: record, Warning: warning}, nil
}

// RemoveAlarm deletes the alarm of prayer. Nothing is written when none exists.
// Cancellation failures are logged and never returned.
func (s *Service) RemoveAlarm(ctx context.Context, prayer models.PrayerName) error {
	if _, ok := models.PrayerIcons[prayer]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPrayer, prayer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := s.repo.LoadAlarms(ctx)
	old := find(alarms, prayer)
	if old == nil {
		s.log.DebugContext(ctx, "No alarm to remove", "prayer", prayer)
		s.metrics.AlarmOperations.WithLabelValues("remove", "noop").Inc()
		return nil
	}

	s.cancel(ctx, old)

	updated := without(alarms, prayer)
	if err := s.repo.SaveAlarms(ctx, updated); err != nil {
		s.metrics.AlarmOperations.WithLabelValues("remove", "failed").Inc()
		return fmt.Errorf("failed to persist alarms: %w", err)
	}
	s.metrics.ScheduledAlarms.Set(float64(len(updated)))
	s.metrics.AlarmOperations.WithLabelValues("remove", "success").Inc()

	s.log.InfoContext(ctx, "Alarm removed", "prayer", prayer, "id", old.ID)

	return nil
}

// Rearm reschedules stored alarms whose notification handles were lost with a
// process restart. Records whose trigger already passed move to the next day.
func (s *Service) Rearm(ctx context.Context) int {
	if s.uiOnlyMode() || s.scheduler == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	alarms := s.repo.LoadAlarms(ctx)
	now := s.now()
	rearmed := 0
	for i, a := range alarms {
		switch a.NotificationID {
		case "", models.HandleUIOnly, models.HandleNativeAlarm:
			continue
		}

		trigger := a.TriggerTime().In(now.Location())
		if !trigger.After(now) {
			trigger = NextTrigger(now, trigger)
		}

		handle, err := s.scheduler.ScheduleAt(ctx, trigger, title(a.PrayerName), body(a.Time))
		if err != nil {
			s.log.WarnContext(ctx, "Failed to re-arm alarm", "prayer", a.PrayerName, "error", err)
			continue
		}
		alarms[i].NotificationID = handle
		alarms[i].TriggerAt = trigger.UnixMilli()
		alarms[i].ID = models.NewAlarmID(a.PrayerName, trigger)
		rearmed++
	}

	if rearmed > 0 {
		if err := s.repo.SaveAlarms(ctx, alarms); err != nil {
			s.log.ErrorContext(ctx, "Failed to persist re-armed alarms", "error", err)
		}
	}

	return rearmed
}

func (s *Service) uiOnlyMode() bool {
	return s.uiOnly || (s.scheduler == nil && s.native == nil)
}

func (s *Service) checkPermission(ctx context.Context) error {
	granted, err := s.permissions.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	if !granted {
		return ErrPermissionDenied
	}

	return nil
}

// schedule tries the native alarm form first and falls back to a notification.
func (s *Service) schedule(ctx context.Context, record *models.AlarmRecord, trigger time.Time) error {
	alarmTitle, alarmBody := title(record.PrayerName), body(record.Time)

	if s.native != nil {
		err := s.native.ScheduleNativeAlarm(ctx, record.ID, trigger, alarmTitle, alarmBody, s.nativeOpts)
		if err == nil {
			record.NativeAlarmID = record.ID
			record.NotificationID = models.HandleNativeAlarm
			return nil
		}
		s.log.WarnContext(ctx, "Native alarm unavailable, falling back to notification",
			"prayer", record.PrayerName, "error", err)
	}

	if s.scheduler == nil {
		return scheduler.ErrPlatformUnsupported
	}

	handle, err := s.scheduler.ScheduleAt(ctx, trigger, alarmTitle, alarmBody)
	if err != nil {
		return err
	}
	record.NotificationID = handle

	return nil
}

// cancel releases both scheduling forms of a record, best effort.
// A silent failure here can leave a second alarm ringing; it is only logged.
func (s *Service) cancel(ctx context.Context, record *models.AlarmRecord) {
	if record == nil {
		return
	}

	handle := record.NotificationID
	if s.scheduler != nil && handle != "" && handle != models.HandleUIOnly && handle != models.HandleNativeAlarm {
		if err := s.scheduler.Cancel(ctx, handle); err != nil {
			s.log.WarnContext(ctx, "Failed to cancel notification", "prayer", record.PrayerName,
				"handle", handle, "error", err)
		}
	}

	if s.native != nil && record.NativeAlarmID != "" {
		if err := s.native.CancelNativeAlarm(ctx, record.NativeAlarmID); err != nil {
			s.log.WarnContext(ctx, "Failed to cancel native alarm", "prayer", record.PrayerName,
				"id", record.NativeAlarmID, "error", err)
		}
	}
}

func (s *Service) updateDisplayTime(ctx context.Context, prayer models.PrayerName, display string) error {
	entries, _ := s.repo.LoadPrayerTimes(ctx)
	for i := range entries {
		if entries[i].Name == prayer {
			entries[i].Time = display
		}
	}

	if err := s.repo.SavePrayerTimes(ctx, entries); err != nil {
		return fmt.Errorf("failed to persist prayer times: %w", err)
	}

	return nil
}

func find(alarms []models.AlarmRecord, prayer models.PrayerName) *models.AlarmRecord {
	idx := slices.IndexFunc(alarms, func(a models.AlarmRecord) bool { return a.PrayerName == prayer })
	if idx < 0 {
		return nil
	}
	found := alarms[idx]

	return &found
}

func without(alarms []models.AlarmRecord, prayer models.PrayerName) []models.AlarmRecord {
	kept := make([]models.AlarmRecord, 0, len(alarms))
	for _, a := range alarms {
		if a.PrayerName != prayer {
			kept = append(kept, a)
		}
	}

	return kept
}

func title(prayer models.PrayerName) string {
	return fmt.Sprintf("%s - Salah", prayer)
}

func body(display string) string {
	return "Alarm at " + display
}
