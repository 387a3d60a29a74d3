package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/minaret/internal/metrics"
	"github.com/UnknownOlympus/minaret/internal/models"
)

// Storage keys of the two persisted collections.
const (
	AlarmsKey      = "@salah_alarms"
	PrayerTimesKey = "@salah_prayer_times"
)

// SchemaVersion is written into every envelope. Bare JSON arrays written
// before envelopes existed are read as version 0.
const SchemaVersion = 1

// legacyUIOnlyHandle marks a display-only record in bare-array alarm data.
const legacyUIOnlyHandle = "expo-go"

// ErrUnsupportedVersion is returned for envelopes newer than this build understands.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

type envelope[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// Interface is the typed persistence used by the alarm service.
type Interface interface {
	LoadAlarms(ctx context.Context) []models.AlarmRecord
	SaveAlarms(ctx context.Context, alarms []models.AlarmRecord) error
	LoadPrayerTimes(ctx context.Context) ([]models.PrayerTimeEntry, bool)
	SavePrayerTimes(ctx context.Context, entries []models.PrayerTimeEntry) error
}

// Repository stores versioned JSON collections in a key-value Store.
type Repository struct {
	store   Store
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewRepository creates a new instance of Repository on top of the provided Store.
func NewRepository(store Store, log *slog.Logger, metrics *metrics.Metrics) *Repository {
	return &Repository{store: store, log: log, metrics: metrics}
}

// LoadAlarms returns the stored alarm collection. Missing or unreadable data yields an empty list.
func (r *Repository) LoadAlarms(ctx context.Context) []models.AlarmRecord {
	alarms, version, ok := load[models.AlarmRecord](ctx, r, AlarmsKey)
	if !ok || alarms == nil {
		return []models.AlarmRecord{}
	}
	if version == 0 {
		return migrateLegacyAlarms(alarms)
	}

	return alarms
}

// migrateLegacyAlarms maps the display-only and empty handles of bare-array
// data onto the sentinels and keeps only the last record of each prayer.
func migrateLegacyAlarms(alarms []models.AlarmRecord) []models.AlarmRecord {
	last := make(map[string]int, len(alarms))
	for i, a := range alarms {
		last[a.PrayerName] = i
	}

	out := make([]models.AlarmRecord, 0, len(last))
	for i, a := range alarms {
		if last[a.PrayerName] != i {
			continue
		}
		if a.NotificationID == legacyUIOnlyHandle || a.NotificationID == "" {
			a.NotificationID = models.HandleUIOnly
			if a.NativeAlarmID != "" {
				a.NotificationID = models.HandleNativeAlarm
			}
		}
		out = append(out, a)
	}

	return out
}

// SaveAlarms replaces the stored alarm collection.
func (r *Repository) SaveAlarms(ctx context.Context, alarms []models.AlarmRecord) error {
	return save(ctx, r, AlarmsKey, alarms)
}

// LoadPrayerTimes returns the stored snapshot and whether one was found.
// Missing, corrupt or incomplete snapshots yield the default table and false.
func (r *Repository) LoadPrayerTimes(ctx context.Context) ([]models.PrayerTimeEntry, bool) {
	entries, _, ok := load[models.PrayerTimeEntry](ctx, r, PrayerTimesKey)
	if !ok {
		return models.DefaultPrayerTimes(), false
	}
	if !models.IsCompleteSnapshot(entries) {
		r.corrupt(ctx, PrayerTimesKey, errors.New("snapshot does not hold the five canonical prayers"))
		return models.DefaultPrayerTimes(), false
	}

	return entries, true
}

// SavePrayerTimes replaces the stored prayer-time snapshot.
func (r *Repository) SavePrayerTimes(ctx context.Context, entries []models.PrayerTimeEntry) error {
	if !models.IsCompleteSnapshot(entries) {
		return fmt.Errorf("refusing to store incomplete prayer-time snapshot of %d entries", len(entries))
	}

	return save(ctx, r, PrayerTimesKey, entries)
}

func load[T any](ctx context.Context, r *Repository, key string) ([]T, int, bool) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.WarnContext(ctx, "Failed to read persisted value", "key", key, "error", err)
		}
		return nil, 0, false
	}

	items, version, err := decode[T]([]byte(raw))
	if err != nil {
		r.corrupt(ctx, key, err)
		return nil, 0, false
	}

	return items, version, true
}

// decode returns the items and the schema version they were written with.
func decode[T any](raw []byte) ([]T, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, 0, errors.New("empty value")
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode legacy array: %w", err)
		}
		return items, 0, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Version < 1 || env.Version > SchemaVersion {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	return env.Items, env.Version, nil
}

func save[T any](ctx context.Context, r *Repository, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(envelope[T]{Version: SchemaVersion, Items: items})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err = r.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}

	return nil
}

func (r *Repository) corrupt(ctx context.Context, key string, err error) {
	r.log.WarnContext(ctx, "Persisted value is corrupt, using default", "key", key, "error", err)
	r.metrics.StorageCorrupt.WithLabelValues(key).Inc()
}
