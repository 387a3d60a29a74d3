package repository_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/minaret/internal/metrics"
	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/UnknownOlympus/minaret/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRepo(store repository.Store) (*repository.Repository, *metrics.Metrics) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return repository.NewRepository(store, slog.Default(), m), m
}

func TestRepository_LoadAlarms(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	tests := []struct {
		name        string
		stored      string
		wantLen     int
		wantCorrupt float64
	}{
		{name: "nothing stored", stored: "", wantLen: 0},
		{
			name:    "envelope",
			stored:  `{"version":1,"items":[{"id":"Fajr-1","prayerName":"Fajr","time":"5:00 am","triggerAt":1,"notificationId":"n1"}]}`,
			wantLen: 1,
		},
		{
			name:    "legacy bare array",
			stored:  `[{"id":"Isha-2","prayerName":"Isha","time":"8:00 pm","triggerAt":2,"notificationId":"n2"}]`,
			wantLen: 1,
		},
		{name: "corrupt json", stored: `{"version":1,"items":[`, wantLen: 0, wantCorrupt: 1},
		{name: "future version", stored: `{"version":99,"items":[]}`, wantLen: 0, wantCorrupt: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := repository.NewMemoryStore()
			if tt.stored != "" {
				require.NoError(t, store.Set(ctx, repository.AlarmsKey, tt.stored))
			}
			repo, m := newRepo(store)

			alarms := repo.LoadAlarms(ctx)

			assert.NotNil(t, alarms)
			assert.Len(t, alarms, tt.wantLen)
			assert.InDelta(t, tt.wantCorrupt,
				testutil.ToFloat64(m.StorageCorrupt.WithLabelValues(repository.AlarmsKey)), 0)
		})
	}
}

func TestRepository_LoadAlarmsMigratesLegacyArray(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	tests := []struct {
		name   string
		stored string
		want   []models.AlarmRecord
	}{
		{
			name:   "display-only marker",
			stored: `[{"id":"Fajr-1","prayerName":"Fajr","time":"05:30 AM","triggerAt":1,"notificationId":"expo-go"}]`,
			want: []models.AlarmRecord{
				{ID: "Fajr-1", PrayerName: "Fajr", Time: "05:30 AM", TriggerAt: 1, NotificationID: models.HandleUIOnly},
			},
		},
		{
			name:   "empty handle",
			stored: `[{"id":"Asr-1","prayerName":"Asr","time":"03:45 PM","triggerAt":1,"notificationId":""}]`,
			want: []models.AlarmRecord{
				{ID: "Asr-1", PrayerName: "Asr", Time: "03:45 PM", TriggerAt: 1, NotificationID: models.HandleUIOnly},
			},
		},
		{
			name:   "empty handle with native alarm",
			stored: `[{"id":"Asr-1","prayerName":"Asr","time":"03:45 PM","triggerAt":1,"notificationId":"","nativeAlarmId":"a7"}]`,
			want: []models.AlarmRecord{
				{ID: "Asr-1", PrayerName: "Asr", Time: "03:45 PM", TriggerAt: 1,
					NotificationID: models.HandleNativeAlarm, NativeAlarmID: "a7"},
			},
		},
		{
			name: "duplicate prayer keeps last record",
			stored: `[{"id":"Fajr-1","prayerName":"Fajr","time":"05:00 AM","triggerAt":1,"notificationId":"n1"},` +
				`{"id":"Isha-3","prayerName":"Isha","time":"08:00 PM","triggerAt":3,"notificationId":"n3"},` +
				`{"id":"Fajr-2","prayerName":"Fajr","time":"05:30 AM","triggerAt":2,"notificationId":"n2"}]`,
			want: []models.AlarmRecord{
				{ID: "Isha-3", PrayerName: "Isha", Time: "08:00 PM", TriggerAt: 3, NotificationID: "n3"},
				{ID: "Fajr-2", PrayerName: "Fajr", Time: "05:30 AM", TriggerAt: 2, NotificationID: "n2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := repository.NewMemoryStore()
			require.NoError(t, store.Set(ctx, repository.AlarmsKey, tt.stored))
			repo, _ := newRepo(store)

			alarms := repo.LoadAlarms(ctx)

			assert.Equal(t, tt.want, alarms)
		})
	}

	t.Run("display-only marker reports ui-only", func(t *testing.T) {
		t.Parallel()
		store := repository.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.AlarmsKey,
			`[{"id":"Fajr-1","prayerName":"Fajr","time":"05:30 AM","triggerAt":1,"notificationId":"expo-go"}]`))
		repo, _ := newRepo(store)

		alarms := repo.LoadAlarms(ctx)

		require.Len(t, alarms, 1)
		assert.True(t, alarms[0].IsUIOnly())
	})

	t.Run("envelope data is not rewritten", func(t *testing.T) {
		t.Parallel()
		store := repository.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.AlarmsKey,
			`{"version":1,"items":[{"id":"Fajr-1","prayerName":"Fajr","time":"5:00 am","triggerAt":1,"notificationId":"expo-go"}]}`))
		repo, _ := newRepo(store)

		alarms := repo.LoadAlarms(ctx)

		require.Len(t, alarms, 1)
		assert.Equal(t, "expo-go", alarms[0].NotificationID)
	})
}

func TestRepository_SaveAlarmsWritesEnvelope(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	store := repository.NewMemoryStore()
	repo, _ := newRepo(store)

	require.NoError(t, repo.SaveAlarms(ctx, nil))

	raw, err := store.Get(ctx, repository.AlarmsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"items":[]}`, raw)
}

func TestRepository_PrayerTimes(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo(repository.NewMemoryStore())

		entries, stored := repo.LoadPrayerTimes(ctx)

		assert.False(t, stored)
		assert.Equal(t, models.DefaultPrayerTimes(), entries)
	})

	t.Run("incomplete snapshot falls back to defaults", func(t *testing.T) {
		t.Parallel()
		store := repository.NewMemoryStore()
		require.NoError(t, store.Set(ctx, repository.PrayerTimesKey,
			`[{"name":"Fajr","time":"5:00 am","icon":"nightlight-round"}]`))
		repo, m := newRepo(store)

		entries, stored := repo.LoadPrayerTimes(ctx)

		assert.False(t, stored)
		assert.Equal(t, models.DefaultPrayerTimes(), entries)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.StorageCorrupt.WithLabelValues(repository.PrayerTimesKey)), 0)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo(repository.NewMemoryStore())
		entries := models.DefaultPrayerTimes()
		entries[0].Time = "4:51 am"

		require.NoError(t, repo.SavePrayerTimes(ctx, entries))
		loaded, stored := repo.LoadPrayerTimes(ctx)

		assert.True(t, stored)
		assert.Equal(t, entries, loaded)
	})

	t.Run("refuses incomplete snapshot", func(t *testing.T) {
		t.Parallel()
		store := repository.NewMemoryStore()
		repo, _ := newRepo(store)

		err := repo.SavePrayerTimes(ctx, models.DefaultPrayerTimes()[:3])

		require.Error(t, err)
		assert.Zero(t, store.Writes())
	})
}

func TestRepository_StoreErrors(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	store := mocks.NewStore(t)
	repo, m := newRepo(store)

	store.On("Get", mock.Anything, repository.AlarmsKey).Return("", assert.AnError).Once()
	store.On("Set", mock.Anything, repository.AlarmsKey, mock.AnythingOfType("string")).Return(assert.AnError).Once()

	assert.Empty(t, repo.LoadAlarms(ctx))
	assert.Zero(t, testutil.ToFloat64(m.StorageCorrupt.WithLabelValues(repository.AlarmsKey)))

	err := repo.SaveAlarms(ctx, []models.AlarmRecord{{ID: "Fajr-1", PrayerName: models.Fajr}})
	require.ErrorIs(t, err, assert.AnError)
	require.ErrorContains(t, err, "failed to persist @salah_alarms")
}
