//go:build integration

package repository_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/minaret/internal/models"
	"github.com/UnknownOlympus/minaret/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestPostgresStore_Integration(t *testing.T) {
	ctx := t.Context()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("minaret"),
		postgres.WithUsername("minaret"),
		postgres.WithPassword("minaret"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	store := repository.NewPostgresStore(pool, slog.Default())
	require.NoError(t, store.EnsureSchema(ctx))
	require.NoError(t, store.EnsureSchema(ctx), "schema creation must be idempotent")
	require.NoError(t, store.Ping(ctx))

	_, err = store.Get(ctx, repository.AlarmsKey)
	require.ErrorIs(t, err, repository.ErrNotFound)

	repo, _ := newRepo(store)
	first := []models.AlarmRecord{{ID: "Fajr-1", PrayerName: models.Fajr, Time: "5:00 am", TriggerAt: 1, NotificationID: "n1"}}
	second := []models.AlarmRecord{{ID: "Isha-2", PrayerName: models.Isha, Time: "8:00 pm", TriggerAt: 2, NotificationID: "n2"}}

	require.NoError(t, repo.SaveAlarms(ctx, first))
	require.NoError(t, repo.SaveAlarms(ctx, second))

	assert.Equal(t, second, repo.LoadAlarms(ctx))
}
