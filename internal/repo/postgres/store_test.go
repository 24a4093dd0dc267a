package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/geocoder89/cityevents/internal/db"
	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/domain/user"
	"github.com/geocoder89/cityevents/internal/repo"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupStore(t *testing.T) (context.Context, repo.Store) {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(
		ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("cityevents"),
		tcpostgres.WithUsername("cityevents"),
		tcpostgres.WithPassword("cityevents"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.MigrateUp(dbURL))

	pool, err := db.NewPool(ctx, dbURL)
	require.NoError(t, err)

	store := NewStore(pool, nil)
	t.Cleanup(func() { _ = store.Close() })

	return ctx, store
}

func TestPostgresStore(t *testing.T) {
	ctx, store := setupStore(t)

	t.Run("cities sorted byte-wise", func(t *testing.T) {
		for _, name := range []string{"Brasília", "Belo Horizonte", "Belém"} {
			_, err := store.Cities.Create(ctx, city.CreateCityRequest{Name: name})
			require.NoError(t, err)
		}

		got, err := store.Cities.List(ctx)
		require.NoError(t, err)

		names := make([]string, 0, len(got))
		for _, c := range got {
			names = append(names, c.Name)
		}
		require.Equal(t, []string{"Belo Horizonte", "Belém", "Brasília"}, names)
	})

	t.Run("event create and dangling city", func(t *testing.T) {
		c, err := store.Cities.Create(ctx, city.CreateCityRequest{Name: "Recife"})
		require.NoError(t, err)

		date := event.NewDate(2030, time.January, 2)
		e, err := store.Events.Create(ctx, event.CreateEventRequest{Name: "Expo XP", Date: date, URL: "https://expoxp.com.br", CityID: &c.ID})
		require.NoError(t, err)
		require.NotZero(t, e.ID)
		require.Equal(t, date, e.Date)

		missing := int64(99999)
		_, err = store.Events.Create(ctx, event.CreateEventRequest{Name: "Ghost", Date: date, CityID: &missing})
		require.True(t, errors.Is(err, event.ErrCityNotFound), "got %v", err)

		items, total, err := store.Events.List(ctx, event.ListEventsFilter{CityID: &c.ID, Limit: 10})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Len(t, items, 1)

		_, err = store.Events.GetByID(ctx, 123456)
		require.ErrorIs(t, err, event.ErrNotFound)
	})

	t.Run("seed is idempotent", func(t *testing.T) {
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		require.NoError(t, db.Seed(ctx, store, log))
		require.NoError(t, db.Seed(ctx, store, log))

		u, err := store.Users.GetByEmail(ctx, "bob@gmail.com")
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"CLIENT", "ADMIN"}, u.Roles)

		_, err = store.Users.GetByEmail(ctx, "nobody@gmail.com")
		require.ErrorIs(t, err, user.ErrNotFound)
	})
}
