package postgres

import (
	"context"

	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/repo"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewStore wires the Postgres repositories over one pool. Close releases the pool.
func NewStore(pool *pgxpool.Pool, prom *observability.Prom) repo.Store {
	return repo.Store{
		Cities: NewCitiesRepo(pool, prom),
		Events: NewEventsRepo(pool, prom),
		Users:  NewUsersRepo(pool, prom),
		Ping: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
		Close: func() error {
			pool.Close()
			return nil
		},
	}
}
