// Package sqlite is the embedded store used for local development and the
// HTTP integration tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/repo"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open connects to dsn and creates the schema if needed.
func Open(ctx context.Context, dsn string, prom *observability.Prom) (repo.Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return repo.Store{}, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection serializes writers and keeps in-memory databases alive
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return repo.Store{}, err
	}

	return NewStore(db, prom), nil
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory(ctx context.Context, prom *observability.Prom) (repo.Store, error) {
	return Open(ctx, "file:"+uuid.NewString()+"?mode=memory&cache=shared", prom)
}

func NewStore(db *bun.DB, prom *observability.Prom) repo.Store {
	return repo.Store{
		Cities: &CitiesRepo{db: db, prom: prom},
		Events: &EventsRepo{db: db, prom: prom},
		Users:  &UsersRepo{db: db, prom: prom},
		Ping:   db.PingContext,
		Close:  db.Close,
	}
}

func CreateSchema(ctx context.Context, db *bun.DB) error {
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().
			Model((*cityRow)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewCreateTable().
			Model((*eventRow)(nil)).
			IfNotExists().
			ForeignKey(`("city_id") REFERENCES "cities" ("id")`).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewCreateIndex().
			Model((*eventRow)(nil)).
			Index("idx_events_date_id").
			IfNotExists().
			Column("date", "id").
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewCreateTable().
			Model((*userRow)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}
