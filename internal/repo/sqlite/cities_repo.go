package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/uptrace/bun"
)

type CitiesRepo struct {
	db   *bun.DB
	prom *observability.Prom
}

func (r *CitiesRepo) Create(ctx context.Context, req city.CreateCityRequest) (city.City, error) {
	now := time.Now().UTC()
	row := cityRow{Name: req.Name, CreatedAt: now, UpdatedAt: now}

	err := r.prom.ObserveDB("cities.create", func() error {
		_, err := r.db.NewInsert().Model(&row).Returning("id").Exec(ctx)
		return err
	})
	if err != nil {
		return city.City{}, fmt.Errorf("insert city: %w", err)
	}
	return row.toDomain(), nil
}

// List relies on SQLite's BINARY collation, which compares UTF-8 bytes.
func (r *CitiesRepo) List(ctx context.Context) ([]city.City, error) {
	var rows []cityRow
	err := r.prom.ObserveDB("cities.list", func() error {
		return r.db.NewSelect().Model(&rows).OrderExpr("c.name ASC, c.id ASC").Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	out := make([]city.City, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CitiesRepo) GetByID(ctx context.Context, id int64) (city.City, error) {
	var row cityRow
	err := r.prom.ObserveDB("cities.get_by_id", func() error {
		return r.db.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return city.City{}, city.ErrNotFound
		}
		return city.City{}, fmt.Errorf("get city %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *CitiesRepo) Update(ctx context.Context, id int64, req city.UpdateCityRequest) (city.City, error) {
	var row cityRow
	err := r.prom.ObserveDB("cities.update", func() error {
		return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := tx.NewSelect().Model(&row).Where("c.id = ?", id).Scan(ctx); err != nil {
				return err
			}
			row.Name = req.Name
			row.UpdatedAt = time.Now().UTC()
			_, err := tx.NewUpdate().Model(&row).Column("name", "updated_at").WherePK().Exec(ctx)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return city.City{}, city.ErrNotFound
		}
		return city.City{}, fmt.Errorf("update city %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (r *CitiesRepo) Count(ctx context.Context) (int64, error) {
	var n int
	err := r.prom.ObserveDB("cities.count", func() error {
		var err error
		n, err = r.db.NewSelect().Model((*cityRow)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count cities: %w", err)
	}
	return int64(n), nil
}
