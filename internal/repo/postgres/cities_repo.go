package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CitiesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCitiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CitiesRepo {
	return &CitiesRepo{pool: pool, prom: prom}
}

func (r *CitiesRepo) Create(ctx context.Context, req city.CreateCityRequest) (city.City, error) {
	var c city.City
	err := r.prom.ObserveDB("cities.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO cities (name) VALUES ($1)
			 RETURNING id, name, created_at, updated_at`,
			req.Name,
		).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})
	if err != nil {
		return city.City{}, fmt.Errorf("insert city: %w", err)
	}
	return c, nil
}

// List orders by name under the "C" collation so the order is byte-wise,
// independent of the database locale.
func (r *CitiesRepo) List(ctx context.Context) ([]city.City, error) {
	out := make([]city.City, 0, 16)

	err := r.prom.ObserveDB("cities.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, created_at, updated_at
			 FROM cities
			 ORDER BY name COLLATE "C" ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c city.City
			if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return out, nil
}

func (r *CitiesRepo) GetByID(ctx context.Context, id int64) (city.City, error) {
	var c city.City
	err := r.prom.ObserveDB("cities.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, created_at, updated_at FROM cities WHERE id = $1`, id,
		).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return city.City{}, city.ErrNotFound
		}
		return city.City{}, fmt.Errorf("get city %d: %w", id, err)
	}
	return c, nil
}

func (r *CitiesRepo) Update(ctx context.Context, id int64, req city.UpdateCityRequest) (city.City, error) {
	var c city.City
	err := r.prom.ObserveDB("cities.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE cities SET name = $2, updated_at = NOW()
			 WHERE id = $1
			 RETURNING id, name, created_at, updated_at`,
			id, req.Name,
		).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return city.City{}, city.ErrNotFound
		}
		return city.City{}, fmt.Errorf("update city %d: %w", id, err)
	}
	return c, nil
}

func (r *CitiesRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.prom.ObserveDB("cities.count", func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cities`).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count cities: %w", err)
	}
	return n, nil
}
