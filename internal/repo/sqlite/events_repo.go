package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/uptrace/bun"
)

type EventsRepo struct {
	db   *bun.DB
	prom *observability.Prom
}

// Create checks the city and inserts the event in one transaction.
func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	e := event.NewFromCreateRequest(req)
	row := eventRow{
		Name:      e.Name,
		Date:      e.Date.String(),
		URL:       e.URL,
		CityID:    e.CityID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}

	err := r.prom.ObserveDB("events.create", func() error {
		return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := ensureCity(ctx, tx, row.CityID); err != nil {
				return err
			}
			_, err := tx.NewInsert().Model(&row).Returning("id").Exec(ctx)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, event.ErrCityNotFound) {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	return row.toDomain()
}

func (r *EventsRepo) List(ctx context.Context, f event.ListEventsFilter) ([]event.Event, int64, error) {
	var rows []eventRow
	var total int

	err := r.prom.ObserveDB("events.list", func() error {
		q := r.db.NewSelect().Model(&rows)
		if f.CityID != nil {
			q = q.Where("e.city_id = ?", *f.CityID)
		}

		var err error
		total, err = q.Count(ctx)
		if err != nil {
			return err
		}

		return q.OrderExpr("e.date ASC, e.id ASC").
			Limit(f.Limit).
			Offset(f.Offset).
			Scan(ctx)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("decode event %d: %w", row.ID, err)
		}
		out = append(out, e)
	}
	return out, int64(total), nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	var row eventRow
	err := r.prom.ObserveDB("events.get_by_id", func() error {
		return r.db.NewSelect().Model(&row).Where("e.id = ?", id).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event %d: %w", id, err)
	}
	return row.toDomain()
}

func (r *EventsRepo) Update(ctx context.Context, id int64, req event.UpdateEventRequest) (event.Event, error) {
	var row eventRow
	err := r.prom.ObserveDB("events.update", func() error {
		return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := tx.NewSelect().Model(&row).Where("e.id = ?", id).Scan(ctx); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return event.ErrNotFound
				}
				return err
			}

			var cityID int64
			if req.CityID != nil {
				cityID = *req.CityID
			}
			if err := ensureCity(ctx, tx, cityID); err != nil {
				return err
			}

			row.Name = req.Name
			row.Date = req.Date.String()
			row.URL = req.URL
			row.CityID = cityID
			row.UpdatedAt = time.Now().UTC()

			_, err := tx.NewUpdate().
				Model(&row).
				Column("name", "date", "url", "city_id", "updated_at").
				WherePK().
				Exec(ctx)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, event.ErrNotFound) || errors.Is(err, event.ErrCityNotFound) {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("update event %d: %w", id, err)
	}
	return row.toDomain()
}

func (r *EventsRepo) Count(ctx context.Context) (int64, error) {
	var n int
	err := r.prom.ObserveDB("events.count", func() error {
		var err error
		n, err = r.db.NewSelect().Model((*eventRow)(nil)).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return int64(n), nil
}

func ensureCity(ctx context.Context, tx bun.Tx, cityID int64) error {
	exists, err := tx.NewSelect().Model((*cityRow)(nil)).Where("c.id = ?", cityID).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return event.ErrCityNotFound
	}
	return nil
}
