package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

const eventColumns = `id, name, date, url, city_id, created_at, updated_at`

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	e := event.NewFromCreateRequest(req)

	var out event.Event
	// the FK on city_id makes the city lookup and the insert one statement
	err := r.prom.ObserveDB("events.create", func() error {
		row := r.pool.QueryRow(ctx,
			`INSERT INTO events (name, date, url, city_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING `+eventColumns,
			e.Name, e.Date.Time(), e.URL, e.CityID, e.CreatedAt, e.UpdatedAt)
		var err error
		out, err = scanEvent(row)
		return err
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return event.Event{}, event.ErrCityNotFound
		}
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	return out, nil
}

func (r *EventsRepo) List(ctx context.Context, f event.ListEventsFilter) ([]event.Event, int64, error) {
	baseQuery := `SELECT ` + eventColumns + `, COUNT(*) OVER() AS total FROM events`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if f.CityID != nil {
		conds = append(conds, fmt.Sprintf("city_id = $%d", argsPosition))
		args = append(args, *f.CityID)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY date ASC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, f.Limit, f.Offset)

	output := make([]event.Event, 0, f.Limit)
	var total int64

	err := r.prom.ObserveDB("events.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e event.Event
			var date time.Time

			if err := rows.Scan(&e.ID, &e.Name, &date, &e.URL, &e.CityID, &e.CreatedAt, &e.UpdatedAt, &total); err != nil {
				return err
			}
			e.Date = event.DateOf(date)
			output = append(output, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	// an offset past the end yields no rows, so no window count either
	if len(output) == 0 && f.Offset > 0 {
		total, err = r.count(ctx, f.CityID)
		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	var e event.Event
	err := r.prom.ObserveDB("events.get_by_id", func() error {
		var err error
		e, err = scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("get event %d: %w", id, err)
	}

	return e, nil
}

func (r *EventsRepo) Update(ctx context.Context, id int64, req event.UpdateEventRequest) (event.Event, error) {
	var cityID int64
	if req.CityID != nil {
		cityID = *req.CityID
	}

	var e event.Event
	err := r.prom.ObserveDB("events.update", func() error {
		var err error
		e, err = scanEvent(r.pool.QueryRow(
			ctx,
			`UPDATE events
				SET name = $2,
					date = $3,
					url = $4,
					city_id = $5,
					updated_at = NOW()
			WHERE id = $1
			RETURNING `+eventColumns,
			id,
			req.Name,
			req.Date.Time(),
			req.URL,
			cityID,
		))
		return err
	})
	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return event.Event{}, event.ErrCityNotFound
		}
		return event.Event{}, fmt.Errorf("update event %d: %w", id, err)
	}

	return e, nil
}

func (r *EventsRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}

func (r *EventsRepo) count(ctx context.Context, cityID *int64) (int64, error) {
	query := `SELECT COUNT(*) FROM events`
	var args []interface{}
	if cityID != nil {
		query += ` WHERE city_id = $1`
		args = append(args, *cityID)
	}

	var n int64
	err := r.prom.ObserveDB("events.count", func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	var date time.Time
	if err := row.Scan(&e.ID, &e.Name, &date, &e.URL, &e.CityID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return event.Event{}, err
	}
	e.Date = event.DateOf(date)
	return e, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
