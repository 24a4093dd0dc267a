// Package repo declares the persistence contracts shared by the Postgres and
// SQLite stores.
package repo

import (
	"context"

	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/domain/user"
)

type CityStore interface {
	// List returns all cities ordered by name (byte order), then id.
	List(ctx context.Context) ([]city.City, error)
	GetByID(ctx context.Context, id int64) (city.City, error)
	Create(ctx context.Context, req city.CreateCityRequest) (city.City, error)
	Update(ctx context.Context, id int64, req city.UpdateCityRequest) (city.City, error)
	Count(ctx context.Context) (int64, error)
}

type EventStore interface {
	// List returns one page ordered by date, then id, and the total match count.
	List(ctx context.Context, f event.ListEventsFilter) ([]event.Event, int64, error)
	GetByID(ctx context.Context, id int64) (event.Event, error)
	// Create and Update return event.ErrCityNotFound for a dangling cityId.
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	Update(ctx context.Context, id int64, req event.UpdateEventRequest) (event.Event, error)
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// Store bundles one backend's repositories with its lifecycle hooks.
type Store struct {
	Cities CityStore
	Events EventStore
	Users  UserStore

	Ping  func(ctx context.Context) error
	Close func() error
}
