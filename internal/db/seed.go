package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/domain/user"
	"github.com/geocoder89/cityevents/internal/repo"
	"github.com/geocoder89/cityevents/internal/security"
)

type seedUser struct {
	email string
	name  string
	roles []string
}

var seedUsers = []seedUser{
	{email: "ana@gmail.com", name: "Ana", roles: []string{"CLIENT"}},
	{email: "bob@gmail.com", name: "Bob", roles: []string{"CLIENT", "ADMIN"}},
}

const seedPassword = "123456"

// first entry gets id 1
var seedCities = []string{
	"São Paulo",
	"Brasília",
	"Fortaleza",
	"Salvador",
	"Manaus",
	"Curitiba",
	"Goiânia",
	"Belém",
	"Porto Alegre",
	"Belo Horizonte",
}

type seedEvent struct {
	name string
	date event.Date
	url  string
	city int // index into seedCities
}

var seedEvents = []seedEvent{
	{name: "Feira do Software", date: event.NewDate(2027, time.May, 16), url: "https://feiradosoftware.com", city: 0},
	{name: "CCXP", date: event.NewDate(2027, time.April, 13), url: "https://ccxp.com.br", city: 0},
	{name: "Congresso Linux", date: event.NewDate(2027, time.May, 23), url: "https://congressolinux.com.br", city: 2},
	{name: "Semana Spring React", date: event.NewDate(2027, time.May, 3), url: "", city: 1},
}

// Seed loads the demo users, cities and events. It is idempotent: users are
// matched by email, and cities/events are only inserted into empty tables.
func Seed(ctx context.Context, store repo.Store, log *slog.Logger) error {
	if err := seedAccounts(ctx, store.Users, log); err != nil {
		return err
	}

	n, err := store.Cities.Count(ctx)
	if err != nil {
		return fmt.Errorf("count cities: %w", err)
	}
	if n > 0 {
		log.Info("seed skipped, cities present", "count", n)
		return nil
	}

	ids := make([]int64, 0, len(seedCities))
	for _, name := range seedCities {
		c, err := store.Cities.Create(ctx, city.CreateCityRequest{Name: name})
		if err != nil {
			return fmt.Errorf("seed city %q: %w", name, err)
		}
		ids = append(ids, c.ID)
	}

	evCount, err := store.Events.Count(ctx)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	if evCount > 0 {
		return nil
	}

	for _, se := range seedEvents {
		cityID := ids[se.city]
		_, err := store.Events.Create(ctx, event.CreateEventRequest{
			Name:   se.name,
			Date:   se.date,
			URL:    se.url,
			CityID: &cityID,
		})
		if err != nil {
			return fmt.Errorf("seed event %q: %w", se.name, err)
		}
	}

	log.Info("seed complete", "cities", len(seedCities), "events", len(seedEvents))
	return nil
}

func seedAccounts(ctx context.Context, users repo.UserStore, log *slog.Logger) error {
	for _, su := range seedUsers {
		_, err := users.GetByEmail(ctx, su.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("lookup %s: %w", su.email, err)
		}

		hash, err := security.HashPassword(seedPassword)
		if err != nil {
			return err
		}

		_, err = users.Create(ctx, user.User{
			Email:        su.email,
			Name:         su.name,
			PasswordHash: hash,
			Roles:        su.roles,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		log.Info("seeded user", "email", su.email, "roles", su.roles)
	}
	return nil
}
