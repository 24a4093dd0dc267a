package sqlite

import (
	"strings"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/domain/user"
	"github.com/uptrace/bun"
)

type cityRow struct {
	bun.BaseModel `bun:"table:cities,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (r cityRow) toDomain() city.City {
	return city.City{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// Date is kept as YYYY-MM-DD text, which sorts in calendar order.
type eventRow struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Date      string    `bun:"date,notnull"`
	URL       string    `bun:"url,notnull"`
	CityID    int64     `bun:"city_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (r eventRow) toDomain() (event.Event, error) {
	d, err := event.ParseDate(r.Date)
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{
		ID:        r.ID,
		Name:      r.Name,
		Date:      d,
		URL:       r.URL,
		CityID:    r.CityID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Name         string    `bun:"name,notnull"`
	Roles        string    `bun:"roles,notnull"` // comma separated
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

func (r userRow) toDomain() user.User {
	roles := []string{}
	for _, role := range strings.Split(r.Roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	return user.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Roles:        roles,
		CreatedAt:    r.CreatedAt,
	}
}
