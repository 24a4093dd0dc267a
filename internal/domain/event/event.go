package event

import (
	"errors"
	"strings"
	"time"
)

type Event struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Date      Date      `json:"date"`
	URL       string    `json:"url"`
	CityID    int64     `json:"cityId"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// with pointers if optional, it will be nil
type ListEventsFilter struct {
	CityID *int64
	Limit  int
	Offset int
}

var (
	ErrNotFound = errors.New("event not found")
	// ErrCityNotFound is returned by stores when cityId does not reference a stored city.
	ErrCityNotFound = errors.New("event city not found")
)

type CreateEventRequest struct {
	ID     *int64 `json:"id"`
	Name   string `json:"name" validate:"notblank,plaintext"`
	Date   Date   `json:"date" validate:"required,notpast"`
	URL    string `json:"url"`
	CityID *int64 `json:"cityId" validate:"required"`
}

// a full replacement payload, same rules as create.
type UpdateEventRequest = CreateEventRequest

func (r *CreateEventRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}
