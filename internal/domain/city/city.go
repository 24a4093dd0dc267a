package city

import (
	"errors"
	"strings"
	"time"
)

type City struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

var ErrNotFound = errors.New("city not found")

// CreateCityRequest is also used for full replacement; the id in the body is ignored.
type CreateCityRequest struct {
	ID   *int64 `json:"id"`
	Name string `json:"name" validate:"notblank,plaintext"`
}

type UpdateCityRequest = CreateCityRequest

// Normalize trims the name before validation runs.
func (r *CreateCityRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}
