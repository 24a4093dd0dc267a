package event

import "time"

// NewFromCreateRequest assumes req already passed validation, so CityID is set.
func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	e := Event{
		Name:      req.Name,
		Date:      req.Date,
		URL:       req.URL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.CityID != nil {
		e.CityID = *req.CityID
	}

	return e
}
