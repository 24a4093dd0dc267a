package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/gin-gonic/gin"
)

const calendarBatch = 200

type CityLister interface {
	List(ctx context.Context) ([]city.City, error)
}

type EventLister interface {
	List(ctx context.Context, f event.ListEventsFilter) ([]event.Event, int64, error)
}

// CalendarHandler exports events as an iCalendar feed of all-day entries.
type CalendarHandler struct {
	events EventLister
	cities CityLister
	log    *slog.Logger
	host   string
	now    func() time.Time
}

func NewCalendarHandler(events EventLister, cities CityLister, log *slog.Logger) *CalendarHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CalendarHandler{
		events: events,
		cities: cities,
		log:    log,
		host:   "cityevents",
		now:    time.Now,
	}
}

func (h *CalendarHandler) Export(ctx *gin.Context) {
	cityID, ok := parseOptionalInt64Query(ctx, "cityId")
	if !ok {
		respond.BadRequest(ctx, "Invalid query parameter", gin.H{"field": "cityId"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	cities, err := h.cities.List(cctx)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "calendar cities failed", "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not export calendar")
		return
	}
	names := make(map[int64]string, len(cities))
	for _, c := range cities {
		names[c.ID] = c.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//cityevents//events calendar//PT")
	cal.SetXWRCalName("City Events")

	stamp := h.now().UTC()

	for offset := 0; ; offset += calendarBatch {
		batch, total, err := h.events.List(cctx, event.ListEventsFilter{CityID: cityID, Limit: calendarBatch, Offset: offset})
		if err != nil {
			h.log.ErrorContext(ctx.Request.Context(), "calendar events failed", "error", err, "request_id", respond.RequestID(ctx))
			respond.Internal(ctx, "Could not export calendar")
			return
		}

		for _, e := range batch {
			h.addEvent(cal, e, names[e.CityID], stamp)
		}

		if len(batch) < calendarBatch || int64(offset+len(batch)) >= total {
			break
		}
	}

	ctx.Header("Content-Disposition", `attachment; filename="events.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

func (h *CalendarHandler) addEvent(cal *ics.Calendar, e event.Event, cityName string, stamp time.Time) {
	ve := cal.AddEvent("event-" + strconv.FormatInt(e.ID, 10) + "@" + h.host)
	ve.SetDtStampTime(stamp)
	ve.SetSummary(e.Name)
	ve.SetAllDayStartAt(e.Date.Time())
	ve.SetAllDayEndAt(e.Date.Time().AddDate(0, 0, 1))
	if cityName != "" {
		ve.SetLocation(cityName)
	}
	if e.URL != "" {
		ve.SetURL(e.URL)
	}
}
