package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/cityevents/internal/cache"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/domain/page"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/gin-gonic/gin"
)

const eventsCachePrefix = "events:"

type EventsStore interface {
	List(ctx context.Context, f event.ListEventsFilter) ([]event.Event, int64, error)
	GetByID(ctx context.Context, id int64) (event.Event, error)
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	Update(ctx context.Context, id int64, req event.UpdateEventRequest) (event.Event, error)
}

type EventsHandler struct {
	repo        EventsStore
	validator   *validation.Validator
	cache       *listCache
	log         *slog.Logger
	pageSize    int
	maxPageSize int
}

type PageConfig struct {
	DefaultSize int
	MaxSize     int
}

func NewEventsHandler(repo EventsStore, v *validation.Validator, store cache.Store, prom *observability.Prom, log *slog.Logger, pc PageConfig) *EventsHandler {
	if log == nil {
		log = slog.Default()
	}
	if pc.DefaultSize <= 0 {
		pc.DefaultSize = 20
	}
	if pc.MaxSize < pc.DefaultSize {
		pc.MaxSize = pc.DefaultSize
	}
	return &EventsHandler{
		repo:        repo,
		validator:   v,
		cache:       newListCache(store, prom, log, "events"),
		log:         log,
		pageSize:    pc.DefaultSize,
		maxPageSize: pc.MaxSize,
	}
}

func eventsListKey(number, size int, cityID *int64) string {
	city := "all"
	if cityID != nil {
		city = strconv.FormatInt(*cityID, 10)
	}
	return fmt.Sprintf("events:list:v1:page=%d:size=%d:city=%s", number, size, city)
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	number, ok := parseIntQuery(ctx, "page", 0)
	if !ok || number < 0 {
		respond.BadRequest(ctx, "Invalid query parameter", gin.H{"field": "page", "rule": "min=0"})
		return
	}

	size, ok := parseIntQuery(ctx, "size", h.pageSize)
	if !ok || size < 1 {
		respond.BadRequest(ctx, "Invalid query parameter", gin.H{"field": "size", "rule": "min=1"})
		return
	}
	if size > h.maxPageSize {
		size = h.maxPageSize
	}
	if !page.InRange(number, size) {
		respond.BadRequest(ctx, "Invalid query parameter", gin.H{"field": "page", "rule": "max"})
		return
	}

	cityID, ok := parseOptionalInt64Query(ctx, "cityId")
	if !ok {
		respond.BadRequest(ctx, "Invalid query parameter", gin.H{"field": "cityId"})
		return
	}

	key := eventsListKey(number, size, cityID)
	gen := h.cache.generation()
	if b, ok := h.cache.get(ctx.Request.Context(), key); ok {
		RespondJSONBytesWithETag(ctx, http.StatusOK, b)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, event.ListEventsFilter{
		CityID: cityID,
		Limit:  size,
		Offset: page.Offset(number, size),
	})
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list events failed", "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not list events")
		return
	}

	b, err := json.Marshal(page.New(items, number, size, total))
	if err != nil {
		respond.Internal(ctx, "Could not list events")
		return
	}

	h.cache.set(ctx.Request.Context(), key, b, gen)
	RespondJSONBytesWithETag(ctx, http.StatusOK, b)
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		respond.BadRequest(ctx, "Invalid event id", gin.H{"field": "id"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	e, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			respond.NotFound(ctx, "Event not found")
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "get event failed", "id", id, "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not fetch event")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindAndValidate(ctx, h.validator, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, req)
	if err != nil {
		h.writeError(ctx, "create", err)
		return
	}

	h.cache.invalidate(ctx.Request.Context(), eventsCachePrefix)
	h.log.InfoContext(ctx.Request.Context(), "event created", "id", e.ID, "city_id", e.CityID)

	ctx.Header("Location", "/events/"+strconv.FormatInt(e.ID, 10))
	ctx.JSON(http.StatusCreated, e)
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		respond.BadRequest(ctx, "Invalid event id", gin.H{"field": "id"})
		return
	}

	var req event.UpdateEventRequest

	if !BindAndValidate(ctx, h.validator, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	e, err := h.repo.Update(cctx, id, req)
	if err != nil {
		h.writeError(ctx, "update", err)
		return
	}

	h.cache.invalidate(ctx.Request.Context(), eventsCachePrefix)
	h.log.InfoContext(ctx.Request.Context(), "event updated", "id", e.ID)

	ctx.JSON(http.StatusOK, e)
}

func (h *EventsHandler) writeError(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, event.ErrCityNotFound):
		lang := ctx.GetHeader("Accept-Language")
		respond.Unprocessable(ctx, respond.CodeReferenceNotFound, h.validator.Message(lang, validation.KeyInvalidData),
			[]validation.Violation{{FieldName: "cityId", Message: h.validator.Message(lang, validation.KeyCityNotFound)}})
	case errors.Is(err, event.ErrNotFound):
		respond.NotFound(ctx, "Event not found")
	default:
		h.log.ErrorContext(ctx.Request.Context(), op+" event failed", "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not "+op+" event")
	}
}
