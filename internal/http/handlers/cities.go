package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/cityevents/internal/cache"
	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/gin-gonic/gin"
)

const (
	citiesCachePrefix = "cities:"
	citiesListKey     = "cities:list:v1"
)

type CitiesStore interface {
	List(ctx context.Context) ([]city.City, error)
	GetByID(ctx context.Context, id int64) (city.City, error)
	Create(ctx context.Context, req city.CreateCityRequest) (city.City, error)
	Update(ctx context.Context, id int64, req city.UpdateCityRequest) (city.City, error)
}

type CitiesHandler struct {
	repo      CitiesStore
	validator *validation.Validator
	cache     *listCache
	log       *slog.Logger
}

func NewCitiesHandler(repo CitiesStore, v *validation.Validator, store cache.Store, prom *observability.Prom, log *slog.Logger) *CitiesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CitiesHandler{
		repo:      repo,
		validator: v,
		cache:     newListCache(store, prom, log, "cities"),
		log:       log,
	}
}

func (h *CitiesHandler) ListCities(ctx *gin.Context) {
	gen := h.cache.generation()
	if b, ok := h.cache.get(ctx.Request.Context(), citiesListKey); ok {
		RespondJSONBytesWithETag(ctx, http.StatusOK, b)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	cities, err := h.repo.List(cctx)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list cities failed", "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not list cities")
		return
	}

	if cities == nil {
		cities = []city.City{}
	}

	b, err := json.Marshal(cities)
	if err != nil {
		respond.Internal(ctx, "Could not list cities")
		return
	}

	h.cache.set(ctx.Request.Context(), citiesListKey, b, gen)
	RespondJSONBytesWithETag(ctx, http.StatusOK, b)
}

func (h *CitiesHandler) GetCity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		respond.BadRequest(ctx, "Invalid city id", gin.H{"field": "id"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	c, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, city.ErrNotFound) {
			respond.NotFound(ctx, "City not found")
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "get city failed", "id", id, "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not fetch city")
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CitiesHandler) CreateCity(ctx *gin.Context) {
	var req city.CreateCityRequest

	if !BindAndValidate(ctx, h.validator, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Create(cctx, req)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "create city failed", "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not create city")
		return
	}

	h.cache.invalidate(ctx.Request.Context(), citiesCachePrefix)
	h.log.InfoContext(ctx.Request.Context(), "city created", "id", c.ID)

	ctx.Header("Location", "/cities/"+strconv.FormatInt(c.ID, 10))
	ctx.JSON(http.StatusCreated, c)
}

func (h *CitiesHandler) UpdateCity(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		respond.BadRequest(ctx, "Invalid city id", gin.H{"field": "id"})
		return
	}

	var req city.UpdateCityRequest

	if !BindAndValidate(ctx, h.validator, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	c, err := h.repo.Update(cctx, id, req)
	if err != nil {
		if errors.Is(err, city.ErrNotFound) {
			respond.NotFound(ctx, "City not found")
			return
		}
		h.log.ErrorContext(ctx.Request.Context(), "update city failed", "id", id, "error", err, "request_id", respond.RequestID(ctx))
		respond.Internal(ctx, "Could not update city")
		return
	}

	h.cache.invalidate(ctx.Request.Context(), citiesCachePrefix)
	h.log.InfoContext(ctx.Request.Context(), "city updated", "id", c.ID)

	ctx.JSON(http.StatusOK, c)
}
