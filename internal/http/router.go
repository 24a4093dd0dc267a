package http

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/cityevents/internal/auth"
	"github.com/geocoder89/cityevents/internal/authz"
	"github.com/geocoder89/cityevents/internal/cache"
	"github.com/geocoder89/cityevents/internal/config"
	"github.com/geocoder89/cityevents/internal/http/handlers"
	"github.com/geocoder89/cityevents/internal/http/middlewares"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/repo"
	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router wires into handlers. Cache, Prom and
// Gatherer are optional.
type Deps struct {
	Log       *slog.Logger
	Config    config.Config
	Store     repo.Store
	Cache     cache.Store
	Tokens    *auth.Manager
	Validator *validation.Validator
	Prom      *observability.Prom
	Gatherer  prometheus.Gatherer
}

func NewRouter(d Deps) *gin.Engine {
	if !d.Config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// middleware
	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(otelgin.Middleware(d.Config.OTelServiceName))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders(!d.Config.IsDev()))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))

	r.NoRoute(func(ctx *gin.Context) {
		respond.NotFound(ctx, "No handler for "+ctx.Request.Method+" "+ctx.Request.URL.Path)
	})
	r.NoMethod(func(ctx *gin.Context) {
		respond.Error(ctx, http.StatusMethodNotAllowed, "method_not_allowed", "Method "+ctx.Request.Method+" is not supported", nil)
	})

	// health
	h := handlers.NewHealthHandler(d.Store.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// token endpoint
	authHandler := handlers.NewAuthHandler(d.Store.Users, d.Tokens, handlers.ClientCredentials{
		ClientID:     d.Config.OAuthClientID,
		ClientSecret: d.Config.OAuthClientSecret,
	}, d.Prom, log)
	tokenLimiter := middlewares.NewRateLimiter(d.Config.TokenRatePerMin)
	r.POST("/oauth/token", tokenLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Token)

	authMw := middlewares.NewAuthMiddleware(d.Tokens, log)
	requireJSON := middlewares.RequireJSON()

	// cities
	citiesHandler := handlers.NewCitiesHandler(d.Store.Cities, d.Validator, d.Cache, d.Prom, log)
	cities := r.Group("/cities")
	{
		cities.GET("", authMw.Authorize(authz.OpListCities), citiesHandler.ListCities)
		cities.GET("/:id", authMw.Authorize(authz.OpGetCity), citiesHandler.GetCity)
		cities.POST("", authMw.Authorize(authz.OpCreateCity), requireJSON, citiesHandler.CreateCity)
		cities.PUT("/:id", authMw.Authorize(authz.OpUpdateCity), requireJSON, citiesHandler.UpdateCity)
	}

	// events
	eventsHandler := handlers.NewEventsHandler(d.Store.Events, d.Validator, d.Cache, d.Prom, log, handlers.PageConfig{
		DefaultSize: d.Config.EventsPageSize,
		MaxSize:     d.Config.EventsMaxPage,
	})
	calendarHandler := handlers.NewCalendarHandler(d.Store.Events, d.Store.Cities, log)
	events := r.Group("/events")
	{
		events.GET("", authMw.Authorize(authz.OpListEvents), eventsHandler.ListEvents)
		events.GET("/calendar.ics", authMw.Authorize(authz.OpExportCalendar), calendarHandler.Export)
		events.GET("/:id", authMw.Authorize(authz.OpGetEvent), eventsHandler.GetEventByID)
		events.POST("", authMw.Authorize(authz.OpCreateEvent), requireJSON, eventsHandler.CreateEvent)
		events.PUT("/:id", authMw.Authorize(authz.OpUpdateEvent), requireJSON, eventsHandler.UpdateEvent)
	}

	return r
}
