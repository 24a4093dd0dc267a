package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/cityevents/internal/auth"
	"github.com/geocoder89/cityevents/internal/cache"
	"github.com/geocoder89/cityevents/internal/config"
	"github.com/geocoder89/cityevents/internal/db"
	httpx "github.com/geocoder89/cityevents/internal/http"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

Examples:
  # Postgres from DATABASE_URL, migrations applied on start
  cityevents serve

  # Local SQLite file, seeded with the sample data
  SEED_ON_START=true cityevents serve --store sqlite --port 9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port; overrides PORT")
}

func runServer(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log := observability.NewLogger(cfg.Env, cfg.LogFormat)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName: cfg.OTelServiceName,
			Environment: cfg.Env,
			Endpoint:    cfg.OTLPEndpoint,
			SampleRatio: cfg.OTelSampleRatio,
		})
		if err != nil {
			log.Warn("tracing disabled", "error", err)
		} else {
			defer func() {
				sctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(sctx)
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	openCtx, cancelOpen := context.WithTimeout(ctx, 30*time.Second)
	store, err := openStore(openCtx, cfg, log, prom)
	cancelOpen()
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.SeedOnStart {
		if err := db.Seed(ctx, store, log); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	listCache, closeCache := newListCache(ctx, cfg, log)
	defer closeCache()

	v, err := validation.New(cfg.Locale)
	if err != nil {
		return err
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:       log,
		Config:    cfg,
		Store:     store,
		Cache:     listCache,
		Tokens:    auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL),
		Validator: v,
		Prom:      prom,
		Gatherer:  reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("server shutting down")

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("shutdown complete")
		return nil
	})

	return g.Wait()
}

// newListCache returns Redis when REDIS_ADDR is set and reachable, otherwise
// an in-process cache.
func newListCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Store, func()) {
	if cfg.RedisAddr == "" {
		return cache.New(cfg.CacheTTL), func() {}
	}

	rc := cache.NewRedis(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pctx); err != nil {
		log.Warn("redis unreachable, using in-process cache", "addr", cfg.RedisAddr, "error", err)
		_ = rc.Close()
		return cache.New(cfg.CacheTTL), func() {}
	}

	log.Info("redis cache enabled", "addr", cfg.RedisAddr)
	return rc, func() { _ = rc.Close() }
}
