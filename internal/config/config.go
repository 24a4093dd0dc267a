package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env  string
	Port int

	StoreDriver string
	DBURL       string
	SQLiteDSN   string
	AutoMigrate bool
	SeedOnStart bool

	JWTSecret         string
	JWTIssuer         string
	JWTAccessTTL      time.Duration
	OAuthClientID     string
	OAuthClientSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Locale          string
	EventsPageSize  int
	EventsMaxPage   int
	CORSOrigins     []string
	TokenRatePerMin int
	MaxBodyBytes    int64
	OTLPEndpoint    string
	OTelServiceName string
	OTelSampleRatio float64
	LogFormat       string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		DBURL:       getEnv("DATABASE_URL", buildDBURL()),
		SQLiteDSN:   getEnv("SQLITE_DSN", "file:cityevents.db?cache=shared"),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),
		SeedOnStart: getEnvBool("SEED_ON_START", false),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         getEnv("JWT_ISSUER", "cityevents"),
		JWTAccessTTL:      time.Duration(getEnvInt("JWT_ACCESS_TTL_MINUTES", 60)) * time.Minute,
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 10)) * time.Second,

		Locale:          getEnv("APP_LOCALE", "pt_BR"),
		EventsPageSize:  getEnvInt("EVENTS_PAGE_SIZE", 20),
		EventsMaxPage:   getEnvInt("EVENTS_MAX_PAGE_SIZE", 100),
		CORSOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TokenRatePerMin: getEnvInt("TOKEN_RATE_LIMIT_PER_MINUTE", 30),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "cityevents-api"),
		OTelSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		LogFormat:       getEnv("LOG_FORMAT", ""),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

func (c *Config) validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.StoreDriver))
	}

	if c.JWTSecret == "" {
		if !c.IsDev() {
			errs = append(errs, errors.New("JWT_SECRET is required outside dev/test"))
		} else {
			c.JWTSecret = "dev-secret-change-me"
		}
	}

	if c.Locale != "pt_BR" && c.Locale != "en" {
		errs = append(errs, fmt.Errorf("APP_LOCALE must be pt_BR or en, got %q", c.Locale))
	}

	if c.EventsPageSize <= 0 {
		errs = append(errs, errors.New("EVENTS_PAGE_SIZE must be positive"))
	}
	if c.EventsMaxPage < c.EventsPageSize {
		errs = append(errs, errors.New("EVENTS_MAX_PAGE_SIZE must be >= EVENTS_PAGE_SIZE"))
	}
	if c.OTelSampleRatio < 0 || c.OTelSampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_TRACES_SAMPLER_ARG must be within [0, 1]"))
	}
	if c.JWTAccessTTL <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_TTL_MINUTES must be positive"))
	}

	return errors.Join(errs...)
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "cityevents")
	pass := getEnv("DB_PASSWORD", "cityevents")
	name := getEnv("DB_NAME", "cityevents")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0, 4)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
