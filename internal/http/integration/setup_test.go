package integration_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/cityevents/internal/auth"
	"github.com/geocoder89/cityevents/internal/cache"
	"github.com/geocoder89/cityevents/internal/config"
	"github.com/geocoder89/cityevents/internal/db"
	apphttp "github.com/geocoder89/cityevents/internal/http"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/repo/sqlite"
	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// account is a per-test credential fixture, passed by value.
type account struct {
	username string
	password string
}

var (
	client = account{username: "ana@gmail.com", password: "123456"}
	admin  = account{username: "bob@gmail.com", password: "123456"}
)

func testConfig() config.Config {
	return config.Config{
		Env:             "test",
		StoreDriver:     config.DriverSQLite,
		JWTSecret:       "integration-secret",
		JWTIssuer:       "cityevents",
		JWTAccessTTL:    time.Hour,
		Locale:          "pt_BR",
		EventsPageSize:  20,
		EventsMaxPage:   100,
		TokenRatePerMin: 1000,
		MaxBodyBytes:    1 << 20,
		OTelServiceName: "cityevents-test",
	}
}

type testApp struct {
	router *gin.Engine
}

// newTestApp builds the full router over a fresh, seeded in-memory SQLite store.
func newTestApp(t *testing.T) *testApp {
	return newTestAppWithConfig(t, testConfig())
}

func newTestAppWithConfig(t *testing.T, cfg config.Config) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	store, err := sqlite.OpenInMemory(ctx, prom)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, db.Seed(ctx, store, logger))

	v, err := validation.New(cfg.Locale)
	require.NoError(t, err)

	router := apphttp.NewRouter(apphttp.Deps{
		Log:       logger,
		Config:    cfg,
		Store:     store,
		Cache:     cache.New(time.Minute),
		Tokens:    auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAccessTTL),
		Validator: v,
		Prom:      prom,
		Gatherer:  reg,
	})

	return &testApp{router: router}
}

func (a *testApp) do(t *testing.T, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login runs the password grant and returns the access token.
func (a *testApp) login(t *testing.T, acc account) string {
	t.Helper()

	form := url.Values{
		"grant_type": {"password"},
		"username":   {acc.username},
		"password":   {acc.password},
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token := gjson.Get(w.Body.String(), "access_token").String()
	require.NotEmpty(t, token)
	return token
}

func nextMonth() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

func yesterday() string {
	return time.Now().AddDate(0, 0, -1).Format("2006-01-02")
}
