package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/cityevents/internal/domain/city"
	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/geocoder89/cityevents/internal/validation"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test
func init() {
	gin.SetMode(gin.TestMode)
}

func fixedNow() time.Time {
	return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
}

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v, err := validation.New("pt_BR", validation.WithClock(fixedNow))
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return v
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func int64Ptr(n int64) *int64 { return &n }

// Fake repositories; nil funcs return zero values.

type fakeCitiesRepo struct {
	listFn   func(ctx context.Context) ([]city.City, error)
	getFn    func(ctx context.Context, id int64) (city.City, error)
	createFn func(ctx context.Context, req city.CreateCityRequest) (city.City, error)
	updateFn func(ctx context.Context, id int64, req city.UpdateCityRequest) (city.City, error)
	calls    int
}

func (f *fakeCitiesRepo) List(ctx context.Context) ([]city.City, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeCitiesRepo) GetByID(ctx context.Context, id int64) (city.City, error) {
	f.calls++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return city.City{}, city.ErrNotFound
}

func (f *fakeCitiesRepo) Create(ctx context.Context, req city.CreateCityRequest) (city.City, error) {
	f.calls++
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return city.City{ID: 1, Name: req.Name}, nil
}

func (f *fakeCitiesRepo) Update(ctx context.Context, id int64, req city.UpdateCityRequest) (city.City, error) {
	f.calls++
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return city.City{ID: id, Name: req.Name}, nil
}

type fakeEventsRepo struct {
	listFn   func(ctx context.Context, f event.ListEventsFilter) ([]event.Event, int64, error)
	getFn    func(ctx context.Context, id int64) (event.Event, error)
	createFn func(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	updateFn func(ctx context.Context, id int64, req event.UpdateEventRequest) (event.Event, error)
	calls    int
}

func (f *fakeEventsRepo) List(ctx context.Context, filter event.ListEventsFilter) ([]event.Event, int64, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeEventsRepo) GetByID(ctx context.Context, id int64) (event.Event, error) {
	f.calls++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return event.Event{}, event.ErrNotFound
}

func (f *fakeEventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	f.calls++
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	return event.NewFromCreateRequest(req), nil
}

func (f *fakeEventsRepo) Update(ctx context.Context, id int64, req event.UpdateEventRequest) (event.Event, error) {
	f.calls++
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	e := event.NewFromCreateRequest(req)
	e.ID = id
	return e, nil
}

// small helper which returns a gin engine mounting one handler
func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, h)
	return r
}

func doRequest(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal error body: %v body=%s", err, w.Body.String())
	}
	return body
}
