package handlers_test

import (
	"net/http"
	"testing"

	"github.com/geocoder89/cityevents/internal/domain/event"
	"github.com/geocoder89/cityevents/internal/http/handlers"
	"github.com/geocoder89/cityevents/internal/http/middlewares"
	"github.com/geocoder89/cityevents/internal/http/respond"
	"github.com/gin-gonic/gin"
)

func TestBindJSON_MalformedBodies(t *testing.T) {
	r := gin.New()
	r.POST("/events", func(ctx *gin.Context) {
		var req event.CreateEventRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	tests := []struct {
		name      string
		body      string
		wantJSON  string
		wantField string
	}{
		{name: "syntax error", body: `{"name":`, wantJSON: "invalid_json_syntax"},
		{name: "trailing garbage", body: `{"name":"x",}`, wantJSON: "invalid_json_syntax"},
		{name: "wrong type", body: `{"name":"x","cityId":"one"}`, wantJSON: "invalid_json_type", wantField: "cityId"},
		{name: "bad date format", body: `{"name":"x","date":"15/10/2026","cityId":1}`, wantJSON: "invalid_json_type", wantField: "date"},
		{name: "date not a string", body: `{"name":"x","date":20261015,"cityId":1}`, wantJSON: "invalid_json_type", wantField: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/events", tt.body, nil)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
			}

			body := decodeError(t, w)
			if body.Error != respond.CodeInvalidRequest {
				t.Fatalf("unexpected code: %s", body.Error)
			}

			details, ok := body.Details.(map[string]interface{})
			if !ok {
				t.Fatalf("details missing: %s", w.Body.String())
			}
			if details["json"] != tt.wantJSON {
				t.Fatalf("details.json = %v, want %s", details["json"], tt.wantJSON)
			}
			if tt.wantField != "" && details["field"] != tt.wantField {
				t.Fatalf("details.field = %v, want %s", details["field"], tt.wantField)
			}
		})
	}
}

func TestBindJSON_EmptyBody(t *testing.T) {
	r := setupRouter(http.MethodPost, "/cities", func(ctx *gin.Context) {
		var req event.CreateEventRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	w := doRequest(r, http.MethodPost, "/cities", "", map[string]string{"Content-Type": "application/json"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}

	details, _ := decodeError(t, w).Details.(map[string]interface{})
	if details["json"] != "empty_body" {
		t.Fatalf("details = %v, want empty_body", details)
	}
}

func TestBindJSON_TooLarge(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(16))
	r.POST("/cities", func(ctx *gin.Context) {
		var req event.CreateEventRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	w := doRequest(r, http.MethodPost, "/cities", `{"name":"a city name that is far too long"}`, nil)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("got status %d, want 413, body=%s", w.Code, w.Body.String())
	}
	if got := decodeError(t, w).Error; got != respond.CodePayloadTooLarge {
		t.Fatalf("code = %s", got)
	}
}

func TestBindAndValidate_ReportsViolations(t *testing.T) {
	v := newValidator(t)
	r := setupRouter(http.MethodPost, "/events", func(ctx *gin.Context) {
		var req event.CreateEventRequest
		if !handlers.BindAndValidate(ctx, v, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	w := doRequest(r, http.MethodPost, "/events", `{"name":"  ","date":"2026-10-14"}`, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want 422, body=%s", w.Code, w.Body.String())
	}

	body := decodeError(t, w)
	if body.Error != respond.CodeValidationFailed || body.Message != "Dados inválidos" {
		t.Fatalf("unexpected body: %+v", body)
	}

	want := []string{"name", "date", "cityId"}
	if len(body.Errors) != len(want) {
		t.Fatalf("got %d violations, want %d: %+v", len(body.Errors), len(want), body.Errors)
	}
	for i, field := range want {
		if body.Errors[i].FieldName != field {
			t.Fatalf("violation %d = %s, want %s", i, body.Errors[i].FieldName, field)
		}
	}
	if body.Errors[1].Message != "A data do evento não pode ser passada" {
		t.Fatalf("date message = %q", body.Errors[1].Message)
	}
}
