package event

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	var req CreateEventRequest
	if err := json.Unmarshal([]byte(`{"name":"Expo XP","date":"2026-11-15","cityId":1}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := req.Date.String(); got != "2026-11-15" {
		t.Fatalf("date = %s, want 2026-11-15", got)
	}

	out, err := json.Marshal(Event{ID: 3, Name: "Expo XP", Date: req.Date, URL: "https://expoxp.com.br", CityID: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"id":3,"name":"Expo XP","date":"2026-11-15","url":"https://expoxp.com.br","cityId":1}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestDateJSON_NullLeavesZero(t *testing.T) {
	var req CreateEventRequest
	if err := json.Unmarshal([]byte(`{"date":null,"cityId":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.Date.IsZero() {
		t.Fatalf("expected zero date, got %s", req.Date)
	}
	if req.CityID != nil {
		t.Fatalf("expected nil cityId, got %d", *req.CityID)
	}
}

func TestDateJSON_RejectsTimestamps(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2026-11-15T10:00:00Z"`), &d); err == nil {
		t.Fatalf("expected error for a timestamp")
	}
	if err := json.Unmarshal([]byte(`20261115`), &d); err == nil {
		t.Fatalf("expected error for a number")
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2026, time.October, 15, 23, 30, 0, 0, loc)

	if got := DateOf(at).String(); got != "2026-10-15" {
		t.Fatalf("DateOf = %s, want 2026-10-15", got)
	}
	if !NewDate(2026, time.September, 15).Before(DateOf(at)) {
		t.Fatalf("expected September to be before October")
	}
}
