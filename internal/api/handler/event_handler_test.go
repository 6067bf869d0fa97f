package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

type recordingDispatcher struct {
	events []ports.TrackingEventInput
}

func (d *recordingDispatcher) Enqueue(e ports.TrackingEventInput) {
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) EnqueueBatch(events []ports.TrackingEventInput) {
	d.events = append(d.events, events...)
}

func TestEventHandler_Receive(t *testing.T) {
	e := newEcho()
	d := &recordingDispatcher{}
	handler := NewEventHandler(d)

	body := `{"orderId":"ORD-1","status":"shipped","timestamp":"2026-03-01T12:00:00Z","source":"courier_app","location":"Durres hub","coordinates":{"lat":41.3,"lng":19.4}}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/tracking/events", body, "u-3", "delivery")

	if err := handler.Receive(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(d.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(d.events))
	}
	got := d.events[0]
	if got.OrderID != "ORD-1" || got.Status != "shipped" || got.Location != "Durres hub" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Coordinates == nil || got.Coordinates.Lng != 19.4 {
		t.Fatalf("coordinates not mapped: %+v", got.Coordinates)
	}
}

func TestEventHandler_Receive_UnknownStatus(t *testing.T) {
	e := newEcho()
	d := &recordingDispatcher{}
	handler := NewEventHandler(d)

	body := `{"orderId":"ORD-1","status":"lost","timestamp":"2026-03-01T12:00:00Z","source":"courier_app"}`
	c, _ := newJSONContext(e, http.MethodPost, "/api/tracking/events", body, "u-3", "delivery")

	if err := handler.Receive(c); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(d.events) != 0 {
		t.Fatalf("invalid event must not be enqueued")
	}
}

func TestEventHandler_ReceiveBatch(t *testing.T) {
	e := newEcho()
	d := &recordingDispatcher{}
	handler := NewEventHandler(d)

	body := `[
		{"orderId":"ORD-1","status":"processing","timestamp":"2026-03-01T12:00:00Z","source":"admin"},
		{"orderId":"ORD-1","status":"shipped","timestamp":"2026-03-01T13:00:00Z","source":"admin"}
	]`
	c, rec := newJSONContext(e, http.MethodPost, "/api/tracking/events/batch", body, "u-1", "admin")

	if err := handler.ReceiveBatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp acceptedResponse
	decode(t, rec, &resp)
	if resp.Count != 2 {
		t.Fatalf("expected count 2, got %d", resp.Count)
	}
	if d.events[0].Status != "processing" || d.events[1].Status != "shipped" {
		t.Fatalf("batch order not preserved: %+v", d.events)
	}
}

func TestEventHandler_ReceiveBatch_Empty(t *testing.T) {
	e := newEcho()
	handler := NewEventHandler(&recordingDispatcher{})

	c, _ := newJSONContext(e, http.MethodPost, "/api/tracking/events/batch", `[]`, "u-1", "admin")

	if code := httpCode(t, handler.ReceiveBatch(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestEventHandler_ReceiveBatch_OneInvalidRejectsAll(t *testing.T) {
	e := newEcho()
	d := &recordingDispatcher{}
	handler := NewEventHandler(d)

	body := `[
		{"orderId":"ORD-1","status":"processing","timestamp":"2026-03-01T12:00:00Z","source":"admin"},
		{"orderId":"","status":"shipped","timestamp":"2026-03-01T13:00:00Z","source":"admin"}
	]`
	c, _ := newJSONContext(e, http.MethodPost, "/api/tracking/events/batch", body, "u-1", "admin")

	err := handler.ReceiveBatch(c)
	if !domain.IsValidation(err) || !strings.HasPrefix(err.Error(), "event[1]:") {
		t.Fatalf("expected event[1] validation error, got %v", err)
	}
	if len(d.events) != 0 {
		t.Fatalf("no event may be enqueued when the batch is rejected")
	}
}
