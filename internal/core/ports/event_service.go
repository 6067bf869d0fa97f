package ports

import (
	"context"
	"time"
)

// CoordinatesInput carries optional geographic coordinates for a tracking event.
type CoordinatesInput struct {
	Lat float64
	Lng float64
}

// TrackingEventInput is the DTO passed from the transport layer to EventService.
type TrackingEventInput struct {
	OrderID     string
	Status      string
	Timestamp   time.Time
	Source      string
	Location    string
	Coordinates *CoordinatesInput // optional
}

// EventService processes incoming tracking events.
type EventService interface {
	Process(ctx context.Context, event TrackingEventInput) error
}
