package domain

import "time"

// TrackingEvent represents a status update reported by a courier or an admin.
type TrackingEvent struct {
	OrderID     string
	Status      OrderStatus
	Timestamp   time.Time
	Source      string
	Location    string
	Coordinates *Coordinates // optional
}
