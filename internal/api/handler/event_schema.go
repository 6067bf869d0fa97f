package handler

import "time"

const maxBatchSize = 500

type coordinatesRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type trackingEventRequest struct {
	OrderID     string              `json:"orderId"     validate:"required"`
	Status      string              `json:"status"      validate:"required,oneof=processing shipped in_transit delivered cancelled"`
	Timestamp   time.Time           `json:"timestamp"   validate:"required"`
	Source      string              `json:"source"      validate:"required"`
	Location    string              `json:"location"`
	Coordinates *coordinatesRequest `json:"coordinates"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}
