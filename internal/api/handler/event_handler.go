package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// EventDispatcher is the interface the handler uses to enqueue events.
type EventDispatcher interface {
	Enqueue(event ports.TrackingEventInput)
	EnqueueBatch(events []ports.TrackingEventInput)
}

// EventHandler handles tracking event ingestion.
type EventHandler struct {
	dispatcher EventDispatcher
}

// NewEventHandler creates an EventHandler backed by the given dispatcher.
func NewEventHandler(dispatcher EventDispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

// Receive handles POST /tracking/events: enqueues a single event, returns 202.
//
// @Summary      Ingest a single tracking event
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      trackingEventRequest  true  "Tracking event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /tracking/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	var req trackingEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	h.dispatcher.Enqueue(toEventInput(req))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /tracking/events/batch: enqueues a batch of
// events in order, returns 202. One invalid event rejects the whole batch.
//
// @Summary      Ingest a batch of tracking events
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []trackingEventRequest  true  "Array of tracking events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /tracking/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []trackingEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("batch cannot exceed %d events", maxBatchSize))
	}

	inputs := make([]ports.TrackingEventInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return domain.NewValidationError(fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toEventInput(req))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   len(inputs),
	})
}

// toEventInput maps the HTTP request to the service DTO.
func toEventInput(r trackingEventRequest) ports.TrackingEventInput {
	in := ports.TrackingEventInput{
		OrderID:   r.OrderID,
		Status:    r.Status,
		Timestamp: r.Timestamp,
		Source:    r.Source,
		Location:  r.Location,
	}
	if r.Coordinates != nil {
		in.Coordinates = &ports.CoordinatesInput{Lat: r.Coordinates.Lat, Lng: r.Coordinates.Lng}
	}
	return in
}
