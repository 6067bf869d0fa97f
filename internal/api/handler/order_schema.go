package handler

import "time"

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// --- Request types ---

type orderItemRequest struct {
	ID       string  `json:"id"       validate:"required"`
	Name     string  `json:"name"     validate:"required"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price"    validate:"gte=0"`
}

type shippingInfoRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Address   string `json:"address"   validate:"required"`
	City      string `json:"city"      validate:"required"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"   validate:"required"`
	Phone     string `json:"phone"`
}

type paymentInfoRequest struct {
	Method       string `json:"method" validate:"required"`
	CardName     string `json:"cardName"`
	CardNumber   string `json:"cardNumber"`
	CardLastFour string `json:"cardLastFour"`
}

type createOrderRequest struct {
	Items        []orderItemRequest  `json:"items"        validate:"required,min=1,dive"`
	ShippingInfo shippingInfoRequest `json:"shippingInfo"`
	PaymentInfo  paymentInfoRequest  `json:"paymentInfo"`
}

// --- Response types ---
// Kept apart from domain.Order so storage tags never leak into the JSON contract.

type orderItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type shippingInfoResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

type paymentInfoResponse struct {
	Method       string `json:"method"`
	CardName     string `json:"cardName,omitempty"`
	CardLastFour string `json:"cardLastFour,omitempty"`
}

type coordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type locationUpdateResponse struct {
	Status      string               `json:"status"`
	Location    string               `json:"location,omitempty"`
	Coordinates *coordinatesResponse `json:"coordinates,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
	Notes       string               `json:"notes,omitempty"`
}

type orderResponse struct {
	ID                string                   `json:"id"`
	UserID            string                   `json:"userId,omitempty"`
	Status            string                   `json:"status"`
	Items             []orderItemResponse      `json:"items"`
	ShippingInfo      shippingInfoResponse     `json:"shippingInfo"`
	PaymentInfo       paymentInfoResponse      `json:"paymentInfo"`
	Total             float64                  `json:"total"`
	CreatedAt         time.Time                `json:"createdAt"`
	EstimatedDelivery time.Time                `json:"estimatedDelivery"`
	StatusHistory     []locationUpdateResponse `json:"statusHistory"`
}

type trackingResponse struct {
	OrderID         string                   `json:"orderId"`
	Status          string                   `json:"status"`
	CurrentLocation string                   `json:"currentLocation"`
	Updates         []locationUpdateResponse `json:"updates"`
}
