package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusInTransit  OrderStatus = "in_transit"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusInTransit},
	StatusInTransit:  {StatusDelivered},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")
var ErrDuplicateOrder = errors.New("order already exists")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}

// ShippingInfo is the delivery address and contact of an order.
type ShippingInfo struct {
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName" bson:"last_name"`
	Address   string `json:"address" bson:"address"`
	City      string `json:"city" bson:"city"`
	State     string `json:"state" bson:"state"`
	ZipCode   string `json:"zipCode" bson:"zip_code"`
	Country   string `json:"country" bson:"country"`
	Phone     string `json:"phone" bson:"phone"`
}

// PaymentInfo never holds more than the last four digits of a card.
type PaymentInfo struct {
	Method       string `json:"method" bson:"method"`
	CardName     string `json:"cardName,omitempty" bson:"card_name,omitempty"`
	CardLastFour string `json:"cardLastFour,omitempty" bson:"card_last_four,omitempty"`
}

// LocationUpdate records a single status/location change on an order.
type LocationUpdate struct {
	Status      OrderStatus  `json:"status" bson:"status"`
	Location    string       `json:"location,omitempty" bson:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Timestamp   time.Time    `json:"timestamp" bson:"timestamp"`
	Notes       string       `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Order is the checkout aggregate root.
type Order struct {
	ID                string           `json:"id" bson:"_id"`
	UserID            string           `json:"userId,omitempty" bson:"user_id,omitempty"`
	Status            OrderStatus      `json:"status" bson:"status"`
	Items             []OrderItem      `json:"items" bson:"items"`
	ShippingInfo      ShippingInfo     `json:"shippingInfo" bson:"shipping_info"`
	PaymentInfo       PaymentInfo      `json:"paymentInfo" bson:"payment_info"`
	Total             float64          `json:"total" bson:"total"`
	CreatedAt         time.Time        `json:"createdAt" bson:"created_at"`
	EstimatedDelivery time.Time        `json:"estimatedDelivery,omitzero" bson:"estimated_delivery"`
	StatusHistory     []LocationUpdate `json:"statusHistory,omitempty" bson:"status_history"`
}

// ItemsTotal sums price * quantity over the order lines.
func (o *Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Tracking is the read model served for an order's tracking page.
type Tracking struct {
	OrderID         string           `json:"orderId"`
	Status          OrderStatus      `json:"status"`
	CurrentLocation string           `json:"currentLocation"`
	Updates         []LocationUpdate `json:"updates"`
}

// TrackingFromOrder projects an order's status history into a Tracking view.
// The current location is the most recent non-empty location.
func TrackingFromOrder(o *Order) *Tracking {
	t := &Tracking{
		OrderID: o.ID,
		Status:  o.Status,
		Updates: make([]LocationUpdate, len(o.StatusHistory)),
	}
	copy(t.Updates, o.StatusHistory)
	for i := len(o.StatusHistory) - 1; i >= 0; i-- {
		if loc := o.StatusHistory[i].Location; loc != "" {
			t.CurrentLocation = loc
			break
		}
	}
	return t
}
