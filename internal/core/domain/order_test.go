package domain

import (
	"testing"
	"time"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusInTransit, true},
		{StatusShipped, StatusCancelled, false},
		{StatusInTransit, StatusDelivered, true},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTrackingFromOrder(t *testing.T) {
	now := time.Now()
	o := &Order{
		ID:     "o1",
		Status: StatusInTransit,
		StatusHistory: []LocationUpdate{
			{Status: StatusPending, Location: "Warehouse", Timestamp: now.Add(-2 * time.Hour)},
			{Status: StatusShipped, Location: "Durres", Timestamp: now.Add(-time.Hour)},
			{Status: StatusInTransit, Timestamp: now},
		},
	}

	tr := TrackingFromOrder(o)
	if tr.CurrentLocation != "Durres" {
		t.Errorf("current location = %q, want Durres", tr.CurrentLocation)
	}
	if len(tr.Updates) != 3 || tr.Status != StatusInTransit {
		t.Fatalf("unexpected tracking: %+v", tr)
	}

	tr.Updates[0].Location = "changed"
	if o.StatusHistory[0].Location != "Warehouse" {
		t.Error("tracking must not alias the order history")
	}
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := Order{Items: []OrderItem{{Quantity: 2, Price: 19.99}, {Quantity: 1, Price: 5}}}
	if got := o.ItemsTotal(); got < 44.979 || got > 44.981 {
		t.Errorf("total = %v", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("Ana", "Hoxha", "ana", "a@b.c"); got != "Ana Hoxha" {
		t.Errorf("got %q", got)
	}
	if got := DisplayName("", "Hoxha", "", "a@b.c"); got != "a@b.c" {
		t.Errorf("got %q", got)
	}
	if !RoleDelivery.IsValid() || Role("root").IsValid() {
		t.Error("role validity")
	}
}
