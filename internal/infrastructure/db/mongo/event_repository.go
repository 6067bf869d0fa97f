package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const collectionTrackingEvents = "tracking_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{db: db}
}

// UpdateOrderStatus sets the order status and appends a history entry in one
// update. The filter includes the expected current status, so two events
// racing for the same transition cannot both apply.
func (r *EventRepository) UpdateOrderStatus(
	ctx context.Context,
	orderID string,
	from domain.OrderStatus,
	entry domain.LocationUpdate,
) error {
	entry.Timestamp = entry.Timestamp.UTC()

	filter := bson.M{"_id": orderID, "status": string(from)}
	update := bson.M{
		"$set":  bson.M{"status": string(entry.Status)},
		"$push": bson.M{"status_history": entry},
	}

	res, err := r.db.Collection(collectionOrders).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.db.Collection(collectionOrders).CountDocuments(ctx, bson.M{"_id": orderID})
		if err != nil {
			return fmt.Errorf("count order: %w", err)
		}
		if n == 0 {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("%w: order %s is no longer %s", domain.ErrInvalidTransition, orderID, from)
	}
	return nil
}

// InsertEvent persists a tracking event to the tracking_events audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.TrackingEvent) error {
	doc := bson.M{
		"order_id":     event.OrderID,
		"status":       string(event.Status),
		"timestamp":    event.Timestamp.UTC(),
		"source":       event.Source,
		"processed_at": time.Now().UTC(),
	}
	if event.Location != "" {
		doc["location"] = event.Location
	}
	if event.Coordinates != nil {
		doc["coordinates"] = bson.M{
			"lat": event.Coordinates.Lat,
			"lng": event.Coordinates.Lng,
		}
	}

	_, err := r.db.Collection(collectionTrackingEvents).InsertOne(ctx, doc)
	return err
}
