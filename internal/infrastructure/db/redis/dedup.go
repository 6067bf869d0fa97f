package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopfront/storefront/internal/api/metrics"
)

const dedupTTL = time.Hour

// DedupChecker remembers processed tracking events.
// Key format: dedup:<order_id>:<status>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact event has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, orderID, status string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(orderID, status, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()
	return false, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, orderID, status string, ts time.Time) error {
	return d.client.Set(ctx, dedupKey(orderID, status, ts), "1", dedupTTL).Err()
}

func dedupKey(orderID, status string, ts time.Time) string {
	return fmt.Sprintf("dedup:%s:%s:%d", orderID, status, ts.Unix())
}
