package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/api/metrics"
	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const (
	defaultWorkers = 8
	defaultBuffer  = 256
)

// Dispatcher routes tracking events to a fixed set of workers using consistent
// hashing on the order id, guaranteeing per-order event ordering.
type Dispatcher struct {
	workers []chan ports.TrackingEventInput
	service ports.EventService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to queueSize events. Non-positive values fall back to the
// defaults.
func NewDispatcher(numWorkers, queueSize int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan ports.TrackingEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TrackingEventInput, queueSize)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its order. It blocks
// once that worker's buffer is full.
func (d *Dispatcher) Enqueue(event ports.TrackingEventInput) {
	idx := d.shardIndex(event.OrderID)
	d.workers[idx] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// EnqueueBatch enqueues multiple events preserving per-order ordering.
func (d *Dispatcher) EnqueueBatch(events []ports.TrackingEventInput) {
	for _, e := range events {
		d.Enqueue(e)
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TrackingEventInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.process(ctx, id, event)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, event ports.TrackingEventInput) {
	start := time.Now()
	err := d.service.Process(ctx, event)
	if err != nil {
		metrics.EventProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		metrics.EventsErrorsTotal.WithLabelValues(failureReason(err)).Inc()
		d.log.Error().Err(err).
			Str("order_id", event.OrderID).
			Int("worker_id", workerID).
			Msg("event processing failed")
		return
	}
	metrics.EventProcessingDuration.WithLabelValues(event.Status).Observe(time.Since(start).Seconds())
	metrics.EventsProcessedTotal.WithLabelValues(event.Status, event.Source).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "order_not_found"
	default:
		return "update_failed"
	}
}
