package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"realtimesales/domain"
	"realtimesales/metrics"

	"github.com/sirupsen/logrus"
)

var (
	// ErrBufferFull is returned when the mirror buffer channel is full
	ErrBufferFull = errors.New("order mirror buffer is full")
)

// OrderSink receives batches of orders for the sales history mirror
type OrderSink interface {
	SaveOrders(ctx context.Context, orders []domain.Order) error
}

// MirrorMarkers remembers which orders already reached the mirror
type MirrorMarkers interface {
	AreOrdersMirrored(ctx context.Context, orders []domain.Order) (map[string]bool, error)
	SetOrdersMirrored(ctx context.Context, orders []domain.Order) error
}

// OrderBatcher batches orders and flushes them to the sales mirror
type OrderBatcher struct {
	orderChan     chan domain.Order
	batchSize     int
	flushInterval time.Duration
	sink          OrderSink
	markers       MirrorMarkers
	metrics       *metrics.Registry
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
	isRunning     bool
	currentBatch  []domain.Order
	onFailure     func(orders []domain.Order)
}

// NewOrderBatcher creates a new OrderBatcher instance
func NewOrderBatcher(
	capacity int,
	batchSize int,
	flushIntervalSeconds int,
	sink OrderSink,
	markers MirrorMarkers,
	m *metrics.Registry,
) *OrderBatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &OrderBatcher{
		orderChan:     make(chan domain.Order, capacity),
		batchSize:     batchSize,
		flushInterval: time.Duration(flushIntervalSeconds) * time.Second,
		sink:          sink,
		markers:       markers,
		metrics:       m,
		ctx:           ctx,
		cancel:        cancel,
		currentBatch:  make([]domain.Order, 0, batchSize),
	}
}

// Start launches the background worker goroutine that processes orders
func (b *OrderBatcher) Start() {
	b.mu.Lock()
	if b.isRunning {
		b.mu.Unlock()
		return
	}
	b.isRunning = true
	b.mu.Unlock()

	b.wg.Add(1)
	go b.worker()
	logrus.Info("OrderBatcher started")
}

// Enqueue adds an order to the buffer channel (non-blocking)
// Returns ErrBufferFull if the channel is full
func (b *OrderBatcher) Enqueue(order domain.Order) error {
	select {
	case b.orderChan <- order:
		b.metrics.MirrorBuffer.Set(float64(len(b.orderChan)))
		return nil
	default:
		return ErrBufferFull
	}
}

// worker is the background goroutine that collects orders and flushes them
func (b *OrderBatcher) worker() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			b.flushRemaining()
			return

		case order := <-b.orderChan:
			b.mu.Lock()
			b.currentBatch = append(b.currentBatch, order)
			shouldFlush := len(b.currentBatch) >= b.batchSize
			b.mu.Unlock()

			if shouldFlush {
				b.flushBatch()
			}

		case <-ticker.C:
			b.mu.Lock()
			hasOrders := len(b.currentBatch) > 0
			b.mu.Unlock()

			if hasOrders {
				b.flushBatch()
			}
		}
	}
}

// flushBatch writes the current batch to the mirror
func (b *OrderBatcher) flushBatch() {
	b.mu.Lock()
	if len(b.currentBatch) == 0 {
		b.mu.Unlock()
		return
	}

	// Copy batch and clear current batch
	batch := make([]domain.Order, len(b.currentBatch))
	copy(batch, b.currentBatch)
	b.currentBatch = b.currentBatch[:0]
	b.mu.Unlock()
	b.metrics.MirrorBuffer.Set(float64(len(b.orderChan)))

	pending := b.filterMirroredOrders(batch)
	if len(pending) == 0 {
		logrus.Debugf("OrderBatcher: all %d orders in batch were already mirrored", len(batch))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.sink.SaveOrders(ctx, pending); err != nil {
		b.metrics.MirrorFailed.Add(float64(len(pending)))
		logrus.WithError(err).Errorf("OrderBatcher: failed to flush batch of %d orders", len(pending))
		b.mu.Lock()
		onFailure := b.onFailure
		b.mu.Unlock()
		if onFailure != nil {
			onFailure(pending)
		}
		return
	}
	b.metrics.MirrorFlushed.Add(float64(len(pending)))
	logrus.Infof("OrderBatcher: flushed batch of %d orders (filtered from %d)", len(pending), len(batch))

	if err := b.markers.SetOrdersMirrored(ctx, pending); err != nil {
		logrus.WithError(err).Warn("OrderBatcher: failed to mark orders as mirrored")
	}
}

// flushRemaining flushes any remaining orders in the buffer during shutdown
func (b *OrderBatcher) flushRemaining() {
	b.mu.Lock()
	remaining := len(b.currentBatch)
	b.mu.Unlock()

	if remaining > 0 {
		logrus.Infof("OrderBatcher: flushing %d remaining orders during shutdown", remaining)
		b.flushBatch()
	}

	// Drain any remaining orders from the channel
	drained := 0
	for {
		select {
		case order := <-b.orderChan:
			b.mu.Lock()
			b.currentBatch = append(b.currentBatch, order)
			b.mu.Unlock()
			drained++
		default:
			if drained > 0 {
				logrus.Infof("OrderBatcher: drained %d orders from channel during shutdown", drained)
				b.flushBatch()
			}
			return
		}
	}
}

// filterMirroredOrders drops orders the mirror already holds, and duplicates
// within the batch
func (b *OrderBatcher) filterMirroredOrders(orders []domain.Order) []domain.Order {
	seen := make(map[string]struct{}, len(orders))
	unique := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if _, dup := seen[order.ID]; dup {
			continue
		}
		seen[order.ID] = struct{}{}
		unique = append(unique, order)
	}

	mirrored, err := b.markers.AreOrdersMirrored(context.Background(), unique)
	if err != nil {
		// The table collapses duplicates, so sending everything is safe
		logrus.WithError(err).Warn("OrderBatcher: Redis check failed, assuming no orders are mirrored")
		return unique
	}

	pending := make([]domain.Order, 0, len(unique))
	for _, order := range unique {
		if !mirrored[order.ID] {
			pending = append(pending, order)
		}
	}
	return pending
}

// Shutdown gracefully shuts down the batcher, flushing remaining orders
func (b *OrderBatcher) Shutdown() error {
	b.mu.Lock()
	if !b.isRunning {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	logrus.Info("OrderBatcher: initiating graceful shutdown...")
	b.cancel()
	b.wg.Wait()
	logrus.Info("OrderBatcher: shutdown complete")
	return nil
}

// GetBufferSize returns the current number of orders in the buffer channel
func (b *OrderBatcher) GetBufferSize() int {
	return len(b.orderChan)
}

// GetBatchSize returns the current number of orders in the pending batch
func (b *OrderBatcher) GetBatchSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.currentBatch)
}

// MirrorOrders feeds published snapshots into the batcher until ctx is done.
// See orderFeed for what gets enqueued.
func MirrorOrders(ctx context.Context, store *OrderStore, batcher *OrderBatcher) {
	feed := newOrderFeed(batcher)
	snapshots, unsubscribe := store.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			feed.push(ctx, snap.Orders)
		}
	}
}

// orderFeed enqueues each order once, oldest first. Orders already marked as
// mirrored never take a buffer slot. When the buffer fills up the rest wait
// for the next snapshot, and orders from a failed flush are enqueued again
// with the next snapshot.
type orderFeed struct {
	batcher *OrderBatcher

	mu   sync.Mutex
	sent map[string]struct{}
}

func newOrderFeed(batcher *OrderBatcher) *orderFeed {
	f := &orderFeed{
		batcher: batcher,
		sent:    make(map[string]struct{}),
	}
	batcher.mu.Lock()
	batcher.onFailure = f.forget
	batcher.mu.Unlock()
	return f
}

func (f *orderFeed) push(ctx context.Context, orders []domain.Order) {
	room := cap(f.batcher.orderChan) - len(f.batcher.orderChan)
	pending := f.dropMirrored(ctx, f.unsent(orders), room)

	for i, order := range pending {
		// marked before Enqueue so a fast failing flush can still forget it
		f.markSent(order.ID)
		if err := f.batcher.Enqueue(order); err != nil {
			f.forget([]domain.Order{order})
			logrus.WithError(err).Warnf("OrderFeed: %d orders left for the next snapshot", len(pending)-i)
			return
		}
	}
}

// unsent returns the orders not yet enqueued, oldest first. Snapshots list
// the most recent order first.
func (f *orderFeed) unsent(orders []domain.Order) []domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Order, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		if _, ok := f.sent[orders[i].ID]; !ok {
			out = append(out, orders[i])
		}
	}
	return out
}

// dropMirrored removes orders the markers already know about and remembers
// them as sent. It stops once limit orders are left to enqueue. On a Redis
// error the orders are kept; flushes filter again.
func (f *orderFeed) dropMirrored(ctx context.Context, orders []domain.Order, limit int) []domain.Order {
	chunk := f.batcher.batchSize
	if chunk <= 0 {
		chunk = len(orders)
	}

	out := make([]domain.Order, 0, min(len(orders), max(limit, 0)))
	for start := 0; start < len(orders) && len(out) < limit; start += chunk {
		end := min(start+chunk, len(orders))
		part := orders[start:end]

		mirrored, err := f.batcher.markers.AreOrdersMirrored(ctx, part)
		if err != nil {
			logrus.WithError(err).Warn("OrderFeed: Redis check failed, enqueueing without it")
			return append(out, orders[start:]...)
		}
		for _, order := range part {
			if mirrored[order.ID] {
				f.markSent(order.ID)
				continue
			}
			out = append(out, order)
		}
	}
	return out
}

func (f *orderFeed) markSent(id string) {
	f.mu.Lock()
	f.sent[id] = struct{}{}
	f.mu.Unlock()
}

func (f *orderFeed) forget(orders []domain.Order) {
	f.mu.Lock()
	for _, order := range orders {
		delete(f.sent, order.ID)
	}
	f.mu.Unlock()
}
