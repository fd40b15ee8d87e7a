package services

import (
	"context"
	"sync"
	"time"

	"realtimesales/config"
	"realtimesales/domain"
	"realtimesales/metrics"

	"github.com/sirupsen/logrus"
)

// OrderStore holds the in-memory order collection shared by every reader.
// A successful Refresh replaces the whole collection at once; a failed one
// leaves the previous collection in place.
type OrderStore struct {
	repo        domain.OrderRepository
	writePolicy string
	metrics     *metrics.Registry
	now         func() time.Time

	mu          sync.RWMutex
	orders      []domain.Order
	version     uint64
	refreshedAt time.Time
	inflight    int

	subMu   sync.Mutex
	subs    map[uint64]chan domain.OrderSnapshot
	nextSub uint64
}

func NewOrderStore(repo domain.OrderRepository, writePolicy string, m *metrics.Registry) *OrderStore {
	if writePolicy == "" {
		writePolicy = config.WritePolicyRefresh
	}
	return &OrderStore{
		repo:        repo,
		writePolicy: writePolicy,
		metrics:     m,
		now:         time.Now,
		orders:      []domain.Order{},
		subs:        make(map[uint64]chan domain.OrderSnapshot),
	}
}

// Refresh re-reads the full collection from the repository
func (s *OrderStore) Refresh(ctx context.Context) error {
	s.setLoading(1)
	defer s.setLoading(-1)

	orders, err := s.repo.List(ctx)
	if err != nil {
		s.metrics.OrderRefreshes.WithLabelValues("failure").Inc()
		logrus.WithError(err).Error("OrderStore: error fetching orders")
		return err
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	s.mu.Lock()
	s.orders = orders
	s.version++
	s.refreshedAt = s.now()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.OrderRefreshes.WithLabelValues("success").Inc()
	s.metrics.OrdersInMemory.Set(float64(len(orders)))
	s.publish(snap)
	return nil
}

// Append persists one order. Under the refresh policy the collection is then
// re-read in full before returning; under the optimistic policy the stored
// order is prepended locally. A failed re-read does not fail the append.
func (s *OrderStore) Append(ctx context.Context, input domain.OrderInput) (domain.Order, error) {
	order, err := s.repo.Append(ctx, input)
	if err != nil {
		logrus.WithError(err).Error("OrderStore: error adding order")
		return domain.Order{}, err
	}

	switch s.writePolicy {
	case config.WritePolicyOptimistic:
		s.mu.Lock()
		s.orders = append([]domain.Order{order}, s.orders...)
		s.version++
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.metrics.OrdersInMemory.Set(float64(len(snap.Orders)))
		s.publish(snap)
	default:
		if err := s.Refresh(ctx); err != nil {
			logrus.WithField("order_id", order.ID).
				Warn("OrderStore: order stored but collection refresh failed")
		}
	}

	return order, nil
}

// Orders returns a copy of the current collection, most recent first
func (s *OrderStore) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Snapshot returns the current collection with its version. The slice is
// shared and must not be modified.
func (s *OrderStore) Snapshot() domain.OrderSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Loading reports whether a fetch is in flight
func (s *OrderStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only see the most recent one. The returned func
// unsubscribes and closes the channel.
func (s *OrderStore) Subscribe() (<-chan domain.OrderSnapshot, func()) {
	ch := make(chan domain.OrderSnapshot, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
}

func (s *OrderStore) snapshotLocked() domain.OrderSnapshot {
	return domain.OrderSnapshot{
		Orders:      s.orders,
		Version:     s.version,
		RefreshedAt: s.refreshedAt,
	}
}

func (s *OrderStore) setLoading(delta int) {
	s.mu.Lock()
	s.inflight += delta
	s.mu.Unlock()
}

func (s *OrderStore) publish(snap domain.OrderSnapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// replace the stale snapshot nobody has read yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
