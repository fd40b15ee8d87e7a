package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"realtimesales/config"
	"realtimesales/database"
	"realtimesales/domain"
	"realtimesales/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	batches [][]domain.Order
	err     error
	// failures fails that many calls before accepting batches
	failures int
	delay    time.Duration
}

func (s *recordingSink) SaveOrders(ctx context.Context, orders []domain.Order) error {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.failures > 0 {
		s.failures--
		return errors.New("clickhouse timeout")
	}
	s.batches = append(s.batches, append([]domain.Order(nil), orders...))
	return nil
}

func (s *recordingSink) firstBatch() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.batches) == 0 {
		return nil
	}
	return orderIDs(s.batches[0])
}

func orderIDs(orders []domain.Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, batch := range s.batches {
		for _, o := range batch {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func newMarkers(t *testing.T) database.SalesRedis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return database.NewSalesRedis(client, 60_000)
}

func TestOrderBatcher_FlushesOnShutdown(t *testing.T) {
	sink := &recordingSink{}
	markers := newMarkers(t)
	m := metrics.NewRegistry()
	b := NewOrderBatcher(10, 100, 60, sink, markers, m)
	b.Start()

	require.NoError(t, b.Enqueue(domain.Order{ID: "o1"}))
	require.NoError(t, b.Enqueue(domain.Order{ID: "o2"}))
	require.NoError(t, b.Enqueue(domain.Order{ID: "o1"}))
	require.NoError(t, b.Shutdown())

	assert.ElementsMatch(t, []string{"o1", "o2"}, sink.ids())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MirrorFlushed))

	mirrored, err := markers.AreOrdersMirrored(context.Background(), []domain.Order{{ID: "o1"}, {ID: "o2"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"o1": true, "o2": true}, mirrored)
}

func TestOrderBatcher_SkipsMirroredOrders(t *testing.T) {
	sink := &recordingSink{}
	markers := newMarkers(t)
	require.NoError(t, markers.SetOrdersMirrored(context.Background(), []domain.Order{{ID: "old"}}))

	b := NewOrderBatcher(10, 2, 60, sink, markers, metrics.NewRegistry())
	b.Start()
	require.NoError(t, b.Enqueue(domain.Order{ID: "old"}))
	require.NoError(t, b.Enqueue(domain.Order{ID: "new"}))

	assert.Eventually(t, func() bool { return len(sink.ids()) == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, b.Shutdown())
	assert.Equal(t, []string{"new"}, sink.ids())
}

func TestOrderBatcher_FailedFlushNotMarked(t *testing.T) {
	sink := &recordingSink{err: errors.New("clickhouse down")}
	markers := newMarkers(t)
	m := metrics.NewRegistry()
	b := NewOrderBatcher(10, 1, 60, sink, markers, m)
	b.Start()

	require.NoError(t, b.Enqueue(domain.Order{ID: "o1"}))
	require.NoError(t, b.Shutdown())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MirrorFailed))
	mirrored, err := markers.AreOrdersMirrored(context.Background(), []domain.Order{{ID: "o1"}})
	require.NoError(t, err)
	assert.False(t, mirrored["o1"])
}

func TestOrderBatcher_BufferFull(t *testing.T) {
	b := NewOrderBatcher(1, 10, 60, &recordingSink{}, newMarkers(t), metrics.NewRegistry())

	require.NoError(t, b.Enqueue(domain.Order{ID: "o1"}))
	assert.ErrorIs(t, b.Enqueue(domain.Order{ID: "o2"}), ErrBufferFull)
	assert.Equal(t, 1, b.GetBufferSize())
	assert.Equal(t, 0, b.GetBatchSize())
}

func TestMirrorOrders_FeedsSnapshots(t *testing.T) {
	store, _, _ := newTestStore(t, config.WritePolicyRefresh)
	sink := &recordingSink{}
	b := NewOrderBatcher(10, 1, 60, sink, newMarkers(t), metrics.NewRegistry())
	b.Start()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MirrorOrders(ctx, store, b)
		close(done)
	}()

	// wait for the subscription before publishing
	assert.Eventually(t, func() bool {
		store.subMu.Lock()
		defer store.subMu.Unlock()
		return len(store.subs) == 1
	}, time.Second, 5*time.Millisecond)

	order, err := store.Append(context.Background(), domain.OrderInput{ProductName: "Tea", Price: 1, Quantity: 1})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(sink.ids()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{order.ID}, sink.ids())

	cancel()
	<-done
	require.NoError(t, b.Shutdown())
}

// startMirror runs MirrorOrders until the test ends and waits for its subscription
func startMirror(t *testing.T, store *OrderStore, b *OrderBatcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MirrorOrders(ctx, store, b)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		store.subMu.Lock()
		defer store.subMu.Unlock()
		return len(store.subs) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestMirrorOrders_CollectionLargerThanBuffer(t *testing.T) {
	store, repo, _ := newTestStore(t, config.WritePolicyRefresh)
	ctx := context.Background()

	var appended []string
	for i := 0; i < 40; i++ {
		order, err := repo.OrderRepository.Append(ctx, domain.OrderInput{ProductName: "Tea", Price: 1, Quantity: 1})
		require.NoError(t, err)
		appended = append(appended, order.ID)
	}

	sink := &recordingSink{delay: 5 * time.Millisecond}
	b := NewOrderBatcher(10, 5, 1, sink, newMarkers(t), metrics.NewRegistry())
	b.Start()
	startMirror(t, store, b)

	assert.Eventually(t, func() bool {
		_ = store.Refresh(ctx)
		return len(sink.ids()) == len(appended)
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, b.Shutdown())
	assert.ElementsMatch(t, appended, sink.ids())
	// oldest orders go first
	assert.Equal(t, appended[:5], sink.firstBatch())
}

func TestOrderFeed_ResumesAfterFullBuffer(t *testing.T) {
	b := NewOrderBatcher(3, 3, 60, &recordingSink{}, newMarkers(t), metrics.NewRegistry())
	feed := newOrderFeed(b)
	ctx := context.Background()

	// snapshots list the newest order first
	snapshot := []domain.Order{{ID: "o6"}, {ID: "o5"}, {ID: "o4"}, {ID: "o3"}, {ID: "o2"}, {ID: "o1"}}

	feed.push(ctx, snapshot)
	assert.Equal(t, []string{"o1", "o2", "o3"}, drain(b))

	feed.push(ctx, snapshot)
	assert.Equal(t, []string{"o4", "o5", "o6"}, drain(b))

	feed.push(ctx, snapshot)
	assert.Empty(t, drain(b))
}

func TestOrderFeed_SkipsMirroredOrders(t *testing.T) {
	markers := newMarkers(t)
	ctx := context.Background()
	require.NoError(t, markers.SetOrdersMirrored(ctx, []domain.Order{{ID: "o1"}, {ID: "o2"}}))

	b := NewOrderBatcher(2, 2, 60, &recordingSink{}, markers, metrics.NewRegistry())
	feed := newOrderFeed(b)

	feed.push(ctx, []domain.Order{{ID: "o4"}, {ID: "o3"}, {ID: "o2"}, {ID: "o1"}})

	assert.Equal(t, 2, b.GetBufferSize())
	assert.Equal(t, []string{"o3", "o4"}, drain(b))
}

func TestMirrorOrders_RetriesFailedFlush(t *testing.T) {
	store, repo, _ := newTestStore(t, config.WritePolicyRefresh)
	ctx := context.Background()

	var appended []string
	for i := 0; i < 2; i++ {
		order, err := repo.OrderRepository.Append(ctx, domain.OrderInput{ProductName: "Tea", Price: 1, Quantity: 1})
		require.NoError(t, err)
		appended = append(appended, order.ID)
	}

	sink := &recordingSink{failures: 1}
	m := metrics.NewRegistry()
	b := NewOrderBatcher(10, 2, 60, sink, newMarkers(t), m)
	b.Start()
	startMirror(t, store, b)

	require.NoError(t, store.Refresh(ctx))
	assert.Eventually(t, func() bool { return testutil.ToFloat64(m.MirrorFailed) == 2 }, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_ = store.Refresh(ctx)
		return len(sink.ids()) == 2
	}, 2*time.Second, 50*time.Millisecond)

	require.NoError(t, b.Shutdown())
	assert.ElementsMatch(t, appended, sink.ids())
}

// drain empties the buffer of a batcher that was never started
func drain(b *OrderBatcher) []string {
	var ids []string
	for {
		select {
		case order := <-b.orderChan:
			ids = append(ids, order.ID)
		default:
			return ids
		}
	}
}
