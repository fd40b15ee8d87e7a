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

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRepo wraps a repository and fails List or Append on demand
type flakyRepo struct {
	domain.OrderRepository

	mu         sync.Mutex
	failList   bool
	failAppend bool
	lists      int
}

func (f *flakyRepo) setFailList(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failList = v
}

func (f *flakyRepo) List(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	f.lists++
	fail := f.failList
	f.mu.Unlock()
	if fail {
		return nil, errors.New("backend unavailable")
	}
	return f.OrderRepository.List(ctx)
}

func (f *flakyRepo) Append(ctx context.Context, input domain.OrderInput) (domain.Order, error) {
	if f.failAppend {
		return domain.Order{}, errors.New("write rejected")
	}
	return f.OrderRepository.Append(ctx, input)
}

func newTestStore(t *testing.T, policy string) (*OrderStore, *flakyRepo, *metrics.Registry) {
	t.Helper()
	clock := time.Date(2025, 11, 22, 10, 0, 0, 0, time.UTC)
	repo := &flakyRepo{OrderRepository: database.NewMemoryOrders(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})}
	m := metrics.NewRegistry()
	return NewOrderStore(repo, policy, m), repo, m
}

func TestOrderStore_RefreshReplacesCollection(t *testing.T) {
	store, repo, m := newTestStore(t, config.WritePolicyRefresh)
	ctx := context.Background()

	_, err := repo.OrderRepository.Append(ctx, domain.OrderInput{ProductName: "Tea", Price: 2, Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, store.Orders())

	require.NoError(t, store.Refresh(ctx))

	assert.Len(t, store.Orders(), 1)
	assert.Equal(t, uint64(1), store.Snapshot().Version)
	assert.False(t, store.Loading())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderRefreshes.WithLabelValues("success")))
}

func TestOrderStore_FailedRefreshKeepsPrevious(t *testing.T) {
	store, repo, m := newTestStore(t, config.WritePolicyRefresh)
	ctx := context.Background()

	_, err := store.Append(ctx, domain.OrderInput{ProductName: "Tea", Price: 2, Quantity: 1})
	require.NoError(t, err)
	before := store.Snapshot()

	repo.setFailList(true)
	assert.Error(t, store.Refresh(ctx))

	after := store.Snapshot()
	assert.Equal(t, before.Version, after.Version)
	assert.Equal(t, before.Orders, after.Orders)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderRefreshes.WithLabelValues("failure")))
}

func TestOrderStore_AppendRefreshesAfterWrite(t *testing.T) {
	store, repo, _ := newTestStore(t, config.WritePolicyRefresh)
	ctx := context.Background()

	// written by another client, only visible after a re-read
	_, err := repo.OrderRepository.Append(ctx, domain.OrderInput{ProductName: "Other", Price: 1, Quantity: 1})
	require.NoError(t, err)

	order, err := store.Append(ctx, domain.OrderInput{ProductName: "Tea", Price: 2, Quantity: 3})
	require.NoError(t, err)

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, order, orders[0])
	assert.Equal(t, 1, repo.lists)
}

func TestOrderStore_AppendSurvivesRefreshFailure(t *testing.T) {
	store, repo, _ := newTestStore(t, config.WritePolicyRefresh)
	repo.setFailList(true)

	order, err := store.Append(context.Background(), domain.OrderInput{ProductName: "Tea", Price: 2, Quantity: 3})

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Empty(t, store.Orders())
}

func TestOrderStore_AppendFailure(t *testing.T) {
	store, repo, _ := newTestStore(t, config.WritePolicyRefresh)
	repo.failAppend = true

	_, err := store.Append(context.Background(), domain.OrderInput{ProductName: "Tea", Price: 2, Quantity: 3})

	assert.Error(t, err)
	assert.Equal(t, 0, repo.lists)
}

func TestOrderStore_OptimisticAppend(t *testing.T) {
	store, repo, _ := newTestStore(t, config.WritePolicyOptimistic)
	ctx := context.Background()

	first, err := store.Append(ctx, domain.OrderInput{ProductName: "A", Price: 1, Quantity: 1})
	require.NoError(t, err)
	second, err := store.Append(ctx, domain.OrderInput{ProductName: "B", Price: 1, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, []domain.Order{second, first}, store.Orders())
	assert.Equal(t, 0, repo.lists)
	assert.Equal(t, uint64(2), store.Snapshot().Version)
}

func TestOrderStore_SubscribeReceivesLatest(t *testing.T) {
	store, _, _ := newTestStore(t, config.WritePolicyRefresh)
	ctx := context.Background()

	ch, cancel := store.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, domain.OrderInput{ProductName: "Tea", Price: 1, Quantity: 1})
		require.NoError(t, err)
	}

	select {
	case snap := <-ch:
		assert.Equal(t, uint64(3), snap.Version)
		assert.Len(t, snap.Orders, 3)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot")
	}

	select {
	case snap := <-ch:
		t.Fatalf("unexpected extra snapshot: %d", snap.Version)
	default:
	}
}

func TestOrderStore_UnsubscribeClosesChannel(t *testing.T) {
	store, _, _ := newTestStore(t, config.WritePolicyRefresh)

	ch, cancel := store.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	require.NoError(t, store.Refresh(context.Background()))
}
