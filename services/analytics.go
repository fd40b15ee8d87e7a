package services

import (
	"context"
	"fmt"
	"time"

	"realtimesales/analytics"
	"realtimesales/domain"
	"realtimesales/metrics"
)

var _ domain.AnalyticsService = &analyticsService{}

type analyticsService struct {
	store      *OrderStore
	aggregator *analytics.Aggregator
	metrics    *metrics.Registry
	now        func() time.Time
}

// summarize computes the summary for one snapshot at a single instant
func (a analyticsService) summarize(orders []domain.Order) (domain.AnalyticsSummary, time.Time) {
	now := a.now()
	start := time.Now()
	summary := a.aggregator.Summarize(orders, now)
	a.metrics.AnalyticsLatency.Observe(time.Since(start).Seconds())
	return summary, now
}

func (a analyticsService) GetAnalytics(ctx context.Context) (*domain.AnalyticsResponse, error) {
	summary, computedAt := a.summarize(a.store.Snapshot().Orders)
	return &domain.AnalyticsResponse{
		Success:    true,
		Message:    "Analytics computed successfully",
		Loading:    a.store.Loading(),
		ComputedAt: computedAt,
		Analytics:  summary,
	}, nil
}

// Watch emits the current summary, then a fresh one after every change of
// the order collection. The channel is closed once ctx is done.
func (a analyticsService) Watch(ctx context.Context) <-chan domain.AnalyticsSummary {
	out := make(chan domain.AnalyticsSummary, 1)
	snapshots, unsubscribe := a.store.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		emit := func(orders []domain.Order) bool {
			summary, _ := a.summarize(orders)
			select {
			case out <- summary:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(a.store.Snapshot().Orders) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snapshots:
				if !ok || !emit(snap.Orders) {
					return
				}
			}
		}
	}()

	return out
}

// NewAnalyticsService returns a domain.AnalyticsService reading from store
func NewAnalyticsService(store *OrderStore, aggregator *analytics.Aggregator, m *metrics.Registry) (domain.AnalyticsService, error) {
	if store == nil {
		return nil, fmt.Errorf("order store cannot be nil")
	}
	if aggregator == nil {
		aggregator = analytics.NewAggregator()
	}
	if m == nil {
		return nil, fmt.Errorf("metrics registry cannot be nil")
	}
	return &analyticsService{
		store:      store,
		aggregator: aggregator,
		metrics:    m,
		now:        time.Now,
	}, nil
}
