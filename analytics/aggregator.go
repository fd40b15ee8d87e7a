// Package analytics computes the sales summary shown on the dashboard from the
// full order history.
package analytics

import (
	"sort"
	"time"

	"realtimesales/domain"
)

const (
	TopSellingLimit  = 5
	HighRevenueLimit = 3

	RecentWindow          = time.Hour
	UnderperformingWindow = 7 * 24 * time.Hour

	// UnderperformingThreshold is the exclusive upper bound on units sold
	// inside UnderperformingWindow.
	UnderperformingThreshold = 5
)

// InvalidRecordFunc receives every record skipped by Summarize
type InvalidRecordFunc func(order domain.Order, err error)

type Option func(*Aggregator)

// WithInvalidRecordHook installs the callback used to report skipped records
func WithInvalidRecordHook(fn InvalidRecordFunc) Option {
	return func(a *Aggregator) {
		a.onInvalid = fn
	}
}

// Aggregator holds no state between calls and is safe for concurrent use.
type Aggregator struct {
	onInvalid InvalidRecordFunc
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// tally accumulates a per-product value while remembering first-seen order
type tally[T int64 | float64] struct {
	order  []string
	values map[string]T
}

func newTally[T int64 | float64]() *tally[T] {
	return &tally[T]{values: make(map[string]T)}
}

func (t *tally[T]) add(name string, v T) {
	if _, ok := t.values[name]; !ok {
		t.order = append(t.order, name)
	}
	t.values[name] += v
}

// Summarize reduces orders into one summary. Both recency cutoffs derive from
// now, and a timestamp exactly on a cutoff falls outside its window.
func (a *Aggregator) Summarize(orders []domain.Order, now time.Time) domain.AnalyticsSummary {
	summary := domain.ZeroSummary()

	hourAgo := now.Add(-RecentWindow)
	weekAgo := now.Add(-UnderperformingWindow)

	quantities := newTally[int64]()
	revenues := newTally[float64]()
	weekly := newTally[int64]()

	for _, order := range orders {
		if err := order.Validate(); err != nil {
			if a.onInvalid != nil {
				a.onInvalid(order, err)
			}
			continue
		}

		revenue := order.Revenue()
		summary.TotalRevenue += revenue
		quantities.add(order.ProductName, order.Quantity)
		revenues.add(order.ProductName, revenue)

		if order.Timestamp.After(hourAgo) {
			summary.RecentOrders++
		}
		if order.Timestamp.After(weekAgo) {
			weekly.add(order.ProductName, order.Quantity)
		}
	}

	summary.TopSellingProducts = topQuantities(quantities, TopSellingLimit)
	summary.HighRevenueProducts = topRevenues(revenues, HighRevenueLimit)

	for _, name := range weekly.order {
		if qty := weekly.values[name]; qty < UnderperformingThreshold {
			summary.UnderperformingProducts = append(summary.UnderperformingProducts,
				domain.ProductQuantity{Name: name, Quantity: qty})
		}
	}

	return summary
}

func topQuantities(t *tally[int64], limit int) []domain.ProductQuantity {
	out := make([]domain.ProductQuantity, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, domain.ProductQuantity{Name: name, Quantity: t.values[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topRevenues(t *tally[float64], limit int) []domain.ProductRevenue {
	out := make([]domain.ProductRevenue, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, domain.ProductRevenue{Name: name, Revenue: t.values[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
