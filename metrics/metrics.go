package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersSubmitted  prometheus.Counter
	OrdersReplayed   prometheus.Counter
	OrderRefreshes   *prometheus.CounterVec // label: result
	InvalidRecords   *prometheus.CounterVec // label: stage
	OrdersInMemory   prometheus.Gauge
	AnalyticsLatency prometheus.Histogram

	MirrorFlushed prometheus.Counter
	MirrorFailed  prometheus.Counter
	MirrorBuffer  prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	submitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_orders_submitted_total",
		Help: "Orders accepted by POST /orders.",
	})
	replayed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_orders_replayed_total",
		Help: "Order submissions answered from an idempotency key.",
	})
	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_order_refresh_total",
		Help: "Order collection refreshes by result.",
	}, []string{"result"})
	invalid := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_invalid_order_records_total",
		Help: "Order records skipped as invalid, by stage.",
	}, []string{"stage"})
	inMemory := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sales_orders_in_memory",
		Help: "Orders in the current in-memory snapshot.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sales_analytics_compute_seconds",
		Help:    "Time spent computing the analytics summary.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	})
	flushed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_mirror_flushed_total",
		Help: "Orders written to the sales history mirror.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_mirror_failed_total",
		Help: "Orders whose mirror flush failed.",
	})
	buffer := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sales_mirror_buffer_size",
		Help: "Orders waiting in the mirror buffer.",
	})

	r.MustRegister(
		collectors.NewGoCollector(),
		submitted, replayed, refreshes, invalid, inMemory, latency, flushed, failed, buffer,
	)
	return &Registry{
		reg:              r,
		OrdersSubmitted:  submitted,
		OrdersReplayed:   replayed,
		OrderRefreshes:   refreshes,
		InvalidRecords:   invalid,
		OrdersInMemory:   inMemory,
		AnalyticsLatency: latency,
		MirrorFlushed:    flushed,
		MirrorFailed:     failed,
		MirrorBuffer:     buffer,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
