package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CountersExposed(t *testing.T) {
	m := NewRegistry()
	m.OrdersSubmitted.Inc()
	m.InvalidRecords.WithLabelValues("decode").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersSubmitted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InvalidRecords.WithLabelValues("decode")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sales_orders_submitted_total 1")
	assert.Contains(t, string(body), `sales_invalid_order_records_total{stage="decode"} 2`)
	assert.Contains(t, string(body), "# HELP sales_orders_submitted_total Orders accepted by POST /orders.")
	assert.Contains(t, string(body), "# HELP sales_mirror_buffer_size ")
}

func TestNewRegistry_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()
	a.OrdersReplayed.Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.OrdersReplayed))
}
