package database

import (
	"context"
	"sync"
	"time"

	"realtimesales/domain"

	"github.com/google/uuid"
)

var _ domain.OrderRepository = &MemoryOrders{}

// MemoryOrders keeps orders in process memory. It backs local development and
// tests.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders []domain.Order
	now    func() time.Time
}

func NewMemoryOrders(now func() time.Time) *MemoryOrders {
	if now == nil {
		now = time.Now
	}
	return &MemoryOrders{now: now}
}

// List returns a copy of the stored orders, most recent first
func (m *MemoryOrders) List(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *MemoryOrders) Append(ctx context.Context, input domain.OrderInput) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, err
	}
	order := domain.Order{
		ID:          uuid.NewString(),
		ProductName: input.ProductName,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Timestamp:   m.now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// keep most recent first; writes normally arrive in time order
	idx := 0
	for idx < len(m.orders) && m.orders[idx].Timestamp.After(order.Timestamp) {
		idx++
	}
	m.orders = append(m.orders, domain.Order{})
	copy(m.orders[idx+1:], m.orders[idx:])
	m.orders[idx] = order
	return order, nil
}

func (m *MemoryOrders) Ping(ctx context.Context) error {
	return ctx.Err()
}
