package services

import (
	"context"
	"fmt"

	"realtimesales/domain"
	"realtimesales/metrics"

	"github.com/sirupsen/logrus"
)

var _ domain.OrderService = &orderService{}

// IdempotencyStore remembers which client keys already produced an order
type IdempotencyStore interface {
	ClaimOrderKey(ctx context.Context, key string) (claimed bool, existing *domain.Order, err error)
	CompleteOrderKey(ctx context.Context, key string, order domain.Order) error
	ReleaseOrderKey(ctx context.Context, key string) error
}

type orderService struct {
	store       *OrderStore
	idempotency IdempotencyStore
	metrics     *metrics.Registry
}

func (o orderService) PostOrder(ctx context.Context, request *domain.OrderRequest, idempotencyKey string) (*domain.OrderResponse, error) {
	claimed := false
	if idempotencyKey != "" && o.idempotency != nil {
		ok, existing, err := o.idempotency.ClaimOrderKey(ctx, idempotencyKey)
		switch {
		case err != nil:
			// Redis outage should not block order entry
			logrus.WithError(err).Warn("OrderService: idempotency check failed, accepting order")
		case existing != nil:
			o.metrics.OrdersReplayed.Inc()
			return &domain.OrderResponse{
				Success: true,
				Message: "Order already added",
				Order:   existing,
				Replay:  true,
			}, nil
		case !ok:
			return &domain.OrderResponse{
				Success: false,
				Message: "An order with this key is still being added",
			}, domain.ErrDuplicateOrder
		default:
			claimed = true
		}
	}

	order, err := o.store.Append(ctx, request.ToInput())
	if err != nil {
		if claimed {
			if relErr := o.idempotency.ReleaseOrderKey(context.Background(), idempotencyKey); relErr != nil {
				logrus.WithError(relErr).Warn("OrderService: failed to release idempotency key")
			}
		}
		return &domain.OrderResponse{
			Success: false,
			Message: "Failed to add order: " + err.Error(),
		}, err
	}

	if claimed {
		if err := o.idempotency.CompleteOrderKey(ctx, idempotencyKey, order); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Warn("OrderService: failed to store idempotency key")
		}
	}
	o.metrics.OrdersSubmitted.Inc()

	return &domain.OrderResponse{
		Success: true,
		Message: "Order added successfully",
		Order:   &order,
	}, nil
}

func (o orderService) ListOrders(ctx context.Context) (*domain.OrderListResponse, error) {
	snap := o.store.Snapshot()
	return &domain.OrderListResponse{
		Success:     true,
		Message:     "Orders retrieved successfully",
		Loading:     o.store.Loading(),
		RefreshedAt: snap.RefreshedAt,
		Orders:      append([]domain.Order{}, snap.Orders...),
	}, nil
}

func (o orderService) RefreshOrders(ctx context.Context) (*domain.OrderListResponse, error) {
	if err := o.store.Refresh(ctx); err != nil {
		resp, _ := o.ListOrders(ctx)
		resp.Success = false
		resp.Message = "Failed to refresh orders: " + err.Error()
		return resp, err
	}
	return o.ListOrders(ctx)
}

// NewOrderService returns a domain.OrderService writing through store.
// idempotency may be nil, in which case keys are ignored.
func NewOrderService(store *OrderStore, idempotency IdempotencyStore, m *metrics.Registry) (domain.OrderService, error) {
	if store == nil {
		return nil, fmt.Errorf("order store cannot be nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics registry cannot be nil")
	}
	return &orderService{
		store:       store,
		idempotency: idempotency,
		metrics:     m,
	}, nil
}
