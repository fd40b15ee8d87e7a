package domain

import (
	"context"
	"errors"
	"math"
	"time"
)

var (
	// ErrInvalidOrder is returned when an order record cannot take part in analytics
	ErrInvalidOrder = errors.New("invalid order record")
	// ErrDuplicateOrder is returned when an idempotency key was already used
	ErrDuplicateOrder = errors.New("order already processed")
	// ErrEmailAlreadyInUse is returned by sign-up when the address is taken
	ErrEmailAlreadyInUse = errors.New("email address is already in use")
	// ErrInvalidEmail is returned by sign-up when the address is rejected
	ErrInvalidEmail = errors.New("email address is invalid")
)

// Order is a single sale record as stored by the order backend
type Order struct {
	ID          string    `json:"id" example:"8fK2cWq1xYz"`
	ProductName string    `json:"productName" example:"Espresso"`
	Price       float64   `json:"price" example:"3.5"`
	Quantity    int64     `json:"quantity" example:"2"`
	Timestamp   time.Time `json:"timestamp" example:"2025-11-22T10:00:00Z"`
}

// Validate reports whether the record carries usable numbers and a timestamp.
func (o Order) Validate() error {
	if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
		return errors.Join(ErrInvalidOrder, errors.New("price is not a number"))
	}
	if o.Timestamp.IsZero() {
		return errors.Join(ErrInvalidOrder, errors.New("timestamp is missing"))
	}
	return nil
}

// Revenue returns price * quantity
func (o Order) Revenue() float64 {
	return o.Price * float64(o.Quantity)
}

// OrderInput is what a client supplies; id and timestamp are assigned by the store
type OrderInput struct {
	ProductName string  `json:"productName" example:"Espresso"`
	Price       float64 `json:"price" example:"3.5"`
	Quantity    int64   `json:"quantity" example:"2"`
}

// OrderSnapshot is one published state of the in-memory order collection
type OrderSnapshot struct {
	Orders      []Order
	Version     uint64
	RefreshedAt time.Time
}

// OrderRepository is the external order source
type OrderRepository interface {
	// List returns every stored order, most recent first.
	List(ctx context.Context) ([]Order, error)
	// Append persists one order and returns it with its id and write timestamp.
	Append(ctx context.Context, input OrderInput) (Order, error)
	Ping(ctx context.Context) error
}

type OrderService interface {
	PostOrder(ctx context.Context, request *OrderRequest, idempotencyKey string) (*OrderResponse, error)
	ListOrders(ctx context.Context) (*OrderListResponse, error)
	RefreshOrders(ctx context.Context) (*OrderListResponse, error)
}

type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*AnalyticsResponse, error)
	// Watch emits a fresh summary each time the order collection changes
	// until ctx is done.
	Watch(ctx context.Context) <-chan AnalyticsSummary
}

type SalesMetricsService interface {
	GetSalesMetrics(ctx context.Context, request *SalesMetricRequest) (*SalesMetricResponse, error)
}

// UserRegistrar creates accounts with the external auth provider
type UserRegistrar interface {
	CreateUser(ctx context.Context, name, email, password string) (uid string, err error)
}

type UserService interface {
	SignUp(ctx context.Context, request *SignUpRequest) (*SignUpResponse, error)
}
