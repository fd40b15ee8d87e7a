package database

import (
	"context"
	"fmt"
	"time"

	"realtimesales/config"
	"realtimesales/domain"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/go-clickhouse/ch"
)

var clickHouseDB *ch.DB

// SalesGroupings maps group_by values to ClickHouse bucket expressions
var SalesGroupings = map[string]string{
	"hour":    "toString(toStartOfHour(timestamp))",
	"day":     "toString(toStartOfDay(timestamp))",
	"week":    "toString(toStartOfWeek(timestamp))",
	"month":   "toString(toStartOfMonth(timestamp))",
	"product": "product_name",
}

// InitClickHouse initializes the ClickHouse connection used by the sales mirror
func InitClickHouse(cfg *config.ClickHouseConfig) error {
	dsn := cfg.GetClickHouseDSN()

	// Connect without TLS since ClickHouse native protocol doesn't use TLS by default
	db := ch.Connect(
		ch.WithDSN(dsn),
		ch.WithInsecure(true),
	)

	ctx := context.Background()
	if err := InitOrdersTable(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize orders table: %w", err)
	}

	clickHouseDB = db
	logrus.Info("ClickHouse connection established successfully")

	return nil
}

// CloseClickHouse closes the ClickHouse database connection
func CloseClickHouse() error {
	if clickHouseDB != nil {
		if err := clickHouseDB.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		logrus.Info("ClickHouse connection closed")
	}
	return nil
}

// InitOrdersTable creates the orders mirror table if it doesn't exist.
// Re-mirrored orders collapse on merge and under FINAL.
func InitOrdersTable(ctx context.Context, db *ch.DB) error {
	_, err := db.NewCreateTable().
		Model((*OrderRow)(nil)).
		Engine("ReplacingMergeTree(ingested_at)").
		Order("timestamp, order_id").
		IfNotExists().
		Exec(ctx)

	return err
}

// ClickHouseHealthCheck verifies that the ClickHouse connection is alive
func ClickHouseHealthCheck(ctx context.Context) error {
	if clickHouseDB == nil {
		return fmt.Errorf("ClickHouse connection is not initialized")
	}
	return clickHouseDB.Ping(ctx)
}

// GetClickHouseDB returns the ClickHouse database instance
func GetClickHouseDB() ClickHouseDB {
	return ClickHouseDB{clickHouseDB}
}

// OrderRow represents the orders mirror table
type OrderRow struct {
	ch.CHModel  `ch:"table:orders,partition:toYYYYMM(timestamp)"`
	OrderID     string    `ch:"order_id"`
	ProductName string    `ch:"product_name,lc"`
	Price       float64   `ch:"price"`
	Quantity    int64     `ch:"quantity"`
	Timestamp   time.Time `ch:"timestamp"`

	IngestedAt time.Time `ch:"ingested_at,default:now()"`
}

// OrderColumnar holds orders in columnar format for batch inserts
type OrderColumnar struct {
	ch.CHModel  `ch:"table:orders,partition:toYYYYMM(timestamp),columnar"`
	OrderID     []string    `ch:"order_id"`
	ProductName []string    `ch:"product_name,lc"`
	Price       []float64   `ch:"price"`
	Quantity    []int64     `ch:"quantity"`
	Timestamp   []time.Time `ch:"timestamp"`

	IngestedAt []time.Time `ch:"ingested_at,default:now()"`
}

// NewOrderColumnar converts orders into one columnar insert model
func NewOrderColumnar(orders []domain.Order, ingestedAt time.Time) *OrderColumnar {
	n := len(orders)
	model := &OrderColumnar{
		OrderID:     make([]string, 0, n),
		ProductName: make([]string, 0, n),
		Price:       make([]float64, 0, n),
		Quantity:    make([]int64, 0, n),
		Timestamp:   make([]time.Time, 0, n),
		IngestedAt:  make([]time.Time, 0, n),
	}
	for _, order := range orders {
		model.OrderID = append(model.OrderID, order.ID)
		model.ProductName = append(model.ProductName, order.ProductName)
		model.Price = append(model.Price, order.Price)
		model.Quantity = append(model.Quantity, order.Quantity)
		model.Timestamp = append(model.Timestamp, order.Timestamp)
		model.IngestedAt = append(model.IngestedAt, ingestedAt)
	}
	return model
}

// SaveOrders writes orders to ClickHouse using the native columnar insert format
func (c ClickHouseDB) SaveOrders(ctx context.Context, orders []domain.Order) error {
	if c.DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	if len(orders) == 0 {
		return fmt.Errorf("no orders to insert")
	}

	_, err := c.DB.NewInsert().
		Model(NewOrderColumnar(orders, time.Now())).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to columnar insert orders: %w", err)
	}

	return nil
}

type SalesMetricRow struct {
	Bucket  string  `ch:"bucket"`
	Orders  uint64  `ch:"orders"`
	Units   int64   `ch:"units"`
	Revenue float64 `ch:"revenue"`
}

// GetSalesMetrics retrieves bucketed order counts, units and revenue
func (c ClickHouseDB) GetSalesMetrics(ctx context.Context, request domain.SalesMetricRequest) ([]SalesMetricRow, error) {
	if c.DB == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var results []SalesMetricRow

	// Only allowlisted expressions reach the query text
	var groupExpr string
	if request.GroupBy != nil {
		groupExpr = SalesGroupings[*request.GroupBy]
	}

	query := c.NewSelect().
		// FINAL collapses orders mirrored more than once
		TableExpr("orders FINAL")

	if groupExpr != "" {
		query = query.ColumnExpr("? AS bucket", ch.Safe(groupExpr))
	} else {
		query = query.ColumnExpr("'total' AS bucket")
	}
	query = query.
		ColumnExpr("count() AS orders").
		ColumnExpr("sum(quantity) AS units").
		ColumnExpr("sum(price * quantity) AS revenue")

	if request.ProductName != nil && *request.ProductName != "" {
		query = query.Where("product_name = ?", *request.ProductName)
	}
	if request.From != nil {
		query = query.Where("timestamp >= ?", time.Unix(*request.From, 0))
	}
	if request.To != nil {
		query = query.Where("timestamp <= ?", time.Unix(*request.To, 0))
	}
	if groupExpr != "" {
		query = query.GroupExpr(groupExpr)
		query = query.OrderExpr("bucket ASC")
	}

	if err := query.Scan(ctx, &results); err != nil {
		return nil, err
	}

	return results, nil
}

type ClickHouseDB struct {
	*ch.DB
}
