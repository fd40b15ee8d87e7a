package api

import (
	"errors"
	"realtimesales/domain"
	"realtimesales/validations"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// IdempotencyKeyHeader lets clients retry an order submission safely
const IdempotencyKeyHeader = "Idempotency-Key"

var _ OrderHandler = &orderHandler{nil}

type orderHandler struct {
	orderService domain.OrderService
}

// GetOrders returns the current order collection
// @Summary List orders
// @Description Return the in-memory order collection, most recent first
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.OrderListResponse "Orders retrieved successfully"
// @Failure 401 {object} domain.OrderListResponse "Missing or invalid token"
// @Router /orders [get]
func (o orderHandler) GetOrders(ctx *fiber.Ctx) error {
	resp, err := o.orderService.ListOrders(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(domain.OrderListResponse{
			Success: false,
			Message: "Internal server error: " + err.Error(),
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// PostOrder handles adding an order
// @Summary Add an order
// @Description Store a new order; the collection is re-read before responding
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body domain.OrderRequest true "Order data"
// @Param Idempotency-Key header string false "Client key making retries safe"
// @Success 201 {object} domain.OrderResponse "Order added successfully"
// @Success 200 {object} domain.OrderResponse "Order already added with this key"
// @Failure 400 {object} domain.OrderResponse "Invalid request"
// @Failure 409 {object} domain.OrderResponse "Order with this key still in flight"
// @Failure 500 {object} domain.OrderResponse "Internal server error"
// @Router /orders [post]
func (o orderHandler) PostOrder(ctx *fiber.Ctx) error {
	var req domain.OrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.OrderResponse{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	if err := validations.ValidateOrderRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.OrderResponse{
			Success: false,
			Message: "Validation failed: " + err.Error(),
		})
	}

	resp, err := o.orderService.PostOrder(ctx.UserContext(), &req, ctx.Get(IdempotencyKeyHeader))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			return ctx.Status(fiber.StatusConflict).JSON(resp)
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(domain.OrderResponse{
			Success: false,
			Message: "Internal server error: " + err.Error(),
		})
	}
	if resp.Replay {
		return ctx.Status(fiber.StatusOK).JSON(resp)
	}
	logrus.WithFields(logrus.Fields{
		"order_id": resp.Order.ID,
		"uid":      UserID(ctx),
	}).Info("Order added")
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// RefreshOrders forces a re-read of the order collection
// @Summary Refresh orders
// @Description Re-fetch the full order collection from the order backend
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.OrderListResponse "Orders refreshed"
// @Failure 502 {object} domain.OrderListResponse "Order backend unavailable, previous orders kept"
// @Router /orders/refresh [post]
func (o orderHandler) RefreshOrders(ctx *fiber.Ctx) error {
	resp, err := o.orderService.RefreshOrders(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

func NewOrderHandler(orderService domain.OrderService) OrderHandler {
	return &orderHandler{orderService: orderService}
}

var _ SalesHandler = &salesHandler{nil}

type salesHandler struct {
	salesService domain.SalesMetricsService
}

// GetSalesMetrics retrieves bucketed sales from the history mirror
// @Summary GET bucketed sales metrics
// @Description Query order counts, units and revenue from the sales history with filtering and grouping
// @Tags Sales
// @Produce json
// @Security BearerAuth
// @Param product_name query string false "Product name filter"
// @Param from query int false "Start timestamp (Unix seconds)"
// @Param to query int false "End timestamp (Unix seconds)"
// @Param group_by query string false "Group by field (hour, day, week, month, product)"
// @Success 200 {object} domain.SalesMetricResponse "Sales metrics retrieved successfully"
// @Failure 400 {object} domain.SalesMetricResponse "Invalid request"
// @Failure 500 {object} domain.SalesMetricResponse "Internal server error"
// @Failure 503 {object} domain.SalesMetricResponse "Sales history disabled"
// @Router /sales/metrics [get]
func (s salesHandler) GetSalesMetrics(ctx *fiber.Ctx) error {
	if s.salesService == nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(domain.SalesMetricResponse{
			Success: false,
			Message: "Sales history is not enabled",
		})
	}

	// Parse query parameters
	var req domain.SalesMetricRequest

	if productName := ctx.Query("product_name"); productName != "" {
		req.ProductName = &productName
	}

	if fromStr := ctx.Query("from"); fromStr != "" {
		from, err := strconv.ParseInt(fromStr, 10, 64)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(domain.SalesMetricResponse{
				Success: false,
				Message: "Invalid 'from' parameter: " + err.Error(),
				Metrics: nil,
			})
		}
		req.From = &from
	}

	if toStr := ctx.Query("to"); toStr != "" {
		to, err := strconv.ParseInt(toStr, 10, 64)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(domain.SalesMetricResponse{
				Success: false,
				Message: "Invalid 'to' parameter: " + err.Error(),
				Metrics: nil,
			})
		}
		req.To = &to
	}

	if groupBy := ctx.Query("group_by"); groupBy != "" {
		req.GroupBy = &groupBy
	}

	if err := validations.ValidateSalesMetricRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(domain.SalesMetricResponse{
			Success: false,
			Metrics: nil,
			Message: "Validation failed: " + err.Error(),
		})
	}
	resp, err := s.salesService.GetSalesMetrics(ctx.UserContext(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(domain.SalesMetricResponse{
			Success: false,
			Message: "Internal server error: " + err.Error(),
			Metrics: nil,
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// NewSalesHandler wraps salesService, which is nil when the mirror is disabled
func NewSalesHandler(salesService domain.SalesMetricsService) SalesHandler {
	return &salesHandler{salesService: salesService}
}
