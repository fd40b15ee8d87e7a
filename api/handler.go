package api

import (
	"github.com/gofiber/fiber/v2"
)

type OrderHandler interface {
	GetOrders(ctx *fiber.Ctx) error
	PostOrder(ctx *fiber.Ctx) error
	RefreshOrders(ctx *fiber.Ctx) error
}

type AnalyticsHandler interface {
	GetAnalytics(ctx *fiber.Ctx) error
	StreamAnalytics(ctx *fiber.Ctx) error
}

type SalesHandler interface {
	GetSalesMetrics(ctx *fiber.Ctx) error
}

type UserHandler interface {
	SignUp(ctx *fiber.Ctx) error
}
