package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
)

// Routes collects the handlers served by the API
type Routes struct {
	Orders    OrderHandler
	Analytics AnalyticsHandler
	Sales     SalesHandler
	// Users is nil when no auth provider is configured
	Users   UserHandler
	Health  fiber.Handler
	Metrics http.Handler
	// Verifier is nil when authentication is disabled
	Verifier TokenVerifier
}

func (r Routes) Mount(app *fiber.App) {
	// redirect to swagger docs
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/", fiber.StatusMovedPermanently)
	})

	app.Get("/health", r.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}

	if r.Users != nil {
		app.Post("/auth/signup", r.Users.SignUp)
	}

	// auth is attached per route so unknown paths still fall through to 404
	protect := func(h fiber.Handler) []fiber.Handler {
		if r.Verifier == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{RequireAuth(r.Verifier), h}
	}

	app.Get("/orders", protect(r.Orders.GetOrders)...)
	app.Post("/orders", protect(r.Orders.PostOrder)...)
	app.Post("/orders/refresh", protect(r.Orders.RefreshOrders)...)
	app.Get("/analytics", protect(r.Analytics.GetAnalytics)...)
	app.Get("/analytics/stream", protect(r.Analytics.StreamAnalytics)...)
	app.Get("/sales/metrics", protect(r.Sales.GetSalesMetrics)...)
}
