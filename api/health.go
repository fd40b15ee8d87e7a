package api

import (
	"context"
	"realtimesales/domain"
	"time"

	"realtimesales/buildinfo"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// CheckFunc reports whether one dependency is reachable
type CheckFunc func(ctx context.Context) error

// HealthChecks lists the dependencies probed by /health. ClickHouse is nil
// when the sales mirror is disabled.
type HealthChecks struct {
	OrderStore CheckFunc
	Redis      CheckFunc
	ClickHouse CheckFunc
}

func runCheck(ctx context.Context, check CheckFunc) domain.ServiceStatus {
	if err := check(ctx); err != nil {
		return domain.ServiceStatus{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	}
	return domain.ServiceStatus{
		Status: "healthy",
	}
}

// NewHealthCheck builds the /health endpoint
// @Summary Health check endpoint
// @Description Check the health status of the service and its dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} domain.HealthResponse "Service is healthy"
// @Success 503 {object} domain.HealthResponse "Service is unhealthy"
// @Router /health [get]
func NewHealthCheck(checks HealthChecks) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		response := domain.HealthResponse{
			Timestamp: time.Now(),
			BuildInfo: buildinfo.GetInfo(),
			Services:  domain.ServiceHealthStatus{},
		}

		// every check runs to completion; failures are reported, not propagated
		var g errgroup.Group
		g.Go(func() error {
			response.Services.OrderStore = runCheck(ctx, checks.OrderStore)
			return nil
		})
		g.Go(func() error {
			response.Services.Redis = runCheck(ctx, checks.Redis)
			return nil
		})
		var clickhouse domain.ServiceStatus
		if checks.ClickHouse != nil {
			g.Go(func() error {
				clickhouse = runCheck(ctx, checks.ClickHouse)
				return nil
			})
		}
		_ = g.Wait()

		healthy := response.Services.OrderStore.Status == "healthy" &&
			response.Services.Redis.Status == "healthy"
		if checks.ClickHouse != nil {
			response.Services.ClickHouse = &clickhouse
			healthy = healthy && clickhouse.Status == "healthy"
		}

		// Determine overall status
		if healthy {
			response.Status = "healthy"
			return c.Status(fiber.StatusOK).JSON(response)
		}

		response.Status = "unhealthy"
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}
}
