package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"realtimesales/domain"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// streamKeepAlive is how often an idle stream sends a comment line, which
// also detects clients that went away
const streamKeepAlive = 15 * time.Second

var _ AnalyticsHandler = &analyticsHandler{}

type analyticsHandler struct {
	// streams end when base is done
	base             context.Context
	analyticsService domain.AnalyticsService
}

// GetAnalytics returns the dashboard summary
// @Summary Get sales analytics
// @Description Total revenue, top sellers, orders in the last hour, high revenue and underperforming products
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.AnalyticsResponse "Analytics computed successfully"
// @Failure 500 {object} domain.AnalyticsResponse "Internal server error"
// @Router /analytics [get]
func (a analyticsHandler) GetAnalytics(ctx *fiber.Ctx) error {
	resp, err := a.analyticsService.GetAnalytics(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(domain.AnalyticsResponse{
			Success:   false,
			Message:   "Internal server error: " + err.Error(),
			Analytics: domain.ZeroSummary(),
		})
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// StreamAnalytics pushes a new summary every time the order collection changes
// @Summary Stream sales analytics
// @Description Server-Sent Events stream; each "analytics" event carries a full summary
// @Tags Analytics
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} domain.AnalyticsSummary "One summary per event"
// @Router /analytics/stream [get]
func (a analyticsHandler) StreamAnalytics(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	watchCtx, cancel := context.WithCancel(a.base)
	updates := a.analyticsService.Watch(watchCtx)

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()

		for {
			select {
			case summary, ok := <-updates:
				if !ok {
					return
				}
				payload, err := json.Marshal(summary)
				if err != nil {
					logrus.WithError(err).Error("AnalyticsStream: failed to encode summary")
					continue
				}
				fmt.Fprintf(w, "event: analytics\ndata: %s\n\n", payload)
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
			}
			if err := w.Flush(); err != nil {
				logrus.WithError(err).Debug("AnalyticsStream: client disconnected")
				return
			}
		}
	}))

	return nil
}

// NewAnalyticsHandler returns a handler whose streams are closed once base is done
func NewAnalyticsHandler(base context.Context, analyticsService domain.AnalyticsService) AnalyticsHandler {
	return &analyticsHandler{base: base, analyticsService: analyticsService}
}
