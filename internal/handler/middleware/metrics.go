package middleware

import (
	"time"

	"github.com/Developershubh00/Binder-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request count and latency per route pattern
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = StatusOf(err)
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
			route = r.Path
		}
		m.ObserveRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
