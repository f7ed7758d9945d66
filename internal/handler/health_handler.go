package handler

import (
	"context"
	"time"

	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency checked by the readiness check
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks map[string]Pinger
	log    *logger.Logger
}

func NewHealthHandler(checks map[string]Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, log: log.Named("health")}
}

// Health returns basic liveness
// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return ok(c, fiber.Map{"service": "binder-backend"})
}

// Ready pings every dependency and answers 503 when one fails
// GET /ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), readyTimeout)
	defer cancel()

	checks := make(fiber.Map, len(h.checks))
	healthy := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn().Err(err).Str("check", name).Msg("readiness check failed")
			checks[name] = "unavailable"
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(Envelope{
			Status:  statusError,
			Message: "Service not ready",
			Data:    fiber.Map{"checks": checks},
		})
	}
	return ok(c, fiber.Map{"checks": checks})
}
