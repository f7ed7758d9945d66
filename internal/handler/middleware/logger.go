package middleware

import (
	"time"

	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestID tags every request with an X-Request-ID, reusing the client's
func RequestID() fiber.Handler {
	return requestid.New()
}

// RequestIDFrom returns the id assigned by RequestID
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}

// LoggerMiddleware logs one line per finished request
func LoggerMiddleware(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// the error handler has not run yet, so take the status it will write
		status := c.Response().StatusCode()
		if err != nil {
			status = StatusOf(err)
		}

		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}
		event.
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")

		return err
	}
}
