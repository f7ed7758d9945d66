package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/Developershubh00/Binder-backend/pkg/errx"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

// RecoveryMiddleware turns a panic into an internal error so the error
// handler still renders the response envelope
func RecoveryMiddleware(log *logger.Logger) fiber.Handler {
	log = log.Named("recovery")
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", RequestIDFrom(c)).
					Str("method", c.Method()).
					Str("path", c.Path()).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				err = errx.Wrap(fmt.Errorf("panic: %v", r), "Internal server error", errx.TypeInternal)
			}
		}()
		return c.Next()
	}
}

// StatusOf is the HTTP status the error handler writes for err
func StatusOf(err error) int {
	if e, ok := errx.As(err); ok {
		return e.HTTPStatus
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
