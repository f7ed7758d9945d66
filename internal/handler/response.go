package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Developershubh00/Binder-backend/internal/handler/middleware"
	"github.com/Developershubh00/Binder-backend/pkg/errx"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Envelope is the shape of every response body
type Envelope struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{Status: statusSuccess, Message: message, Data: data})
}

func ok(c *fiber.Ctx, data interface{}) error {
	return respond(c, fiber.StatusOK, "", data)
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, message, data)
}

// ErrorHandler renders every error, including framework errors and recovered
// panics, as an error envelope. Untyped errors are logged and hidden.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.Named("http")
	return func(c *fiber.Ctx, err error) error {
		body := Envelope{Status: statusError}
		status := fiber.StatusInternalServerError

		var fe *fiber.Error
		if e, ok := errx.As(err); ok && e.Type != errx.TypeInternal {
			status = e.HTTPStatus
			body.Code = e.Code
			body.Message = e.Message
			body.Details = e.Details
		} else if errors.As(err, &fe) {
			status = fe.Code
			body.Code = "HTTP_" + strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_"))
			body.Message = fe.Message
		} else {
			body.Message = "Internal server error"
			log.Error().
				Err(err).
				Str("request_id", middleware.RequestIDFrom(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		return c.Status(status).JSON(body)
	}
}
