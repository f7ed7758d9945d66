package handler

import (
	"errors"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/handler/middleware"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NewValidator returns the request validator with the domain enums registered
func NewValidator() (*validator.Validator, error) {
	v := validator.NewValidator()
	if err := v.RegisterEnum("role", func(s string) bool { return domain.Role(s).Valid() }); err != nil {
		return nil, err
	}
	if err := v.RegisterEnum("plan", func(s string) bool { return domain.Plan(s).Valid() }); err != nil {
		return nil, err
	}
	return v, nil
}

// bind parses the JSON body into dst and validates it
func bind(c *fiber.Ctx, v *validator.Validator, dst interface{}) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return domain.ErrValidation("Invalid request body")
		}
	}
	if err := v.Validate(dst); err != nil {
		var fe *validator.FieldError
		if errors.As(err, &fe) {
			return domain.ErrFieldValidation(fe.Field, fe.Error())
		}
		return domain.ErrValidation(err.Error())
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.ErrFieldValidation(name, name+" must be a valid UUID")
	}
	return id, nil
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthorized()
	}
	return user, nil
}

func clientInfo(c *fiber.Ctx) service.ClientInfo {
	return service.ClientInfo{IPAddress: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}
