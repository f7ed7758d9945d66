package handler

import (
	"crypto/subtle"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

const setupTokenHeader = "X-Setup-Token"

// SetupHandler bootstraps the first master admin. It is disabled when no
// setup token is configured and closes once a master admin exists.
type SetupHandler struct {
	userService *service.UserService
	setupToken  string
	validator   *validator.Validator
}

func NewSetupHandler(userService *service.UserService, setupToken string, validator *validator.Validator) *SetupHandler {
	return &SetupHandler{
		userService: userService,
		setupToken:  setupToken,
		validator:   validator,
	}
}

// Status reports whether the setup endpoint can still be used
// GET /api/v1/auth/setup
func (h *SetupHandler) Status(c *fiber.Ctx) error {
	exists, err := h.userService.MasterAdminExists(c.Context())
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"setup_required": !exists && h.setupToken != ""})
}

// CreateMasterAdmin creates the first master admin
// POST /api/v1/auth/setup
func (h *SetupHandler) CreateMasterAdmin(c *fiber.Ctx) error {
	if h.setupToken == "" {
		return fiber.ErrNotFound
	}
	supplied := c.Get(setupTokenHeader)
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.setupToken)) != 1 {
		return domain.ErrPermissionDeniedMsg("Invalid setup token")
	}

	var req service.CreateMasterAdminRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.userService.CreateMasterAdmin(c.Context(), req)
	if err != nil {
		return err
	}
	return created(c, "Master admin created successfully", fiber.Map{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	})
}
