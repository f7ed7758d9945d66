package handler

import (
	"github.com/Developershubh00/Binder-backend/internal/handler/middleware"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	validator   *validator.Validator
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, validator *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validator:   validator,
	}
}

// Register handles self registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.userService.Register(c.Context(), req)
	if err != nil {
		return err
	}
	return created(c, "Registration successful. You can now log in.", resp)
}

// Login handles email and password login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Context(), req, clientInfo(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Login successful", resp)
}

// RequestOTP checks credentials and emails a login code
// POST /api/v1/auth/login/request-otp
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.authService.RequestOTP(c.Context(), req)
	if err != nil {
		return err
	}

	message := "OTP sent to your email"
	if resp.Delivery == service.DeliveryFailed {
		message = "OTP generated but the email could not be sent. Please request a new one."
	}
	return respond(c, fiber.StatusOK, message, resp)
}

// VerifyOTP completes an OTP login
// POST /api/v1/auth/login/verify-otp
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req service.VerifyOTPRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	resp, err := h.authService.VerifyOTP(c.Context(), req, clientInfo(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Login successful", resp)
}

// RefreshToken exchanges a refresh token for a new pair
// POST /api/v1/auth/token/refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req service.RefreshRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tokens, err := h.authService.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return err
	}
	return ok(c, tokens)
}

// Logout closes the current login and revokes the presented tokens
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req service.LogoutRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Context(), user, middleware.CurrentClaims(c), req.Refresh); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Logout successful", nil)
}

// Me returns the authenticated user with tenant and permissions
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	dto, err := h.userService.Me(c.Context(), user)
	if err != nil {
		return err
	}
	return ok(c, dto)
}

// LoginHistory lists the caller's recent logins
// GET /api/v1/auth/me/login-history?limit=20
func (h *AuthHandler) LoginHistory(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	entries, err := h.authService.LoginHistory(c.Context(), user, c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"results": entries, "count": len(entries)})
}
