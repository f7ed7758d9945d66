package handler

import (
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

// Responses for unknown addresses match the ones for real accounts
const (
	resendMessage = "If the account exists and is not verified, a verification email has been sent"
	resetMessage  = "If an account exists with this email, a password reset link has been sent"
)

type PasswordHandler struct {
	userService *service.UserService
	validator   *validator.Validator
}

func NewPasswordHandler(userService *service.UserService, validator *validator.Validator) *PasswordHandler {
	return &PasswordHandler{
		userService: userService,
		validator:   validator,
	}
}

// VerifyEmail consumes an email verification token
// POST /api/v1/auth/verify-email
func (h *PasswordHandler) VerifyEmail(c *fiber.Ctx) error {
	var req service.VerifyEmailRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.userService.VerifyEmail(c.Context(), req.Token)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Email verified successfully", fiber.Map{
		"email":          user.Email,
		"email_verified": user.EmailVerified,
	})
}

// ResendVerification re-sends the verification email
// POST /api/v1/auth/resend-verification
func (h *PasswordHandler) ResendVerification(c *fiber.Ctx) error {
	var req service.EmailRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if _, err := h.userService.ResendVerification(c.Context(), req.Email); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, resendMessage, nil)
}

// RequestPasswordReset emails a set-password link
// POST /api/v1/auth/password-reset/request
func (h *PasswordHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req service.EmailRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if _, err := h.userService.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, resetMessage, nil)
}

// SetPassword consumes a reset token and stores the new password
// POST /api/v1/auth/set-password
func (h *PasswordHandler) SetPassword(c *fiber.Ctx) error {
	var req service.SetPasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	if err := h.userService.SetPassword(c.Context(), req); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Password set successfully. Please log in with your new password.", nil)
}
