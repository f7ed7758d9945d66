package middleware

import (
	"strings"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

const (
	localUser   = "user"
	localClaims = "claims"
)

// AuthMiddleware validates the bearer access token and stores the active
// user and its claims for downstream handlers
func AuthMiddleware(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return domain.ErrRegistry.NewWithMessage(domain.CodeUnauthorized, "Authentication credentials were not provided")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return domain.ErrRegistry.NewWithMessage(domain.CodeUnauthorized, "Invalid authorization header format")
		}

		user, claims, err := authService.Authenticate(c.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(localUser, user)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware, or nil
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(localUser).(*domain.User)
	return user
}

// CurrentClaims returns the access token claims stored by AuthMiddleware, or nil
func CurrentClaims(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals(localClaims).(*domain.Claims)
	return claims
}
