package middleware

import (
	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// RequirePermission lets the request through only when the user holds an
// enabled grant for category/resource/action
func RequirePermission(gate *service.Gate, category domain.PermissionCategory, resource string, action domain.PermissionAction) fiber.Handler {
	key := domain.PermissionKey{Category: category, Resource: resource, Action: action}
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.ErrUnauthorized()
		}
		if err := gate.Require(c.Context(), user, key); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireMemberManager allows master admins and tenant owners
func RequireMemberManager(gate *service.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.ErrUnauthorized()
		}
		if !gate.CanManageMembers(user) {
			return domain.ErrPermissionDenied()
		}
		return c.Next()
	}
}

func RequireMasterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.ErrUnauthorized()
		}
		if !user.IsMasterAdmin() {
			return domain.ErrPermissionDeniedMsg("Only master admin can perform this action")
		}
		return c.Next()
	}
}
