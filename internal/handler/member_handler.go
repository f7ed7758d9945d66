package handler

import (
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	memberService     *service.MemberService
	permissionService *service.PermissionService
	validator         *validator.Validator
}

func NewMemberHandler(memberService *service.MemberService, permissionService *service.PermissionService, validator *validator.Validator) *MemberHandler {
	return &MemberHandler{
		memberService:     memberService,
		permissionService: permissionService,
		validator:         validator,
	}
}

// ListMembers returns the members visible to the caller
// GET /api/v1/auth/members
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	members, err := h.memberService.List(c.Context(), user)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"results": members, "count": len(members)})
}

// CreateMember adds a member to the caller's tenant
// POST /api/v1/auth/members
func (h *MemberHandler) CreateMember(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req service.CreateMemberRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	member, err := h.memberService.Create(c.Context(), user, req)
	if err != nil {
		return err
	}
	return created(c, "Member created successfully", member)
}

// GetMember
// GET /api/v1/auth/members/:id
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	member, err := h.memberService.Get(c.Context(), user, id)
	if err != nil {
		return err
	}
	return ok(c, member)
}

// UpdateMember applies a partial update
// PATCH /api/v1/auth/members/:id
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateMemberRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	member, err := h.memberService.Update(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Member updated successfully", member)
}

// DeactivateMember soft-deletes a member and frees the seat
// DELETE /api/v1/auth/members/:id
func (h *MemberHandler) DeactivateMember(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.memberService.Deactivate(c.Context(), user, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Member deactivated successfully", nil)
}

// UpdatePermissions upserts a batch of grants for a member
// POST /api/v1/auth/members/:id/update-permissions
func (h *MemberHandler) UpdatePermissions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdatePermissionsRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	grants, err := h.permissionService.UpdateMemberPermissions(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Permissions updated successfully", fiber.Map{"permissions": grants})
}

// AvailablePermissions returns the catalog merged with the member's grants
// GET /api/v1/auth/members/:id/available-permissions
func (h *MemberHandler) AvailablePermissions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	groups, err := h.permissionService.AvailablePermissions(c.Context(), user, id)
	if err != nil {
		return err
	}
	return ok(c, groups)
}

// TogglePermission flips one grant of a member
// POST /api/v1/auth/members/:user_id/permissions/:permission_id/toggle
func (h *MemberHandler) TogglePermission(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	userID, err := paramUUID(c, "user_id")
	if err != nil {
		return err
	}
	permissionID, err := paramUUID(c, "permission_id")
	if err != nil {
		return err
	}

	entry, err := h.permissionService.TogglePermission(c.Context(), user, userID, permissionID)
	if err != nil {
		return err
	}

	message := "Permission disabled"
	if entry.IsEnabled {
		message = "Permission enabled"
	}
	return respond(c, fiber.StatusOK, message, entry)
}

// PermissionCatalog lists every permission grouped by category
// GET /api/v1/auth/permissions
func (h *MemberHandler) PermissionCatalog(c *fiber.Ctx) error {
	groups, err := h.permissionService.Catalog(c.Context())
	if err != nil {
		return err
	}
	return ok(c, groups)
}
