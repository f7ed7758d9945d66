package handler

import (
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

type TenantHandler struct {
	tenantService *service.TenantService
	validator     *validator.Validator
}

func NewTenantHandler(tenantService *service.TenantService, validator *validator.Validator) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		validator:     validator,
	}
}

// ListTenants
// GET /api/v1/auth/tenants
func (h *TenantHandler) ListTenants(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	tenants, err := h.tenantService.List(c.Context(), user)
	if err != nil {
		return err
	}
	results := make([]*service.TenantDTO, 0, len(tenants))
	for _, t := range tenants {
		results = append(results, service.NewTenantDTO(t))
	}
	return ok(c, fiber.Map{"results": results, "count": len(results)})
}

// CreateTenant creates a tenant (master admin only)
// POST /api/v1/auth/tenants
func (h *TenantHandler) CreateTenant(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req service.CreateTenantRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tenant, err := h.tenantService.Create(c.Context(), user, req)
	if err != nil {
		return err
	}
	return created(c, "Tenant created successfully", service.NewTenantDTO(tenant))
}

// GetTenant
// GET /api/v1/auth/tenants/:id
func (h *TenantHandler) GetTenant(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	tenant, err := h.tenantService.Get(c.Context(), user, id)
	if err != nil {
		return err
	}
	return ok(c, service.NewTenantDTO(tenant))
}

// UpdateTenant applies a partial update
// PATCH /api/v1/auth/tenants/:id
func (h *TenantHandler) UpdateTenant(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateTenantRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tenant, err := h.tenantService.Update(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Tenant updated successfully", service.NewTenantDTO(tenant))
}

// UpdateUserLimit changes the seat quota and optionally the plan
// POST /api/v1/auth/tenants/:id/update-user-limit
func (h *TenantHandler) UpdateUserLimit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req service.SetUserLimitRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	tenant, err := h.tenantService.SetUserLimit(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "User limit updated successfully", service.NewTenantDTO(tenant))
}
