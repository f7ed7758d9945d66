package handler

import (
	"fmt"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/pkg/validator"
	"github.com/gofiber/fiber/v2"
)

// InventoryHandler serves the master sheets: buyer and vendor codes and
// the department tree. Permission checks run in route middleware.
type InventoryHandler struct {
	sheetService *service.MasterSheetService
	validator    *validator.Validator
}

func NewInventoryHandler(sheetService *service.MasterSheetService, validator *validator.Validator) *InventoryHandler {
	return &InventoryHandler{
		sheetService: sheetService,
		validator:    validator,
	}
}

func list[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	return ok(c, fiber.Map{"results": items, "count": len(items)})
}

// ListBuyerCodes
// GET /api/v1/inventory/buyer-codes
func (h *InventoryHandler) ListBuyerCodes(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	buyers, err := h.sheetService.ListBuyers(c.Context(), user, c.Query("search"))
	if err != nil {
		return err
	}
	return list(c, buyers)
}

// CreateBuyerCode allocates the next buyer code
// POST /api/v1/inventory/buyer-codes
func (h *InventoryHandler) CreateBuyerCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req service.CreateBuyerCodeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	buyer, err := h.sheetService.CreateBuyer(c.Context(), user, req)
	if err != nil {
		return err
	}
	return created(c, "Buyer code created successfully", buyer)
}

// GetBuyerCode
// GET /api/v1/inventory/buyer-codes/:id
func (h *InventoryHandler) GetBuyerCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	buyer, err := h.sheetService.GetBuyer(c.Context(), user, id)
	if err != nil {
		return err
	}
	return ok(c, buyer)
}

// UpdateBuyerCode edits a buyer code's details; the code itself is ignored
// PATCH /api/v1/inventory/buyer-codes/:id
func (h *InventoryHandler) UpdateBuyerCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateBuyerCodeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	buyer, err := h.sheetService.UpdateBuyer(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Buyer code updated successfully", buyer)
}

// DeleteBuyerCode
// DELETE /api/v1/inventory/buyer-codes/:id
func (h *InventoryHandler) DeleteBuyerCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	buyer, err := h.sheetService.DeleteBuyer(c.Context(), user, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("Buyer code %s deleted successfully", buyer.Code), nil)
}

// NextBuyerCode previews the next buyer code
// GET /api/v1/inventory/buyer-codes/next-code
func (h *InventoryHandler) NextBuyerCode(c *fiber.Ctx) error {
	return h.nextCode(c, domain.CodeKindBuyer)
}

// ListVendorCodes
// GET /api/v1/inventory/vendor-codes
func (h *InventoryHandler) ListVendorCodes(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	vendors, err := h.sheetService.ListVendors(c.Context(), user, c.Query("search"))
	if err != nil {
		return err
	}
	return list(c, vendors)
}

// CreateVendorCode allocates the next vendor code
// POST /api/v1/inventory/vendor-codes
func (h *InventoryHandler) CreateVendorCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req service.CreateVendorCodeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	vendor, err := h.sheetService.CreateVendor(c.Context(), user, req)
	if err != nil {
		return err
	}
	return created(c, "Vendor code created successfully", vendor)
}

// GetVendorCode
// GET /api/v1/inventory/vendor-codes/:id
func (h *InventoryHandler) GetVendorCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	vendor, err := h.sheetService.GetVendor(c.Context(), user, id)
	if err != nil {
		return err
	}
	return ok(c, vendor)
}

// UpdateVendorCode
// PATCH /api/v1/inventory/vendor-codes/:id
func (h *InventoryHandler) UpdateVendorCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateVendorCodeRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	vendor, err := h.sheetService.UpdateVendor(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Vendor code updated successfully", vendor)
}

// DeleteVendorCode
// DELETE /api/v1/inventory/vendor-codes/:id
func (h *InventoryHandler) DeleteVendorCode(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	vendor, err := h.sheetService.DeleteVendor(c.Context(), user, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("Vendor code %s deleted successfully", vendor.Code), nil)
}

// NextVendorCode previews the next vendor code
// GET /api/v1/inventory/vendor-codes/next-code
func (h *InventoryHandler) NextVendorCode(c *fiber.Ctx) error {
	return h.nextCode(c, domain.CodeKindVendor)
}

func (h *InventoryHandler) nextCode(c *fiber.Ctx, kind domain.CodeKind) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	next, err := h.sheetService.NextCode(c.Context(), user, kind)
	if err != nil {
		return err
	}
	return ok(c, next)
}

// ListDepartments
// GET /api/v1/inventory/departments
func (h *InventoryHandler) ListDepartments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	departments, err := h.sheetService.ListDepartments(c.Context(), user, c.Query("search"))
	if err != nil {
		return err
	}
	return list(c, departments)
}

// DepartmentMenu returns active departments with their active segments
// GET /api/v1/inventory/departments/menu
func (h *InventoryHandler) DepartmentMenu(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	menu, err := h.sheetService.DepartmentMenu(c.Context(), user)
	if err != nil {
		return err
	}
	return ok(c, menu)
}

// CreateDepartment
// POST /api/v1/inventory/departments
func (h *InventoryHandler) CreateDepartment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req service.CreateDepartmentRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	department, err := h.sheetService.CreateDepartment(c.Context(), user, req)
	if err != nil {
		return err
	}
	return created(c, "Department created successfully", department)
}

// ListSegments
// GET /api/v1/inventory/departments/:id/segments
func (h *InventoryHandler) ListSegments(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	segments, err := h.sheetService.ListSegments(c.Context(), user, id, c.Query("search"))
	if err != nil {
		return err
	}
	return list(c, segments)
}

// CreateSegment
// POST /api/v1/inventory/departments/:id/segments
func (h *InventoryHandler) CreateSegment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req service.CreateSegmentRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	segment, err := h.sheetService.CreateSegment(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return created(c, "Segment created successfully", segment)
}

// UpdateSegment
// PATCH /api/v1/inventory/segments/:id
func (h *InventoryHandler) UpdateSegment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateSegmentRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	segment, err := h.sheetService.UpdateSegment(c.Context(), user, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Segment updated successfully", segment)
}

// DeleteSegment
// DELETE /api/v1/inventory/segments/:id
func (h *InventoryHandler) DeleteSegment(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.sheetService.DeleteSegment(c.Context(), user, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Segment deleted successfully", nil)
}
