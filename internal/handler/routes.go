package handler

import (
	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/handler/middleware"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything SetupRoutes mounts
type Handlers struct {
	Auth      *AuthHandler
	Password  *PasswordHandler
	Member    *MemberHandler
	Tenant    *TenantHandler
	Setup     *SetupHandler
	Inventory *InventoryHandler
	Health    *HealthHandler
	JWKS      *JWKSHandler
	// Metrics serves /metrics; nil disables the endpoint
	Metrics fiber.Handler
}

func SetupRoutes(app *fiber.App, h Handlers, authService *service.AuthService, gate *service.Gate) {
	authMiddleware := middleware.AuthMiddleware(authService)
	requireManager := middleware.RequireMemberManager(gate)
	requireMasterAdmin := middleware.RequireMasterAdmin()

	// Health checks (public)
	app.Get("/health", h.Health.Health)
	app.Get("/ready", h.Health.Ready)
	if h.Metrics != nil {
		app.Get("/metrics", h.Metrics)
	}
	app.Get("/.well-known/jwks.json", h.JWKS.GetJWKS)

	api := app.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/verify-email", h.Password.VerifyEmail)
	auth.Post("/resend-verification", h.Password.ResendVerification)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/login/request-otp", h.Auth.RequestOTP)
	auth.Post("/login/verify-otp", h.Auth.VerifyOTP)
	auth.Post("/password-reset/request", h.Password.RequestPasswordReset)
	auth.Post("/set-password", h.Password.SetPassword)
	auth.Post("/token/refresh", h.Auth.RefreshToken)
	auth.Get("/setup", h.Setup.Status)
	auth.Post("/setup", h.Setup.CreateMasterAdmin)

	// Authenticated
	auth.Post("/logout", authMiddleware, h.Auth.Logout)
	auth.Get("/me", authMiddleware, h.Auth.Me)
	auth.Get("/me/login-history", authMiddleware, h.Auth.LoginHistory)
	auth.Get("/permissions", authMiddleware, h.Member.PermissionCatalog)

	members := auth.Group("/members", authMiddleware)
	members.Get("/", h.Member.ListMembers)
	members.Post("/", requireManager, h.Member.CreateMember)
	members.Get("/:id", h.Member.GetMember)
	members.Patch("/:id", h.Member.UpdateMember)
	members.Delete("/:id", requireManager, h.Member.DeactivateMember)
	members.Post("/:id/update-permissions", requireManager, h.Member.UpdatePermissions)
	members.Get("/:id/available-permissions", h.Member.AvailablePermissions)
	members.Post("/:user_id/permissions/:permission_id/toggle", requireManager, h.Member.TogglePermission)

	tenants := auth.Group("/tenants", authMiddleware)
	tenants.Get("/", h.Tenant.ListTenants)
	tenants.Post("/", requireMasterAdmin, h.Tenant.CreateTenant)
	tenants.Get("/:id", h.Tenant.GetTenant)
	tenants.Patch("/:id", h.Tenant.UpdateTenant)
	tenants.Post("/:id/update-user-limit", requireMasterAdmin, h.Tenant.UpdateUserLimit)

	// Inventory master sheets (permission gated)
	inventory := api.Group("/inventory", authMiddleware)
	can := func(category domain.PermissionCategory, resource string, action domain.PermissionAction) fiber.Handler {
		return middleware.RequirePermission(gate, category, resource, action)
	}

	buyers := inventory.Group("/buyer-codes")
	buyers.Get("/", can(domain.CategoryIMS, "buyer_codes", domain.ActionView), h.Inventory.ListBuyerCodes)
	buyers.Post("/", can(domain.CategoryIMS, "buyer_codes", domain.ActionCreate), h.Inventory.CreateBuyerCode)
	buyers.Get("/next-code", can(domain.CategoryIMS, "buyer_codes", domain.ActionCreate), h.Inventory.NextBuyerCode)
	buyers.Get("/:id", can(domain.CategoryIMS, "buyer_codes", domain.ActionView), h.Inventory.GetBuyerCode)
	buyers.Patch("/:id", can(domain.CategoryIMS, "buyer_codes", domain.ActionEdit), h.Inventory.UpdateBuyerCode)
	buyers.Delete("/:id", can(domain.CategoryIMS, "buyer_codes", domain.ActionDelete), h.Inventory.DeleteBuyerCode)

	vendors := inventory.Group("/vendor-codes")
	vendors.Get("/", can(domain.CategoryIMS, "vendor_codes", domain.ActionView), h.Inventory.ListVendorCodes)
	vendors.Post("/", can(domain.CategoryIMS, "vendor_codes", domain.ActionCreate), h.Inventory.CreateVendorCode)
	vendors.Get("/next-code", can(domain.CategoryIMS, "vendor_codes", domain.ActionCreate), h.Inventory.NextVendorCode)
	vendors.Get("/:id", can(domain.CategoryIMS, "vendor_codes", domain.ActionView), h.Inventory.GetVendorCode)
	vendors.Patch("/:id", can(domain.CategoryIMS, "vendor_codes", domain.ActionEdit), h.Inventory.UpdateVendorCode)
	vendors.Delete("/:id", can(domain.CategoryIMS, "vendor_codes", domain.ActionDelete), h.Inventory.DeleteVendorCode)

	departments := inventory.Group("/departments")
	departments.Get("/", can(domain.CategoryIMS, "departments", domain.ActionView), h.Inventory.ListDepartments)
	departments.Post("/", can(domain.CategoryIMS, "departments", domain.ActionCreate), h.Inventory.CreateDepartment)
	departments.Get("/menu", can(domain.CategoryIMS, "departments", domain.ActionView), h.Inventory.DepartmentMenu)
	departments.Get("/:id/segments", can(domain.CategoryIMS, "segments", domain.ActionView), h.Inventory.ListSegments)
	departments.Post("/:id/segments", can(domain.CategoryIMS, "segments", domain.ActionCreate), h.Inventory.CreateSegment)

	segments := inventory.Group("/segments")
	segments.Patch("/:id", can(domain.CategoryIMS, "segments", domain.ActionEdit), h.Inventory.UpdateSegment)
	segments.Delete("/:id", can(domain.CategoryIMS, "segments", domain.ActionDelete), h.Inventory.DeleteSegment)
}
