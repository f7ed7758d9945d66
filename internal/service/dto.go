package service

import (
	"context"
	"errors"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type TenantSummary struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
}

// PermissionEntry is a catalog permission seen through one user's grant.
// PermissionID is the grant id and is nil when no grant row exists.
type PermissionEntry struct {
	ID           uuid.UUID                 `json:"id"`
	PermissionID *uuid.UUID                `json:"permission_id"`
	Category     domain.PermissionCategory `json:"category"`
	Action       domain.PermissionAction   `json:"action"`
	Resource     string                    `json:"resource"`
	Description  string                    `json:"description"`
	IsEnabled    bool                      `json:"is_enabled"`
}

func grantEntry(g *domain.GrantDetail) PermissionEntry {
	grantID := g.ID
	return PermissionEntry{
		ID:           g.Permission.ID,
		PermissionID: &grantID,
		Category:     g.Permission.Category,
		Action:       g.Permission.Action,
		Resource:     g.Permission.Resource,
		Description:  g.Permission.Description,
		IsEnabled:    g.IsEnabled,
	}
}

type UserDTO struct {
	*domain.User
	FullName      string            `json:"full_name"`
	TenantDetails *TenantSummary    `json:"tenant_details"`
	Permissions   []PermissionEntry `json:"permissions"`
}

func newUserDTO(user *domain.User, tenant *domain.Tenant, grants []*domain.GrantDetail) *UserDTO {
	dto := &UserDTO{User: user, FullName: user.FullName(), Permissions: []PermissionEntry{}}
	if tenant != nil {
		dto.TenantDetails = &TenantSummary{ID: tenant.ID, CompanyName: tenant.CompanyName}
	}
	for _, g := range grants {
		dto.Permissions = append(dto.Permissions, grantEntry(g))
	}
	return dto
}

// loadUserDTO reads the user's tenant summary and grants through r
func loadUserDTO(ctx context.Context, r repository.Repositories, user *domain.User) (*UserDTO, error) {
	var tenant *domain.Tenant
	if user.TenantID != nil {
		t, err := r.Tenants.GetByID(ctx, *user.TenantID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		tenant = t
	}
	grants, err := r.Grants.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return newUserDTO(user, tenant, grants), nil
}

type TenantDTO struct {
	*domain.Tenant
	CanAddUsers    bool `json:"can_add_users"`
	AvailableSlots int  `json:"available_slots"`
}

func NewTenantDTO(t *domain.Tenant) *TenantDTO {
	return &TenantDTO{Tenant: t, CanAddUsers: t.CanAddUsers(), AvailableSlots: t.AvailableSlots()}
}
