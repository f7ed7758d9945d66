package service

import (
	"context"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

// Gate answers authorization questions before tenant-scoped data is touched.
// Permissions come only from enabled grants; roles never imply them.
type Gate struct {
	store repository.Store
}

func NewGate(store repository.Store) *Gate {
	return &Gate{store: store}
}

func (g *Gate) CanManageMembers(user *domain.User) bool {
	return user.CanCreateMembers()
}

func (g *Gate) HasPermission(ctx context.Context, user *domain.User, key domain.PermissionKey) (bool, error) {
	return g.store.Repos().Grants.HasEnabled(ctx, user.ID, key)
}

// Require returns a PermissionDenied error unless user holds key
func (g *Gate) Require(ctx context.Context, user *domain.User, key domain.PermissionKey) error {
	ok, err := g.HasPermission(ctx, user, key)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrPermissionDenied()
	}
	return nil
}

// CanAccessTenant allows master admins everywhere, everyone else their own
// tenant and shared (nil) rows
func CanAccessTenant(user *domain.User, tenantID *uuid.UUID) bool {
	if user.IsMasterAdmin() || tenantID == nil {
		return true
	}
	return user.TenantID != nil && *user.TenantID == *tenantID
}

// ScopeFor is the list filter matching CanAccessTenant
func ScopeFor(user *domain.User) repository.Scope {
	if user.IsMasterAdmin() {
		return repository.Scope{All: true}
	}
	return repository.Scope{TenantID: user.TenantID, IncludeShared: true}
}

// canSeeMember: master admins see everyone, tenant owners their tenant,
// anyone else only themselves
func canSeeMember(actor, target *domain.User) bool {
	switch {
	case actor.ID == target.ID, actor.IsMasterAdmin():
		return true
	case actor.IsTenantOwner():
		return actor.TenantID != nil && actor.SameTenant(target.TenantID)
	}
	return false
}

// visibleMember loads a user the actor may see; invisible users read as not found
func visibleMember(ctx context.Context, users repository.UserRepository, actor *domain.User, id uuid.UUID, lock bool) (*domain.User, error) {
	get := users.GetByID
	if lock {
		get = users.GetByIDForUpdate
	}
	target, err := get(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	if !canSeeMember(actor, target) {
		return nil, domain.ErrNotFound("User")
	}
	return target, nil
}
