package service

import (
	"testing"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_RolesNeverImplyPermissions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.masterAdmin(t)
	tenant := env.tenant(t, admin, "Acme", 10)
	owner := env.member(t, admin, "owner@acme.test", domain.RoleTenantOwner, &tenant.ID)

	for _, user := range []*domain.User{admin, owner} {
		assertCode(t, env.gate.Require(env.ctx, user, buyerView), domain.CodePermissionDenied)
	}

	_, err := env.permissions.TogglePermission(env.ctx, admin, owner.ID, env.catalogID(t, buyerView))
	require.NoError(t, err)
	require.NoError(t, env.gate.Require(env.ctx, owner, buyerView))

	create := domain.PermissionKey{Category: domain.CategoryIMS, Resource: "buyer_codes", Action: domain.ActionCreate}
	assertCode(t, env.gate.Require(env.ctx, owner, create), domain.CodePermissionDenied)
}

func TestCanAccessTenant(t *testing.T) {
	acme, other := uuid.New(), uuid.New()
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleMasterAdmin}
	member := &domain.User{ID: uuid.New(), Role: domain.RoleEmployee, TenantID: &acme}
	loner := &domain.User{ID: uuid.New(), Role: domain.RoleEmployee}

	tests := []struct {
		name   string
		user   *domain.User
		tenant *uuid.UUID
		want   bool
	}{
		{"admin any tenant", admin, &other, true},
		{"member own tenant", member, &acme, true},
		{"member other tenant", member, &other, false},
		{"member shared row", member, nil, true},
		{"tenant-less user tenant row", loner, &acme, false},
		{"tenant-less user shared row", loner, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessTenant(tt.user, tt.tenant))
		})
	}
}

func TestCanSeeMember(t *testing.T) {
	acme, other := uuid.New(), uuid.New()
	owner := &domain.User{ID: uuid.New(), Role: domain.RoleTenantOwner, TenantID: &acme}
	colleague := &domain.User{ID: uuid.New(), Role: domain.RoleManager, TenantID: &acme}
	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleEmployee, TenantID: &other}

	assert.True(t, canSeeMember(owner, colleague))
	assert.False(t, canSeeMember(owner, stranger))
	assert.False(t, canSeeMember(colleague, owner))
	assert.True(t, canSeeMember(colleague, colleague))
}
