package service

import (
	"testing"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buyerView = domain.PermissionKey{Category: domain.CategoryIMS, Resource: "buyer_codes", Action: domain.ActionView}

func TestSeed_Idempotent(t *testing.T) {
	env := newTestEnv(t)

	n, err := env.permissions.Seed(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, len(domain.DefaultPermissions()), n)

	all, err := env.store.Repos().Permissions.List(env.ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)

	groups, err := env.permissions.Catalog(env.ctx)
	require.NoError(t, err)
	assert.Len(t, groups[domain.CategoryIMS], 16)
	assert.Len(t, groups[domain.CategoryMasterSheets], 10)
}

func TestTogglePermission_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	admin := env.masterAdmin(t)
	tenant := env.tenant(t, admin, "Acme", 10)
	owner := env.member(t, admin, "owner@acme.test", domain.RoleTenantOwner, &tenant.ID)
	emp := env.member(t, owner, "emp@acme.test", domain.RoleEmployee, nil)
	permID := env.catalogID(t, buyerView)

	states := []bool{true, false, true}
	var grantID *uuid.UUID
	for i, want := range states {
		entry, err := env.permissions.TogglePermission(env.ctx, owner, emp.ID, permID)
		require.NoError(t, err)
		assert.Equalf(t, want, entry.IsEnabled, "toggle %d", i+1)
		if grantID == nil {
			grantID = entry.PermissionID
		}
		assert.Equal(t, *grantID, *entry.PermissionID, "toggling keeps the same grant row")

		ok, err := env.gate.HasPermission(env.ctx, emp, buyerView)
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}

func TestTogglePermission_Denied(t *testing.T) {
	env := newTestEnv(t)
	admin := env.masterAdmin(t)
	acme := env.tenant(t, admin, "Acme", 10)
	other := env.tenant(t, admin, "Other", 10)
	owner := env.member(t, admin, "owner@acme.test", domain.RoleTenantOwner, &acme.ID)
	outsider := env.member(t, admin, "owner@other.test", domain.RoleTenantOwner, &other.ID)
	emp := env.member(t, owner, "emp@acme.test", domain.RoleEmployee, nil)
	manager := env.member(t, owner, "manager@acme.test", domain.RoleManager, nil)
	permID := env.catalogID(t, buyerView)

	_, err := env.permissions.TogglePermission(env.ctx, manager, emp.ID, permID)
	assertCode(t, err, domain.CodePermissionDenied)

	_, err = env.permissions.TogglePermission(env.ctx, outsider, emp.ID, permID)
	assertCode(t, err, domain.CodeNotFound)

	_, err = env.permissions.TogglePermission(env.ctx, owner, emp.ID, uuid.New())
	assertCode(t, err, domain.CodeNotFound)

	grants, err := env.store.Repos().Grants.ListByUser(env.ctx, emp.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestUpdateMemberPermissions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.masterAdmin(t)
	tenant := env.tenant(t, admin, "Acme", 10)
	owner := env.member(t, admin, "owner@acme.test", domain.RoleTenantOwner, &tenant.ID)
	emp := env.member(t, owner, "emp@acme.test", domain.RoleEmployee, nil)
	viewID := env.catalogID(t, buyerView)
	createID := env.catalogID(t, domain.PermissionKey{Category: domain.CategoryIMS, Resource: "buyer_codes", Action: domain.ActionCreate})

	grants, err := env.permissions.UpdateMemberPermissions(env.ctx, owner, emp.ID, UpdatePermissionsRequest{
		Permissions: []PermissionUpdate{
			{ID: &viewID},
			{ID: &createID, IsEnabled: ptrTo(false)},
			{ID: ptrTo(uuid.New())},
			{PermissionID: ptrTo(uuid.New())},
		},
	})
	require.NoError(t, err)
	require.Len(t, grants, 2, "unknown references are skipped")
	for _, g := range grants {
		require.NotNil(t, g.GrantedBy)
		assert.Equal(t, owner.ID, *g.GrantedBy)
		assert.Equal(t, g.PermissionID == viewID, g.IsEnabled)
	}

	var createGrant uuid.UUID
	for _, g := range grants {
		if g.PermissionID == createID {
			createGrant = g.ID
		}
	}
	grants, err = env.permissions.UpdateMemberPermissions(env.ctx, admin, emp.ID, UpdatePermissionsRequest{
		Permissions: []PermissionUpdate{{PermissionID: &createGrant, IsEnabled: ptrTo(true)}},
	})
	require.NoError(t, err)
	for _, g := range grants {
		if g.ID == createGrant {
			assert.True(t, g.IsEnabled)
			assert.Equal(t, admin.ID, *g.GrantedBy)
		}
	}
}

func TestUpdateMemberPermissions_DeniedMutatesNothing(t *testing.T) {
	env := newTestEnv(t)
	admin := env.masterAdmin(t)
	tenant := env.tenant(t, admin, "Acme", 10)
	owner := env.member(t, admin, "owner@acme.test", domain.RoleTenantOwner, &tenant.ID)
	emp := env.member(t, owner, "emp@acme.test", domain.RoleEmployee, nil)
	manager := env.member(t, owner, "manager@acme.test", domain.RoleManager, nil)
	viewID := env.catalogID(t, buyerView)

	_, err := env.permissions.TogglePermission(env.ctx, owner, emp.ID, viewID)
	require.NoError(t, err)
	before, err := env.store.Repos().Grants.ListByUser(env.ctx, emp.ID)
	require.NoError(t, err)

	_, err = env.permissions.UpdateMemberPermissions(env.ctx, manager, emp.ID, UpdatePermissionsRequest{
		Permissions: []PermissionUpdate{{ID: &viewID, IsEnabled: ptrTo(false)}},
	})
	assertCode(t, err, domain.CodePermissionDenied)

	after, err := env.store.Repos().Grants.ListByUser(env.ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAvailablePermissions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.masterAdmin(t)
	tenant := env.tenant(t, admin, "Acme", 10)
	owner := env.member(t, admin, "owner@acme.test", domain.RoleTenantOwner, &tenant.ID)
	emp := env.member(t, owner, "emp@acme.test", domain.RoleEmployee, nil)
	viewID := env.catalogID(t, buyerView)

	_, err := env.permissions.TogglePermission(env.ctx, owner, emp.ID, viewID)
	require.NoError(t, err)

	groups, err := env.permissions.AvailablePermissions(env.ctx, owner, emp.ID)
	require.NoError(t, err)

	total := 0
	for category, entries := range groups {
		for _, e := range entries {
			total++
			assert.Equal(t, category, e.Category)
			if e.ID == viewID {
				assert.NotNil(t, e.PermissionID)
				assert.True(t, e.IsEnabled)
				continue
			}
			assert.Nil(t, e.PermissionID)
			assert.False(t, e.IsEnabled)
		}
	}
	assert.Equal(t, len(domain.DefaultPermissions()), total)
}
