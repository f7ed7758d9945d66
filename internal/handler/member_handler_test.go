package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembers_OwnerManagesTenant(t *testing.T) {
	srv := newTestServer(t)
	admin, _ := srv.masterAdmin(t)
	owner, token := srv.tenantOwner(t, admin, "Loom Works")

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/members", map[string]interface{}{
		"email": "Ravi@Loom.test", "password": testPassword, "role": domain.RoleEmployee, "designation": "Supervisor",
	}, withToken(token))
	require.Equalf(t, http.StatusCreated, status, "%+v", resp)
	var member service.UserDTO
	resp.decode(t, &member)
	assert.Equal(t, "ravi@loom.test", member.Email)
	assert.Equal(t, owner.TenantID, member.TenantID)
	require.NotNil(t, member.TenantDetails)
	assert.Equal(t, "Loom Works", member.TenantDetails.CompanyName)

	status, resp = srv.do(t, http.MethodGet, "/api/v1/auth/members", nil, withToken(token))
	require.Equal(t, http.StatusOK, status)
	var listed struct {
		Count int `json:"count"`
	}
	resp.decode(t, &listed)
	assert.Equal(t, 2, listed.Count)

	employeeToken := srv.login(t, "ravi@loom.test")
	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/members", map[string]interface{}{
		"email": "x@loom.test", "password": testPassword, "role": domain.RoleEmployee,
	}, withToken(employeeToken))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, domain.CodePermissionDenied.Code, resp.Code)

	status, resp = srv.do(t, http.MethodDelete, "/api/v1/auth/members/"+owner.ID.String(), nil, withToken(token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.CodeSelfDeactivation.Code, resp.Code)

	status, _ = srv.do(t, http.MethodDelete, "/api/v1/auth/members/"+member.ID.String(), nil, withToken(token))
	require.Equal(t, http.StatusOK, status)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "ravi@loom.test", "password": testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMembers_InvalidRole(t *testing.T) {
	srv := newTestServer(t)
	admin, _ := srv.masterAdmin(t)
	_, token := srv.tenantOwner(t, admin, "Loom Works")

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/members", map[string]interface{}{
		"email": "x@loom.test", "password": testPassword, "role": "overlord",
	}, withToken(token))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "role", resp.Details["field"])
}

func TestTogglePermissionRoute(t *testing.T) {
	srv := newTestServer(t)
	admin, _ := srv.masterAdmin(t)
	_, token := srv.tenantOwner(t, admin, "Loom Works")

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/members", map[string]interface{}{
		"email": "ravi@loom.test", "password": testPassword, "role": domain.RoleEmployee,
	}, withToken(token))
	require.Equal(t, http.StatusCreated, status)
	var member service.UserDTO
	resp.decode(t, &member)

	perms, err := srv.store.Repos().Permissions.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, perms)
	path := "/api/v1/auth/members/" + member.ID.String() + "/permissions/" + perms[0].ID.String() + "/toggle"

	status, resp = srv.do(t, http.MethodPost, path, nil, withToken(token))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Permission enabled", resp.Message)

	status, resp = srv.do(t, http.MethodPost, path, nil, withToken(token))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Permission disabled", resp.Message)

	status, resp = srv.do(t, http.MethodGet, "/api/v1/auth/members/"+member.ID.String()+"/available-permissions", nil, withToken(token))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(resp.Data), perms[0].ID.String())

	other, _ := srv.tenantOwner(t, admin, "Dye House")
	status, _ = srv.do(t, http.MethodPost, "/api/v1/auth/members/"+other.ID.String()+"/permissions/"+perms[0].ID.String()+"/toggle", nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTenants_MasterAdminOnly(t *testing.T) {
	srv := newTestServer(t)
	admin, adminToken := srv.masterAdmin(t)
	owner, token := srv.tenantOwner(t, admin, "Loom Works")

	status, resp := srv.do(t, http.MethodPost, "/api/v1/auth/tenants", map[string]interface{}{"company_name": "Rogue Mill"}, withToken(token))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Only master admin can perform this action", resp.Message)

	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/tenants", map[string]interface{}{"company_name": "Dye House", "user_limit": 5}, withToken(adminToken))
	require.Equal(t, http.StatusCreated, status)
	var tenant service.TenantDTO
	resp.decode(t, &tenant)
	assert.Equal(t, 5, tenant.UserLimit)
	assert.Equal(t, 5, tenant.AvailableSlots)
	assert.True(t, tenant.CanAddUsers)

	status, resp = srv.do(t, http.MethodPost, "/api/v1/auth/tenants/"+tenant.ID.String()+"/update-user-limit", map[string]interface{}{"user_limit": 5000}, withToken(adminToken))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.CodeInvalidRange.Code, resp.Code)

	status, _ = srv.do(t, http.MethodGet, "/api/v1/auth/tenants/"+owner.TenantID.String(), nil, withToken(token))
	require.Equal(t, http.StatusOK, status)

	status, _ = srv.do(t, http.MethodGet, "/api/v1/auth/tenants/"+tenant.ID.String(), nil, withToken(token))
	assert.Equal(t, http.StatusNotFound, status)
}
