package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTenant(name string) *domain.Tenant {
	now := time.Now()
	return &domain.Tenant{
		ID:          uuid.New(),
		CompanyName: name,
		UserLimit:   domain.DefaultUserLimit,
		Plan:        domain.PlanStandard,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Tenants.Create(ctx, newTenant("Acme")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := store.Repos().Tenants.ExistsByName(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tenant := newTenant("Acme")

	err := store.WithTx(ctx, func(r repository.Repositories) error {
		return r.Tenants.Create(ctx, tenant)
	})
	require.NoError(t, err)

	got, err := store.Repos().Tenants.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
}

func TestTenantCreate_DuplicateNameIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()

	require.NoError(t, repos.Tenants.Create(ctx, newTenant("Acme")))
	err := repos.Tenants.Create(ctx, newTenant("ACME"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserGet_NotFound(t *testing.T) {
	_, err := NewStore().Repos().Users.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCodes_UniquePerTenantScope(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	tenantA, tenantB := uuid.New(), uuid.New()

	require.NoError(t, repos.Codes.CreateBuyer(ctx, &domain.BuyerCode{ID: uuid.New(), Code: "101A", TenantID: &tenantA}))
	require.NoError(t, repos.Codes.CreateBuyer(ctx, &domain.BuyerCode{ID: uuid.New(), Code: "101A", TenantID: &tenantB}))
	require.NoError(t, repos.Codes.CreateBuyer(ctx, &domain.BuyerCode{ID: uuid.New(), Code: "101A"}))

	err := repos.Codes.CreateBuyer(ctx, &domain.BuyerCode{ID: uuid.New(), Code: "101A", TenantID: &tenantA})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	codes, err := repos.Codes.ListCodes(ctx, domain.CodeKindBuyer, &tenantA)
	require.NoError(t, err)
	assert.Equal(t, []string{"101A"}, codes)
}

func TestListDepartments_SharedRows(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	tenantA, tenantB := uuid.New(), uuid.New()

	require.NoError(t, repos.Departments.CreateDepartment(ctx, &domain.Department{ID: uuid.New(), Code: "D1", Name: "Shared"}))
	require.NoError(t, repos.Departments.CreateDepartment(ctx, &domain.Department{ID: uuid.New(), Code: "D2", Name: "Mine", TenantID: &tenantA}))
	require.NoError(t, repos.Departments.CreateDepartment(ctx, &domain.Department{ID: uuid.New(), Code: "D3", Name: "Theirs", TenantID: &tenantB}))

	got, err := repos.Departments.ListDepartments(ctx, repository.Scope{TenantID: &tenantA, IncludeShared: true}, "")
	require.NoError(t, err)

	var names []string
	for _, d := range got {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"Shared", "Mine"}, names)
}

func TestGrants_InsertIfAbsentAndUpsert(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	userID := uuid.New()
	permission := &domain.Permission{ID: uuid.New(), Category: domain.CategoryIMS, Resource: "buyer_codes", Action: domain.ActionView}
	require.NoError(t, repos.Permissions.EnsureExists(ctx, permission))

	first := &domain.Grant{ID: uuid.New(), UserID: userID, PermissionID: permission.ID, IsEnabled: true}
	created, err := repos.Grants.InsertIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repos.Grants.InsertIfAbsent(ctx, &domain.Grant{ID: uuid.New(), UserID: userID, PermissionID: permission.ID})
	require.NoError(t, err)
	assert.False(t, created)

	upserted := &domain.Grant{ID: uuid.New(), UserID: userID, PermissionID: permission.ID, IsEnabled: false}
	require.NoError(t, repos.Grants.Upsert(ctx, upserted))
	assert.Equal(t, first.ID, upserted.ID)

	ok, err := repos.Grants.HasEnabled(ctx, userID, permission.Key())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCloseLatestOpen(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repos()
	userID := uuid.New()
	base := time.Now()

	for i := 0; i < 2; i++ {
		require.NoError(t, repos.LoginHistory.Create(ctx, &domain.LoginHistory{
			ID: uuid.New(), UserID: userID, LoginSuccessful: true, LoginAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	closed, err := repos.LoginHistory.CloseLatestOpen(ctx, userID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, closed)

	entries, err := repos.LoginHistory.ListByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotNil(t, entries[0].LogoutAt)
	assert.Nil(t, entries[1].LogoutAt)
}
