package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func newMockRepos(t *testing.T) (repository.Repositories, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return newRepositories(db), mock
}

func sqlText(s string) string { return regexp.QuoteMeta(s) }

func TestLockScope_AdvisoryLockKey(t *testing.T) {
	repos, mock := newMockRepos(t)
	ctx := context.Background()
	tenantID := uuid.New()

	mock.ExpectExec(sqlText(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("buyer:" + tenantID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlText(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("vendor:shared").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repos.Codes.LockScope(ctx, domain.CodeKindBuyer, &tenantID))
	require.NoError(t, repos.Codes.LockScope(ctx, domain.CodeKindVendor, nil))
}

func TestLockRole_AdvisoryLockKey(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectExec(sqlText(`SELECT pg_advisory_xact_lock(hashtext($1))`)).
		WithArgs("role:master_admin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repos.Users.LockRole(context.Background(), domain.RoleMasterAdmin))
}

func TestWithTx_LocksThenChecksMasterAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText(`pg_advisory_xact_lock`)).WithArgs("role:master_admin").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(sqlText(`SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`)).
		WithArgs("master_admin").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	errTaken := errors.New("taken")
	err := store.WithTx(context.Background(), func(r repository.Repositories) error {
		require.NoError(t, r.Users.LockRole(context.Background(), domain.RoleMasterAdmin))
		exists, err := r.Users.ExistsWithRole(context.Background(), domain.RoleMasterAdmin)
		require.NoError(t, err)
		if exists {
			return errTaken
		}
		return nil
	})
	assert.ErrorIs(t, err, errTaken)
}

func TestWithTx_Commits(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText(`DELETE FROM sessions WHERE user_id = $1`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := store.WithTx(context.Background(), func(r repository.Repositories) error {
		return r.Sessions.DeleteByUserID(context.Background(), uuid.New())
	})
	require.NoError(t, err)
}

func TestTenantGetByIDForUpdate(t *testing.T) {
	repos, mock := newMockRepos(t)
	ctx := context.Background()
	id := uuid.New()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	columns := []string{"id", "company_name", "company_email", "phone", "address", "user_limit",
		"current_user_count", "plan", "is_active", "subscription_start_date",
		"subscription_end_date", "created_at", "updated_at"}
	mock.ExpectQuery(`FROM tenants WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "Loom Works", "ops@loom.test", "", "", 3, 2, "standard", true, now, nil, now, now))
	mock.ExpectQuery(`FROM tenants WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns))

	tenant, err := repos.Tenants.GetByIDForUpdate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, tenant.ID)
	assert.Equal(t, 3, tenant.UserLimit)
	assert.Equal(t, 2, tenant.CurrentUserCount)
	assert.Nil(t, tenant.SubscriptionEndDate)

	_, err = repos.Tenants.GetByIDForUpdate(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGrantInsertIfAbsent(t *testing.T) {
	repos, mock := newMockRepos(t)
	ctx := context.Background()
	now := time.Now()
	grant := &domain.Grant{ID: uuid.New(), UserID: uuid.New(), PermissionID: uuid.New(), IsEnabled: true, CreatedAt: now, UpdatedAt: now}
	insert := sqlText(`ON CONFLICT (user_id, permission_id) DO NOTHING`)

	mock.ExpectExec(insert).
		WithArgs(grant.ID, grant.UserID, grant.PermissionID, true, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).
		WithArgs(grant.ID, grant.UserID, grant.PermissionID, true, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repos.Grants.InsertIfAbsent(ctx, grant)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repos.Grants.InsertIfAbsent(ctx, grant)
	require.NoError(t, err)
	assert.False(t, inserted, "existing row is left alone")
}

func TestGrantListByUser_ScansPermission(t *testing.T) {
	repos, mock := newMockRepos(t)
	userID := uuid.New()
	grantID, permissionID := uuid.New(), uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "permission_id", "is_enabled", "granted_by", "created_at", "updated_at",
		"permission.id", "permission.category", "permission.action", "permission.resource",
		"permission.description", "permission.created_at",
	}).AddRow(grantID.String(), userID.String(), permissionID.String(), true, nil, now, now,
		permissionID.String(), "ims", "view", "buyer_codes", "View buyer codes", now)
	mock.ExpectQuery(sqlText(`JOIN permissions p ON p.id = g.permission_id`)).WithArgs(userID).WillReturnRows(rows)

	grants, err := repos.Grants.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, grantID, grants[0].ID)
	assert.Equal(t, permissionID, grants[0].PermissionID)
	assert.Equal(t, permissionID, grants[0].Permission.ID)
	assert.Equal(t, domain.PermissionKey{Category: "ims", Resource: "buyer_codes", Action: domain.ActionView}, grants[0].Permission.Key())
}

func TestCloseLatestOpen(t *testing.T) {
	repos, mock := newMockRepos(t)
	userID := uuid.New()
	at := time.Now()
	update := sqlText(`UPDATE login_history SET logout_at = $2`) + `(?s).*` + sqlText(`LIMIT 1`) + `\s+FOR UPDATE`

	mock.ExpectExec(update).WithArgs(userID, at).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(userID, at).WillReturnResult(sqlmock.NewResult(0, 0))

	closed, err := repos.LoginHistory.CloseLatestOpen(context.Background(), userID, at)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = repos.LoginHistory.CloseLatestOpen(context.Background(), userID, at)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestCreateBuyer_UniqueViolation(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectExec(sqlText(`INSERT INTO buyer_codes`)).WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repos.Codes.CreateBuyer(context.Background(), &domain.BuyerCode{ID: uuid.New(), Code: "101A"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUpdateBuyer_LeavesCodeColumn(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()
	buyer := &domain.BuyerCode{ID: uuid.New(), Code: "999A", BuyerName: "Zara", UpdatedAt: now}

	mock.ExpectExec(`UPDATE buyer_codes SET\s+buyer_name = \$1, buyer_address = \$2,\s+contact_person = \$3, retailer = \$4, updated_at = \$5\s+WHERE id = \$6`).
		WithArgs("Zara", "", "", "", now, buyer.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlText(`UPDATE buyer_codes SET`)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repos.Codes.UpdateBuyer(context.Background(), buyer))
	assert.ErrorIs(t, repos.Codes.UpdateBuyer(context.Background(), buyer), repository.ErrNotFound)
}

func TestDeleteSegment_MissingRow(t *testing.T) {
	repos, mock := newMockRepos(t)
	id := uuid.New()
	mock.ExpectExec(sqlText(`DELETE FROM segments WHERE id = $1`)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repos.Departments.DeleteSegment(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListBuyers_ScopeAndSearch(t *testing.T) {
	repos, mock := newMockRepos(t)
	tenantID := uuid.New()

	mock.ExpectQuery(sqlText(`FROM buyer_codes WHERE (tenant_id = $1 OR tenant_id IS NULL) AND (buyer_name ILIKE $2 OR code ILIKE $2 OR retailer ILIKE $2 OR contact_person ILIKE $2) ORDER BY created_at DESC`)).
		WithArgs(tenantID, `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repos.Codes.ListBuyers(context.Background(), repository.Scope{TenantID: &tenantID, IncludeShared: true}, " 50% ")
	require.NoError(t, err)
}

func TestSearchClause(t *testing.T) {
	tests := []struct {
		name      string
		where     string
		args      []any
		term      string
		wantWhere string
		wantArgs  []any
	}{
		{"empty term", " WHERE tenant_id IS NULL", nil, "  ", " WHERE tenant_id IS NULL", nil},
		{"no scope", "", nil, "zara", " WHERE (name ILIKE $1 OR code ILIKE $1)", []any{"%zara%"}},
		{"after scope", " WHERE tenant_id = $1", []any{"t"}, "a_b", " WHERE tenant_id = $1 AND (name ILIKE $2 OR code ILIKE $2)", []any{"t", `%a\_b%`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := searchClause(tt.where, tt.args, tt.term, "name", "code")
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
