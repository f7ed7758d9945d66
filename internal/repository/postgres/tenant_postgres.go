package postgres

import (
	"context"
	"fmt"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const tenantColumns = `id, company_name, company_email, phone, address, user_limit,
		current_user_count, plan, is_active, subscription_start_date,
		subscription_end_date, created_at, updated_at`

type tenantRepository struct {
	db sqlx.ExtContext
}

// Create inserts a new tenant
func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		INSERT INTO tenants (
			id, company_name, company_email, phone, address, user_limit,
			current_user_count, plan, is_active, subscription_start_date,
			subscription_end_date, created_at, updated_at
		) VALUES (
			:id, :company_name, :company_email, :phone, :address, :user_limit,
			:current_user_count, :plan, :is_active, :subscription_start_date,
			:subscription_end_date, :created_at, :updated_at
		)`

	return execNamed(ctx, r.db, "tenant", query, tenant, false)
}

// GetByID retrieves a tenant by its ID
func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	if err := getOne(ctx, r.db, &tenant, "tenant", query, id); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1 FOR UPDATE`
	if err := getOne(ctx, r.db, &tenant, "tenant", query, id); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ExistsByName checks company names case-insensitively
func (r *tenantRepository) ExistsByName(ctx context.Context, companyName string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tenants WHERE lower(company_name) = lower($1))`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, companyName); err != nil {
		return false, fmt.Errorf("failed to check tenant name: %w", err)
	}
	return exists, nil
}

// List returns tenants visible in scope, newest first
func (r *tenantRepository) List(ctx context.Context, scope repository.Scope) ([]*domain.Tenant, error) {
	where, args := scopeClause(scope, "id", nil)
	query := `SELECT ` + tenantColumns + ` FROM tenants` + where + ` ORDER BY created_at DESC`

	var tenants []*domain.Tenant
	if err := sqlx.SelectContext(ctx, r.db, &tenants, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

// Update writes every mutable tenant column
func (r *tenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	query := `
		UPDATE tenants SET
			company_name = :company_name,
			company_email = :company_email,
			phone = :phone,
			address = :address,
			user_limit = :user_limit,
			current_user_count = :current_user_count,
			plan = :plan,
			is_active = :is_active,
			subscription_start_date = :subscription_start_date,
			subscription_end_date = :subscription_end_date,
			updated_at = :updated_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "tenant", query, tenant, true)
}
