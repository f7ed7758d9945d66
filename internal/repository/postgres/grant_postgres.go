package postgres

import (
	"context"
	"fmt"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const grantColumns = `id, user_id, permission_id, is_enabled, granted_by, created_at, updated_at`

type grantRepository struct {
	db sqlx.ExtContext
}

func (r *grantRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Grant, error) {
	var grant domain.Grant
	query := `SELECT ` + grantColumns + ` FROM role_permissions WHERE id = $1 FOR UPDATE`
	if err := getOne(ctx, r.db, &grant, "permission grant", query, id); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *grantRepository) GetForUpdate(ctx context.Context, userID, permissionID uuid.UUID) (*domain.Grant, error) {
	var grant domain.Grant
	query := `SELECT ` + grantColumns + ` FROM role_permissions
		WHERE user_id = $1 AND permission_id = $2 FOR UPDATE`
	if err := getOne(ctx, r.db, &grant, "permission grant", query, userID, permissionID); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *grantRepository) InsertIfAbsent(ctx context.Context, grant *domain.Grant) (bool, error) {
	query := `
		INSERT INTO role_permissions (` + grantColumns + `)
		VALUES (:id, :user_id, :permission_id, :is_enabled, :granted_by, :created_at, :updated_at)
		ON CONFLICT (user_id, permission_id) DO NOTHING`

	result, err := sqlx.NamedExecContext(ctx, r.db, query, grant)
	if err != nil {
		return false, fmt.Errorf("failed to insert permission grant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

// Upsert keeps the existing row id and created_at on conflict and loads them into grant
func (r *grantRepository) Upsert(ctx context.Context, grant *domain.Grant) error {
	query := `
		INSERT INTO role_permissions (` + grantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, permission_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			granted_by = EXCLUDED.granted_by,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		grant.ID, grant.UserID, grant.PermissionID, grant.IsEnabled,
		grant.GrantedBy, grant.CreatedAt, grant.UpdatedAt,
	)
	if err := row.Scan(&grant.ID, &grant.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert permission grant: %w", err)
	}
	return nil
}

func (r *grantRepository) Update(ctx context.Context, grant *domain.Grant) error {
	query := `
		UPDATE role_permissions SET
			is_enabled = :is_enabled,
			granted_by = :granted_by,
			updated_at = :updated_at
		WHERE id = :id`

	return execNamed(ctx, r.db, "permission grant", query, grant, true)
}

// ListByUser returns the user's grants joined with their permission
func (r *grantRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.GrantDetail, error) {
	query := `
		SELECT g.id, g.user_id, g.permission_id, g.is_enabled, g.granted_by,
			   g.created_at, g.updated_at,
			   p.id AS "permission.id",
			   p.category AS "permission.category",
			   p.action AS "permission.action",
			   p.resource AS "permission.resource",
			   p.description AS "permission.description",
			   p.created_at AS "permission.created_at"
		FROM role_permissions g
		JOIN permissions p ON p.id = g.permission_id
		WHERE g.user_id = $1
		ORDER BY p.category, p.resource, p.action`

	var grants []*domain.GrantDetail
	if err := sqlx.SelectContext(ctx, r.db, &grants, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list permission grants: %w", err)
	}
	return grants, nil
}

func (r *grantRepository) HasEnabled(ctx context.Context, userID uuid.UUID, key domain.PermissionKey) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM role_permissions g
			JOIN permissions p ON p.id = g.permission_id
			WHERE g.user_id = $1 AND g.is_enabled
			  AND p.category = $2 AND p.resource = $3 AND p.action = $4
		)`

	var ok bool
	if err := sqlx.GetContext(ctx, r.db, &ok, query, userID, key.Category, key.Resource, key.Action); err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return ok, nil
}
