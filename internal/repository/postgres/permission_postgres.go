package postgres

import (
	"context"
	"fmt"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const permissionColumns = `id, category, action, resource, description, created_at`

type permissionRepository struct {
	db sqlx.ExtContext
}

// EnsureExists inserts the permission or loads the id of the existing row
func (r *permissionRepository) EnsureExists(ctx context.Context, permission *domain.Permission) error {
	query := `
		INSERT INTO permissions (` + permissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (category, action, resource) DO UPDATE SET description = permissions.description
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query,
		permission.ID, permission.Category, permission.Action,
		permission.Resource, permission.Description, permission.CreatedAt,
	)
	if err := row.Scan(&permission.ID, &permission.CreatedAt); err != nil {
		return fmt.Errorf("failed to ensure permission %s.%s.%s: %w",
			permission.Category, permission.Resource, permission.Action, err)
	}
	return nil
}

func (r *permissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	var permission domain.Permission
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1`
	if err := getOne(ctx, r.db, &permission, "permission", query, id); err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	var permissions []*domain.Permission
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = ANY($1::uuid[])`
	if err := sqlx.SelectContext(ctx, r.db, &permissions, query, pq.Array(raw)); err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	return permissions, nil
}

func (r *permissionRepository) List(ctx context.Context) ([]*domain.Permission, error) {
	var permissions []*domain.Permission
	query := `SELECT ` + permissionColumns + ` FROM permissions ORDER BY category, resource, action`
	if err := sqlx.SelectContext(ctx, r.db, &permissions, query); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}
