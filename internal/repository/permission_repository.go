package repository

import (
	"context"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
)

// PermissionRepository manages the global permission catalog
type PermissionRepository interface {
	// EnsureExists inserts the permission unless its (category, action, resource)
	// already exists, and sets permission.ID to the stored id either way
	EnsureExists(ctx context.Context, permission *domain.Permission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Permission, error)
	// List orders by category, resource, action
	List(ctx context.Context) ([]*domain.Permission, error)
}

// GrantRepository manages RolePermission rows, unique on (user, permission)
type GrantRepository interface {
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Grant, error)
	GetForUpdate(ctx context.Context, userID, permissionID uuid.UUID) (*domain.Grant, error)
	// InsertIfAbsent inserts grant unless a row for the pair exists. created
	// reports whether this call inserted it.
	InsertIfAbsent(ctx context.Context, grant *domain.Grant) (created bool, err error)
	// Upsert inserts or overwrites is_enabled and granted_by for the pair
	Upsert(ctx context.Context, grant *domain.Grant) error
	Update(ctx context.Context, grant *domain.Grant) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.GrantDetail, error)
	HasEnabled(ctx context.Context, userID uuid.UUID, key domain.PermissionKey) (bool, error)
}
