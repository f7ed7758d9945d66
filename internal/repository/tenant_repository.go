package repository

import (
	"context"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	// GetByIDForUpdate locks the tenant row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	ExistsByName(ctx context.Context, companyName string) (bool, error)
	List(ctx context.Context, scope Scope) ([]*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
}
