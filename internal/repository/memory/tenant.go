package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type tenantRepository struct{ conn }

func (r *tenantRepository) Create(_ context.Context, tenant *domain.Tenant) error {
	return r.do(func(st *state) error {
		if nameTaken(st, tenant.CompanyName, uuid.Nil) {
			return fmt.Errorf("tenant: %w", repository.ErrDuplicate)
		}
		st.tenants[tenant.ID] = *tenant
		return nil
	})
}

func nameTaken(st *state, name string, except uuid.UUID) bool {
	for id, t := range st.tenants {
		if id != except && strings.EqualFold(t.CompanyName, name) {
			return true
		}
	}
	return false
}

func (r *tenantRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.do(func(st *state) error {
		t, ok := st.tenants[id]
		if !ok {
			return fmt.Errorf("tenant not found: %w", repository.ErrNotFound)
		}
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return r.GetByID(ctx, id)
}

func (r *tenantRepository) ExistsByName(_ context.Context, companyName string) (bool, error) {
	var exists bool
	err := r.do(func(st *state) error {
		exists = nameTaken(st, companyName, uuid.Nil)
		return nil
	})
	return exists, err
}

func (r *tenantRepository) List(_ context.Context, scope repository.Scope) ([]*domain.Tenant, error) {
	var tenants []*domain.Tenant
	err := r.do(func(st *state) error {
		for _, t := range st.tenants {
			id := t.ID
			if !inScope(scope, &id) {
				continue
			}
			tenants = append(tenants, &t)
		}
		return nil
	})
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].CreatedAt.After(tenants[j].CreatedAt) })
	return tenants, err
}

func (r *tenantRepository) Update(_ context.Context, tenant *domain.Tenant) error {
	return r.do(func(st *state) error {
		if _, ok := st.tenants[tenant.ID]; !ok {
			return fmt.Errorf("tenant not found: %w", repository.ErrNotFound)
		}
		if nameTaken(st, tenant.CompanyName, tenant.ID) {
			return fmt.Errorf("tenant: %w", repository.ErrDuplicate)
		}
		st.tenants[tenant.ID] = *tenant
		return nil
	})
}
