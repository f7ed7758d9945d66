package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/google/uuid"
)

type permissionRepository struct{ conn }

func (r *permissionRepository) EnsureExists(_ context.Context, permission *domain.Permission) error {
	return r.do(func(st *state) error {
		for _, p := range st.permissions {
			if p.Key() == permission.Key() {
				permission.ID = p.ID
				permission.CreatedAt = p.CreatedAt
				return nil
			}
		}
		st.permissions[permission.ID] = *permission
		return nil
	})
}

func (r *permissionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Permission, error) {
	var permission domain.Permission
	err := r.do(func(st *state) error {
		p, ok := st.permissions[id]
		if !ok {
			return fmt.Errorf("permission not found: %w", repository.ErrNotFound)
		}
		permission = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Permission, error) {
	var permissions []*domain.Permission
	err := r.do(func(st *state) error {
		for _, id := range ids {
			if p, ok := st.permissions[id]; ok {
				permissions = append(permissions, &p)
			}
		}
		return nil
	})
	return permissions, err
}

func (r *permissionRepository) List(_ context.Context) ([]*domain.Permission, error) {
	var permissions []*domain.Permission
	err := r.do(func(st *state) error {
		for _, p := range st.permissions {
			permissions = append(permissions, &p)
		}
		return nil
	})
	sortPermissions(permissions, func(i int) *domain.Permission { return permissions[i] })
	return permissions, err
}

// sortPermissions orders any slice by category, resource, action of the permission at i
func sortPermissions[T any](items []T, at func(i int) *domain.Permission) {
	sort.Slice(items, func(i, j int) bool {
		a, b := at(i), at(j)
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Resource != b.Resource {
			return a.Resource < b.Resource
		}
		return a.Action < b.Action
	})
}

type grantRepository struct{ conn }

func (r *grantRepository) get(pred func(g domain.Grant) bool) (*domain.Grant, error) {
	var found *domain.Grant
	err := r.do(func(st *state) error {
		for _, g := range st.grants {
			if pred(g) {
				found = &g
				return nil
			}
		}
		return fmt.Errorf("permission grant not found: %w", repository.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *grantRepository) GetByIDForUpdate(_ context.Context, id uuid.UUID) (*domain.Grant, error) {
	return r.get(func(g domain.Grant) bool { return g.ID == id })
}

func (r *grantRepository) GetForUpdate(_ context.Context, userID, permissionID uuid.UUID) (*domain.Grant, error) {
	return r.get(func(g domain.Grant) bool { return g.UserID == userID && g.PermissionID == permissionID })
}

func findGrant(st *state, userID, permissionID uuid.UUID) (domain.Grant, bool) {
	for _, g := range st.grants {
		if g.UserID == userID && g.PermissionID == permissionID {
			return g, true
		}
	}
	return domain.Grant{}, false
}

func (r *grantRepository) InsertIfAbsent(_ context.Context, grant *domain.Grant) (bool, error) {
	var created bool
	err := r.do(func(st *state) error {
		if _, ok := findGrant(st, grant.UserID, grant.PermissionID); ok {
			return nil
		}
		st.grants[grant.ID] = *grant
		created = true
		return nil
	})
	return created, err
}

func (r *grantRepository) Upsert(_ context.Context, grant *domain.Grant) error {
	return r.do(func(st *state) error {
		if existing, ok := findGrant(st, grant.UserID, grant.PermissionID); ok {
			grant.ID = existing.ID
			grant.CreatedAt = existing.CreatedAt
		}
		st.grants[grant.ID] = *grant
		return nil
	})
}

func (r *grantRepository) Update(_ context.Context, grant *domain.Grant) error {
	return r.do(func(st *state) error {
		existing, ok := st.grants[grant.ID]
		if !ok {
			return fmt.Errorf("permission grant not found: %w", repository.ErrNotFound)
		}
		existing.IsEnabled = grant.IsEnabled
		existing.GrantedBy = grant.GrantedBy
		existing.UpdatedAt = grant.UpdatedAt
		st.grants[grant.ID] = existing
		return nil
	})
}

func (r *grantRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.GrantDetail, error) {
	var grants []*domain.GrantDetail
	err := r.do(func(st *state) error {
		for _, g := range st.grants {
			if g.UserID != userID {
				continue
			}
			p, ok := st.permissions[g.PermissionID]
			if !ok {
				continue
			}
			grants = append(grants, &domain.GrantDetail{Grant: g, Permission: p})
		}
		return nil
	})
	sortPermissions(grants, func(i int) *domain.Permission { return &grants[i].Permission })
	return grants, err
}

func (r *grantRepository) HasEnabled(_ context.Context, userID uuid.UUID, key domain.PermissionKey) (bool, error) {
	var ok bool
	err := r.do(func(st *state) error {
		for _, g := range st.grants {
			if g.UserID != userID || !g.IsEnabled {
				continue
			}
			if p, found := st.permissions[g.PermissionID]; found && p.Key() == key {
				ok = true
				return nil
			}
		}
		return nil
	})
	return ok, err
}
