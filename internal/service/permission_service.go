package service

import (
	"context"
	"errors"
	"time"

	"github.com/Developershubh00/Binder-backend/internal/domain"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/google/uuid"
)

type PermissionService struct {
	store repository.Store
	log   *logger.Logger
	now   Clock
}

// PermissionUpdate references either an existing grant (PermissionID) or a
// catalog permission (ID). IsEnabled defaults to true.
type PermissionUpdate struct {
	PermissionID *uuid.UUID `json:"permission_id"`
	ID           *uuid.UUID `json:"id"`
	IsEnabled    *bool      `json:"is_enabled"`
}

type UpdatePermissionsRequest struct {
	Permissions []PermissionUpdate `json:"permissions" validate:"required,dive"`
}

// PermissionGroups maps a category to its entries, ordered by resource then action
type PermissionGroups map[domain.PermissionCategory][]PermissionEntry

func NewPermissionService(store repository.Store, log *logger.Logger) *PermissionService {
	return &PermissionService{store: store, log: log.Named("permission"), now: time.Now}
}

func (s *PermissionService) SetClock(now Clock) { s.now = now }

// Seed makes sure every default catalog entry exists and returns the catalog size
func (s *PermissionService) Seed(ctx context.Context) (int, error) {
	defaults := domain.DefaultPermissions()
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		for i := range defaults {
			p := &defaults[i]
			p.ID = uuid.New()
			p.CreatedAt = s.now()
			if err := r.Permissions.EnsureExists(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("permissions", len(defaults)).Msg("permission catalog seeded")
	return len(defaults), nil
}

// Catalog returns every permission grouped by category, without grant state
func (s *PermissionService) Catalog(ctx context.Context) (PermissionGroups, error) {
	catalog, err := s.store.Repos().Permissions.List(ctx)
	if err != nil {
		return nil, err
	}
	groups := PermissionGroups{}
	for _, p := range catalog {
		groups[p.Category] = append(groups[p.Category], PermissionEntry{
			ID:          p.ID,
			Category:    p.Category,
			Action:      p.Action,
			Resource:    p.Resource,
			Description: p.Description,
		})
	}
	return groups, nil
}

// AvailablePermissions lists the whole catalog as seen through the target's grants
func (s *PermissionService) AvailablePermissions(ctx context.Context, actor *domain.User, targetID uuid.UUID) (PermissionGroups, error) {
	repos := s.store.Repos()
	target, err := visibleMember(ctx, repos.Users, actor, targetID, false)
	if err != nil {
		return nil, err
	}

	catalog, err := repos.Permissions.List(ctx)
	if err != nil {
		return nil, err
	}
	grants, err := repos.Grants.ListByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	byPermission := make(map[uuid.UUID]*domain.GrantDetail, len(grants))
	for _, g := range grants {
		byPermission[g.PermissionID] = g
	}

	groups := PermissionGroups{}
	for _, p := range catalog {
		entry := PermissionEntry{
			ID:          p.ID,
			Category:    p.Category,
			Action:      p.Action,
			Resource:    p.Resource,
			Description: p.Description,
		}
		if g, ok := byPermission[p.ID]; ok {
			entry = grantEntry(g)
		}
		groups[p.Category] = append(groups[p.Category], entry)
	}
	return groups, nil
}

// UpdateMemberPermissions applies entries in one transaction. A grant id
// reference updates that grant; otherwise a catalog id upserts the pair.
// Unknown references are skipped.
func (s *PermissionService) UpdateMemberPermissions(ctx context.Context, actor *domain.User, targetID uuid.UUID, req UpdatePermissionsRequest) ([]*domain.GrantDetail, error) {
	if !actor.CanCreateMembers() {
		return nil, domain.ErrPermissionDeniedMsg("You do not have permission to manage user permissions")
	}

	var grants []*domain.GrantDetail
	applied := 0
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		target, err := visibleMember(ctx, r.Users, actor, targetID, true)
		if err != nil {
			return err
		}

		now := s.now()
		for _, entry := range req.Permissions {
			enabled := entry.IsEnabled == nil || *entry.IsEnabled

			if entry.PermissionID != nil {
				grant, err := r.Grants.GetByIDForUpdate(ctx, *entry.PermissionID)
				if err == nil && grant.UserID == target.ID {
					grant.IsEnabled = enabled
					grant.GrantedBy = &actor.ID
					grant.UpdatedAt = now
					if err := r.Grants.Update(ctx, grant); err != nil {
						return err
					}
					applied++
					continue
				}
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}

			if entry.ID == nil {
				continue
			}
			if _, err := r.Permissions.GetByID(ctx, *entry.ID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
			grant := &domain.Grant{
				ID:           uuid.New(),
				UserID:       target.ID,
				PermissionID: *entry.ID,
				IsEnabled:    enabled,
				GrantedBy:    &actor.ID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := r.Grants.Upsert(ctx, grant); err != nil {
				return err
			}
			applied++
		}

		grants, err = r.Grants.ListByUser(ctx, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("actor_id", actor.ID.String()).
		Str("user_id", targetID.String()).
		Int("applied", applied).
		Int("skipped", len(req.Permissions)-applied).
		Msg("member permissions updated")
	return grants, nil
}

// TogglePermission creates an enabled grant for the pair, or flips the
// existing one
func (s *PermissionService) TogglePermission(ctx context.Context, actor *domain.User, userID, permissionID uuid.UUID) (*PermissionEntry, error) {
	if !actor.CanCreateMembers() {
		return nil, domain.ErrPermissionDeniedMsg("You don't have permission to manage permissions")
	}

	var entry PermissionEntry
	err := s.store.WithTx(ctx, func(r repository.Repositories) error {
		target, err := visibleMember(ctx, r.Users, actor, userID, false)
		if err != nil {
			return err
		}
		permission, err := r.Permissions.GetByID(ctx, permissionID)
		if err != nil {
			return notFound(err, "Permission")
		}

		now := s.now()
		grant := &domain.Grant{
			ID:           uuid.New(),
			UserID:       target.ID,
			PermissionID: permission.ID,
			IsEnabled:    true,
			GrantedBy:    &actor.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		created, err := r.Grants.InsertIfAbsent(ctx, grant)
		if err != nil {
			return err
		}
		if !created {
			grant, err = r.Grants.GetForUpdate(ctx, target.ID, permission.ID)
			if err != nil {
				return err
			}
			grant.IsEnabled = !grant.IsEnabled
			grant.UpdatedAt = now
			if err := r.Grants.Update(ctx, grant); err != nil {
				return err
			}
		}

		entry = grantEntry(&domain.GrantDetail{Grant: *grant, Permission: *permission})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("actor_id", actor.ID.String()).
		Str("user_id", userID.String()).
		Str("permission", string(entry.Category)+"/"+entry.Resource+"/"+string(entry.Action)).
		Bool("enabled", entry.IsEnabled).
		Msg("permission toggled")
	return &entry, nil
}
